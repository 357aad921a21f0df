package creative

import (
	"time"

	"retailcreative/internal/domain"
)

// Apply merges the option into a copy of d. With preserve set, existing
// elements are kept and option elements are upserted by id; otherwise the
// option's elements replace the canvas. The version is bumped on every call.
func Apply(d domain.Design, opt domain.DesignOption, preserve bool, now time.Time) domain.Design {
	out := d.Clone()
	var elements []domain.Element
	if preserve {
		elements = out.Elements
	}
	if elements == nil {
		elements = make([]domain.Element, 0, len(opt.Elements))
	}

	index := make(map[string]int, len(elements))
	for i, el := range elements {
		index[el.ID] = i
	}
	for _, el := range opt.Elements {
		if i, ok := index[el.ID]; ok {
			elements[i] = mergeElement(elements[i], el)
			continue
		}
		index[el.ID] = len(elements)
		elements = append(elements, el.Clone())
	}
	out.Elements = elements

	if out.Metadata == nil {
		out.Metadata = &domain.DesignMetadata{}
	}
	out.Metadata.Version++
	out.Metadata.LastModified = now.UTC()
	return out
}

// mergeElement overlays the set fields of patch onto base. Geometry always
// comes from patch.
func mergeElement(base, patch domain.Element) domain.Element {
	out := base
	if patch.Type != "" {
		out.Type = patch.Type
	}
	out.X, out.Y, out.Width, out.Height = patch.X, patch.Y, patch.Width, patch.Height
	p := patch.Clone()
	if p.Style != nil {
		out.Style = p.Style
	}
	if p.Content != "" {
		out.Content = p.Content
	}
	if p.Src != "" {
		out.Src = p.Src
	}
	if p.Metadata != nil {
		out.Metadata = p.Metadata
	}
	return out
}
