package creative

import (
	"fmt"

	"retailcreative/internal/domain"
	"retailcreative/internal/domain/jsoncfg"
	"retailcreative/internal/rules"
)

// ReviewReasons lists the human-approval triggers that fire for opts. Only the
// first option is inspected for the change-count and critical-element
// triggers.
func ReviewReasons(opts []domain.DesignOption, current domain.Design, p *domain.PlatformProfile, t jsoncfg.HITLTriggers) []string {
	reasons := []string{}
	if len(opts) == 0 {
		return reasons
	}

	if t.MultipleOptionsEnabled() && len(opts) > 1 {
		reasons = append(reasons, fmt.Sprintf("Multiple options available (%d)", len(opts)))
	}

	for _, opt := range opts {
		if opt.Confidence < t.LowConfidence {
			reasons = append(reasons, "Low confidence in some options")
			break
		}
	}

	first := opts[0]
	if n := len(first.Modifications); n > t.MajorChanges() {
		reasons = append(reasons, fmt.Sprintf("Major changes (%d modifications)", n))
	}

	if touchesCritical(first, current) {
		reasons = append(reasons, "Changes to critical elements")
	}

	floor := rules.ConsistencyMin(p)
	for _, opt := range opts {
		if opt.BrandConsistencyScore != nil && *opt.BrandConsistencyScore < floor {
			reasons = append(reasons, "Brand consistency below threshold")
			break
		}
	}
	return reasons
}

// touchesCritical reports whether the option adds a flagged element or
// rewrites one that is flagged on the current canvas.
func touchesCritical(opt domain.DesignOption, current domain.Design) bool {
	flagged := make(map[string]struct{})
	for _, el := range current.Elements {
		if f := el.Flags(); f.IsCritical || f.IsProduct {
			flagged[el.ID] = struct{}{}
		}
	}
	for _, el := range opt.Elements {
		if f := el.Flags(); f.IsCritical || f.IsProduct {
			return true
		}
		if _, ok := flagged[el.ID]; ok {
			return true
		}
	}
	return false
}
