package image

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"retailcreative/internal/domain"
)

// ProfileSource resolves platform rules for prompt construction.
type ProfileSource interface {
	Profile(ctx context.Context, platform string) (*domain.PlatformProfile, error)
}

// Materializer fills image elements that still need artwork: it generates an
// asset, stores it and points the element at the stored URL.
type Materializer struct {
	gen      Generator
	store    Store
	profiles ProfileSource
	logger   zerolog.Logger
}

func NewMaterializer(gen Generator, store Store, profiles ProfileSource, logger zerolog.Logger) *Materializer {
	return &Materializer{gen: gen, store: store, profiles: profiles, logger: logger}
}

func (m *Materializer) Materialize(ctx context.Context, platform string, el domain.Element) (domain.Element, error) {
	if m == nil || m.gen == nil || m.store == nil {
		return el, errors.New("image: materializer not configured")
	}
	if el.Type != domain.ElementImage {
		return el, fmt.Errorf("image: element %s is %s, not image", el.ID, el.Type)
	}

	var profile *domain.PlatformProfile
	if m.profiles != nil {
		p, err := m.profiles.Profile(ctx, platform)
		if err != nil {
			return el, err
		}
		profile = p
	}
	req := GenerateRequest{
		Prompt:         BuildAssetPrompt(el, profile),
		NegativePrompt: DefaultNegativePrompt,
		Platform:       platform,
		ElementID:      el.ID,
		Width:          int(el.Width),
		Height:         int(el.Height),
	}
	if profile != nil {
		req.Background = profile.RequiredBgColor
	}

	asset, err := m.gen.Generate(ctx, req)
	if err != nil {
		return el, fmt.Errorf("image: generate %s: %w", el.ID, err)
	}
	key, err := m.store.Write(ctx, asset.StorageKey, asset.Data)
	if err != nil {
		return el, err
	}

	out := el.Clone()
	out.Src = m.store.URL(key)
	flags := out.Flags()
	flags.NeedsGeneration = false
	out.Metadata = &flags

	m.logger.Debug().
		Str("platform", platform).
		Str("element_id", el.ID).
		Str("storage_key", key).
		Int("bytes", len(asset.Data)).
		Msg("image: materialized asset")
	return out, nil
}
