// Package rules loads and caches the per-platform constraint profiles consumed
// by the validation pipeline and the creative planner.
package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"retailcreative/internal/domain"
)

// Provider caches profiles per platform. A profile is loaded on first access
// and kept until Reload; concurrent first accesses share one load.
type Provider struct {
	source Source
	logger zerolog.Logger

	mu        sync.RWMutex
	gen       uint64 // bumped by Reload; loads started earlier are not cached
	profiles  map[string]*domain.PlatformProfile
	platforms []string
	group     singleflight.Group
}

func NewProvider(source Source, logger zerolog.Logger) *Provider {
	return &Provider{
		source:   source,
		logger:   logger.With().Str("component", "rules").Str("source", source.Name()).Logger(),
		profiles: make(map[string]*domain.PlatformProfile),
	}
}

// Profile returns the profile for platform. Unknown platforms and malformed
// records both fail with a *domain.ConfigError. A caller whose ctx ends gets
// ctx.Err(); the shared load keeps running for the other waiters.
func (p *Provider) Profile(ctx context.Context, platform string) (*domain.PlatformProfile, error) {
	key := normalize(platform)
	p.mu.RLock()
	prof, ok := p.profiles[key]
	gen := p.gen
	p.mu.RUnlock()
	if ok {
		return prof, nil
	}

	v, err := p.shared(ctx, fmt.Sprintf("profile:%d:%s", gen, key), func(ctx context.Context) (any, error) {
		prof, err := p.source.Load(ctx, key)
		if err != nil {
			return nil, p.configError(p.source.Name()+"/"+key, err)
		}
		if p.commit(gen, func() { p.profiles[key] = prof }) {
			p.logger.Debug().Str("platform", key).Msg("profile loaded")
		}
		return prof, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.PlatformProfile), nil
}

// Platforms lists the supported platform keys.
func (p *Provider) Platforms(ctx context.Context) ([]string, error) {
	p.mu.RLock()
	cached := p.platforms
	gen := p.gen
	p.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}
	v, err := p.shared(ctx, fmt.Sprintf("platforms:%d", gen), func(ctx context.Context) (any, error) {
		names, err := p.source.Platforms(ctx)
		if err != nil {
			return nil, p.configError(p.source.Name(), err)
		}
		if names == nil {
			names = []string{}
		}
		p.commit(gen, func() { p.platforms = names })
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// shared runs load once per key across concurrent callers, detached from any
// single caller's cancellation.
func (p *Provider) shared(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	detached := context.WithoutCancel(ctx)
	ch := p.group.DoChan(key, func() (any, error) { return load(detached) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// commit applies write under the lock unless Reload ran since gen was read.
func (p *Provider) commit(gen uint64, write func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		return false
	}
	write()
	return true
}

func (p *Provider) configError(source string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &domain.ConfigError{Source: source, Err: err}
}

// Supported reports whether platform is in the supported set.
func (p *Provider) Supported(ctx context.Context, platform string) (bool, error) {
	names, err := p.Platforms(ctx)
	if err != nil {
		return false, err
	}
	key := normalize(platform)
	for _, n := range names {
		if n == key {
			return true, nil
		}
	}
	return false, nil
}

// Reload drops every cached profile so the next access re-reads the source.
func (p *Provider) Reload() {
	p.mu.Lock()
	p.gen++
	p.profiles = make(map[string]*domain.PlatformProfile)
	p.platforms = nil
	p.mu.Unlock()
	p.logger.Info().Msg("profile cache cleared")
}

// IsUnknownPlatform reports whether err was caused by a platform with no profile.
func IsUnknownPlatform(err error) bool {
	return errors.Is(err, domain.ErrUnknownPlatform)
}

func normalize(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}
