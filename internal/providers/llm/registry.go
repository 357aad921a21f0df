package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Client is one model bound to a fixed temperature.
type Client interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Factory builds a Client for a model/temperature pair.
type Factory func(model string, temperature float32) (Client, error)

type RegistryOptions struct {
	Provider string
	Model    string
	Factory  Factory
	// RatePerMinute bounds outbound model calls; zero disables limiting.
	RatePerMinute int
	Logger        zerolog.Logger
	// OnCall observes every completed call.
	OnCall func(prompt string, took time.Duration, err error)
}

// Registry is a Capability that lazily creates and caches one Client per
// model configuration.
type Registry struct {
	provider string
	model    string
	factory  Factory
	limiter  *rate.Limiter
	logger   zerolog.Logger
	onCall   func(string, time.Duration, error)

	mu      sync.Mutex
	clients map[string]Client
}

func NewRegistry(opts RegistryOptions) (*Registry, error) {
	if opts.Factory == nil {
		return nil, errors.New("llm: factory is required")
	}
	if opts.Model == "" {
		return nil, errors.New("llm: model is required")
	}
	r := &Registry{
		provider: opts.Provider,
		model:    opts.Model,
		factory:  opts.Factory,
		logger:   opts.Logger.With().Str("component", "llm").Str("provider", opts.Provider).Logger(),
		onCall:   opts.OnCall,
		clients:  make(map[string]Client),
	}
	if opts.RatePerMinute > 0 {
		burst := opts.RatePerMinute / 10
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), burst)
	}
	return r, nil
}

// Invoke implements Capability.
func (r *Registry) Invoke(ctx context.Context, p Prompt) (json.RawMessage, error) {
	client, err := r.client(p.Mode.Temperature())
	if err != nil {
		return nil, err
	}
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}
	start := time.Now()
	text, err := client.Generate(ctx, p.Instruction(), p.User)
	took := time.Since(start)
	if r.onCall != nil {
		r.onCall(p.Name, took, err)
	}
	if err != nil {
		return nil, err
	}
	fragment := ExtractJSON(text)
	if fragment == "" || !json.Valid([]byte(fragment)) {
		return nil, fmt.Errorf("response is not valid JSON")
	}
	r.logger.Debug().Str("prompt", p.Name).Str("mode", p.Mode.String()).Dur("took", took).Msg("model call")
	return json.RawMessage(fragment), nil
}

// Reset drops every cached client.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.clients = make(map[string]Client)
	r.mu.Unlock()
}

// Len reports how many clients are cached.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

func (r *Registry) client(temperature float32) (Client, error) {
	key := fmt.Sprintf("%s@%g", r.model, temperature)
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[key]; ok {
		return c, nil
	}
	c, err := r.factory(r.model, temperature)
	if err != nil {
		return nil, fmt.Errorf("create client %s: %w", key, err)
	}
	r.clients[key] = c
	return c, nil
}

var _ Capability = (*Registry)(nil)
