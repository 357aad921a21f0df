package image

import (
	"context"
)

// GenerateRequest describes a normalized request passed to any image provider.
type GenerateRequest struct {
	Prompt         string
	NegativePrompt string
	Platform       string
	ElementID      string
	Width          int
	Height         int
	Background     string
}

// Asset represents a generated image.
type Asset struct {
	StorageKey string
	URL        string
	Format     string
	Width      int
	Height     int
	Data       []byte
}

// Generator is the contract implemented by all image providers.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (Asset, error)
}

// Store persists generated bytes and resolves their public URL.
type Store interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	URL(key string) string
}
