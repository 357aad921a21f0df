package domain

import "context"

// ReviewRepository persists creative runs waiting on a human decision.
type ReviewRepository interface {
	Save(ctx context.Context, session *ReviewSession) error
	Get(ctx context.Context, id string) (*ReviewSession, error)
	Delete(ctx context.Context, id string) error
}

// ProfileStore is a writable platform-profile source.
type ProfileStore interface {
	Upsert(ctx context.Context, profile *PlatformProfile) error
}
