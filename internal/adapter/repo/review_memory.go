package repo

import (
	"context"
	"sync"

	"retailcreative/internal/domain"
)

// ReviewRepositoryMemory keeps review sessions in process memory. It is used
// when no database is configured.
type ReviewRepositoryMemory struct {
	mu       sync.RWMutex
	sessions map[string]domain.ReviewSession
}

func NewReviewRepositoryMemory() *ReviewRepositoryMemory {
	return &ReviewRepositoryMemory{sessions: make(map[string]domain.ReviewSession)}
}

func (r *ReviewRepositoryMemory) Save(ctx context.Context, s *domain.ReviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = copySession(*s)
	return nil
}

func (r *ReviewRepositoryMemory) Get(ctx context.Context, id string) (*domain.ReviewSession, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	out := copySession(s)
	return &out, nil
}

func (r *ReviewRepositoryMemory) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrReviewNotFound
	}
	delete(r.sessions, id)
	return nil
}

// copySession detaches the stored session from caller-owned slices.
func copySession(s domain.ReviewSession) domain.ReviewSession {
	s.Design = s.Design.Clone()
	opts := make([]domain.DesignOption, len(s.Options))
	for i, o := range s.Options {
		els := make([]domain.Element, len(o.Elements))
		for j, el := range o.Elements {
			els[j] = el.Clone()
		}
		o.Elements = els
		o.Modifications = append([]string(nil), o.Modifications...)
		o.PreservedElementIDs = append([]string(nil), o.PreservedElementIDs...)
		opts[i] = o
	}
	s.Options = opts
	s.Reasons = append([]string(nil), s.Reasons...)
	return s
}

var _ domain.ReviewRepository = (*ReviewRepositoryMemory)(nil)
