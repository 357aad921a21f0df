package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"retailcreative/internal/domain"
	"retailcreative/internal/infra"
	"retailcreative/internal/sqlinline"
)

// ReviewRepositoryPG implements domain.ReviewRepository on the review_sessions table.
type ReviewRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewReviewRepository creates a review repository backed by PostgreSQL.
func NewReviewRepository(sql infra.SQLExecutor) *ReviewRepositoryPG {
	return &ReviewRepositoryPG{sql: sql}
}

// Save inserts the session or replaces its payload.
func (r *ReviewRepositoryPG) Save(ctx context.Context, s *domain.ReviewSession) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode review session: %w", err)
	}
	_, err = r.sql.Exec(ctx, sqlinline.QUpsertReviewSession, s.ID, s.Platform, payload, s.CreatedAt, s.UpdatedAt)
	return err
}

// Get fetches a session by id.
func (r *ReviewRepositoryPG) Get(ctx context.Context, id string) (*domain.ReviewSession, error) {
	var payload []byte
	if err := r.sql.QueryRow(ctx, sqlinline.QSelectReviewSession, id).Scan(&payload); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}
	var s domain.ReviewSession
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("decode review session %s: %w", id, err)
	}
	return &s, nil
}

// Delete removes a session. Deleting a missing session reports ErrReviewNotFound.
func (r *ReviewRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteReviewSession, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

var _ domain.ReviewRepository = (*ReviewRepositoryPG)(nil)
