package rules

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"retailcreative/internal/domain"
)

type stubExecutor struct {
	profile []byte
	err     error
	exec    struct {
		query string
		args  []any
	}
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.exec.query = query
	s.exec.args = args
	return pgconn.CommandTag{}, s.err
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return stubRow{data: s.profile, err: s.err}
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type stubRow struct {
	data []byte
	err  error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	ptr, ok := dest[0].(*[]byte)
	if !ok {
		return errors.New("invalid dest")
	}
	*ptr = r.data
	return nil
}

func TestPostgresSourceLoad(t *testing.T) {
	src := NewPostgresSource(&stubExecutor{profile: []byte(`{"dimensions":{"width":1080,"height":1080},"text":{"maxLines":2,"minFontSize":16,"allowedFonts":["Inter"]},"brand":{"colors":["#CC0000"]}}`)})
	p, err := src.Load(context.Background(), "target")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Platform != "target" || p.Dimensions.Width != 1080 || p.Text.MinFontSize != 16 {
		t.Fatalf("profile = %+v", p)
	}
}

func TestPostgresSourceNoRows(t *testing.T) {
	src := NewPostgresSource(&stubExecutor{err: pgx.ErrNoRows})
	if _, err := src.Load(context.Background(), "target"); !errors.Is(err, domain.ErrUnknownPlatform) {
		t.Fatalf("Load error = %v, want ErrUnknownPlatform", err)
	}
}

func TestPostgresSourceUpsert(t *testing.T) {
	exec := &stubExecutor{}
	src := NewPostgresSource(exec)
	p := &domain.PlatformProfile{Platform: "target", Dimensions: domain.Dimensions{Width: 1080, Height: 1080}}
	if err := src.Upsert(context.Background(), p); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if !strings.Contains(exec.exec.query, "platform_profiles") {
		t.Fatalf("unexpected query %q", exec.exec.query)
	}
	if len(exec.exec.args) != 2 || exec.exec.args[0] != "target" {
		t.Fatalf("args = %#v", exec.exec.args)
	}

	if err := src.Upsert(context.Background(), &domain.PlatformProfile{Platform: "bad"}); err == nil {
		t.Fatal("expected validation error for profile without dimensions")
	}
}
