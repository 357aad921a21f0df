package infra

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestHTTPServerRunStopsOnCancel(t *testing.T) {
	srv := NewHTTPServer(&Config{Port: "0", HTTPIdleTimeout: time.Second}, http.NotFoundHandler())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestHTTPServerRunReportsListenError(t *testing.T) {
	srv := NewHTTPServer(&Config{Port: "not-a-port"}, http.NotFoundHandler())
	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}

func TestApplySchemaStopsOnError(t *testing.T) {
	exec := &recordingExec{failOn: "b"}
	err := ApplySchema(context.Background(), exec, "a", "b", "c")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(exec.seen) != 2 {
		t.Fatalf("executed %v, want to stop at the failing statement", exec.seen)
	}
}

type recordingExec struct {
	recordingExecutor
	failOn string
	seen   []string
}

func (r *recordingExec) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	r.seen = append(r.seen, query)
	if query == r.failOn {
		return pgconn.CommandTag{}, errors.New("syntax error")
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}
