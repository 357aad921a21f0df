package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"retailcreative/internal/domain"
	"retailcreative/internal/rules"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func copyBuiltin(t *testing.T, dir, platform string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "internal", "rules", "profiles", platform+".yaml"))
	if err != nil {
		t.Fatalf("read builtin %s: %v", platform, err)
	}
	if err := os.WriteFile(filepath.Join(dir, platform+".yaml"), data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func exitCode(err error) int {
	var ee *exitErr
	if errors.As(err, &ee) {
		return ee.code
	}
	return -1
}

func TestListBuiltin(t *testing.T) {
	out, _, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"PLATFORM", "amazon", "flipkart", "walmart", "1200x627"} {
		if !strings.Contains(out, want) {
			t.Fatalf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestShowFormats(t *testing.T) {
	out, _, err := execute(t, "show", "Walmart", "--format", "json")
	if err != nil {
		t.Fatalf("show json: %v", err)
	}
	if !strings.Contains(out, `"platform": "walmart"`) {
		t.Fatalf("unexpected json:\n%s", out)
	}

	out, _, err = execute(t, "show", "amazon")
	if err != nil {
		t.Fatalf("show yaml: %v", err)
	}
	if !strings.Contains(out, "platform: amazon") {
		t.Fatalf("unexpected yaml:\n%s", out)
	}

	_, _, err = execute(t, "show", "ebay")
	if code := exitCode(err); code != 2 {
		t.Fatalf("unknown platform exit = %d (%v), want 2", code, err)
	}
	_, _, err = execute(t, "show", "amazon", "--format", "xml")
	if code := exitCode(err); code != 2 {
		t.Fatalf("bad format exit = %d (%v), want 2", code, err)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	copyBuiltin(t, dir, "amazon")
	copyBuiltin(t, dir, "walmart")

	out, _, err := execute(t, "check", dir)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if strings.TrimSpace(out) != "2 profiles ok" {
		t.Fatalf("out = %q", out)
	}

	if err := os.WriteFile(filepath.Join(dir, "target.yaml"), []byte("platform: target\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(filepath.Join(dir, "walmart.yaml"), filepath.Join(dir, "walmart-us.yaml")); err != nil {
		t.Fatal(err)
	}
	_, stderr, err := execute(t, "check", dir)
	if code := exitCode(err); code != 2 {
		t.Fatalf("exit = %d (%v), want 2", code, err)
	}
	if !strings.Contains(stderr, "target.yaml:") || !strings.Contains(stderr, "does not match file name") {
		t.Fatalf("stderr = %q", stderr)
	}

	_, _, err = execute(t, "check", t.TempDir())
	if code := exitCode(err); code != 2 {
		t.Fatalf("empty dir exit = %d (%v), want 2", code, err)
	}
}

type memoryProfiles struct {
	saved []string
}

func (m *memoryProfiles) Upsert(_ context.Context, p *domain.PlatformProfile) error {
	m.saved = append(m.saved, p.Platform)
	return nil
}

func TestImportProfiles(t *testing.T) {
	store := &memoryProfiles{}
	names, err := importProfiles(context.Background(), rules.NewBuiltinSource(), store)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	want := []string{"amazon", "flipkart", "walmart"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, store.saved); diff != "" {
		t.Fatalf("saved (-want +got):\n%s", diff)
	}
}

func TestImportRequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, _, err := execute(t, "migrate")
	if code := exitCode(err); code != 2 {
		t.Fatalf("exit = %d (%v), want 2", code, err)
	}
}
