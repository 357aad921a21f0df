package rules

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"retailcreative/internal/domain"
	"retailcreative/internal/infra"
	"retailcreative/internal/sqlinline"
)

//go:embed profiles/*.yaml
var builtinFS embed.FS

// Source is a backing store of platform profiles.
type Source interface {
	Load(ctx context.Context, platform string) (*domain.PlatformProfile, error)
	Platforms(ctx context.Context) ([]string, error)
	Name() string
}

// FSSource reads one <platform>.yaml document per platform from a filesystem.
type FSSource struct {
	fsys fs.FS
	name string
}

// NewBuiltinSource serves the profiles compiled into the binary.
func NewBuiltinSource() *FSSource {
	sub, err := fs.Sub(builtinFS, "profiles")
	if err != nil {
		panic(fmt.Errorf("rules: builtin profiles: %w", err))
	}
	return &FSSource{fsys: sub, name: "builtin"}
}

// NewDirSource serves profiles from dir on the local disk.
func NewDirSource(dir string) *FSSource {
	return &FSSource{fsys: os.DirFS(dir), name: "dir:" + dir}
}

func (s *FSSource) Name() string { return s.name }

func (s *FSSource) Load(ctx context.Context, platform string) (*domain.PlatformProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, platform+".yaml")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrUnknownPlatform
	}
	if err != nil {
		return nil, err
	}
	return DecodeYAML(data)
}

func (s *FSSource) Platforms(ctx context.Context) ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

// DecodeYAML parses a single profile document and validates it.
func DecodeYAML(data []byte) (*domain.PlatformProfile, error) {
	var p domain.PlatformProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	p.Platform = strings.ToLower(strings.TrimSpace(p.Platform))
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// PostgresSource reads profiles stored as JSON documents in platform_profiles.
type PostgresSource struct {
	sql infra.SQLExecutor
}

func NewPostgresSource(sql infra.SQLExecutor) *PostgresSource {
	return &PostgresSource{sql: sql}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Load(ctx context.Context, platform string) (*domain.PlatformProfile, error) {
	var raw []byte
	if err := s.sql.QueryRow(ctx, sqlinline.QSelectPlatformProfile, platform).Scan(&raw); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrUnknownPlatform
		}
		return nil, err
	}
	var p domain.PlatformProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	p.Platform = platform
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresSource) Platforms(ctx context.Context) ([]string, error) {
	rows, err := s.sql.Query(ctx, sqlinline.QListPlatformProfiles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Upsert stores or replaces a profile document.
func (s *PostgresSource) Upsert(ctx context.Context, p *domain.PlatformProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertPlatformProfile, p.Platform, raw)
	return err
}

var (
	_ Source              = (*FSSource)(nil)
	_ Source              = (*PostgresSource)(nil)
	_ domain.ProfileStore = (*PostgresSource)(nil)
)
