package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"retailcreative/internal/domain"
	"retailcreative/internal/infra"
	"retailcreative/internal/rules"
	"retailcreative/internal/sqlinline"
)

func sourceFor(dir string) rules.Source {
	if dir == "" {
		return rules.NewBuiltinSource()
	}
	return rules.NewDirSource(dir)
}

func newListCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List platforms and their canvas sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			src := sourceFor(dir)
			names, err := src.Platforms(ctx)
			if err != nil {
				return exitError(3, "list %s: %v", src.Name(), err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PLATFORM\tNAME\tSIZE\tBACKGROUND")
			for _, name := range names {
				p, err := src.Load(ctx, name)
				if err != nil {
					return exitError(2, "%s: %v", name, err)
				}
				fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%s\n", p.Platform, rules.DisplayName(p), p.Dimensions.Width, p.Dimensions.Height, p.RequiredBgColor)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Profile directory (default: builtin profiles)")
	return cmd
}

func newShowCmd() *cobra.Command {
	var dir, format string
	cmd := &cobra.Command{
		Use:   "show <platform>",
		Short: "Print one profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := sourceFor(dir)
			p, err := src.Load(cmd.Context(), strings.ToLower(args[0]))
			if err != nil {
				if rules.IsUnknownPlatform(err) {
					return exitError(2, "unknown platform %q", args[0])
				}
				return exitError(3, "load %s: %v", args[0], err)
			}
			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(p)
			case "summary":
				for _, line := range rules.SummaryLines(p) {
					fmt.Fprintln(cmd.OutOrStdout(), "- "+line)
				}
				return nil
			default:
				return exitError(2, "unknown format %q (want yaml, json or summary)", format)
			}
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Profile directory (default: builtin profiles)")
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml, json or summary")
	return cmd
}

// checkDir decodes every profile in dir and returns one message per problem.
func checkDir(dir string) (int, []string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return 0, nil, err
	}
	sort.Strings(paths)
	var problems []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, nil, err
		}
		p, err := rules.DecodeYAML(data)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", filepath.Base(path), err))
			continue
		}
		if want := strings.TrimSuffix(filepath.Base(path), ".yaml"); p.Platform != want {
			problems = append(problems, fmt.Sprintf("%s: platform %q does not match file name", filepath.Base(path), p.Platform))
		}
	}
	return len(paths), problems, nil
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <dir>",
		Short: "Validate every <platform>.yaml profile in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, problems, err := checkDir(args[0])
			if err != nil {
				return exitError(3, "check %s: %v", args[0], err)
			}
			if n == 0 {
				return exitError(2, "no profiles found in %s", args[0])
			}
			for _, p := range problems {
				fmt.Fprintln(cmd.ErrOrStderr(), p)
			}
			if len(problems) > 0 {
				return exitError(2, "%d of %d profiles invalid", len(problems), n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d profiles ok\n", n)
			return nil
		},
	}
}

func openDatabase(ctx context.Context, databaseURL string) (infra.SQLExecutor, func(), error) {
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return nil, nil, exitError(2, "--database-url or DATABASE_URL is required")
	}
	pool, err := infra.NewDBPool(ctx, &infra.Config{DatabaseURL: databaseURL, DBMaxConns: 2})
	if err != nil {
		return nil, nil, exitError(3, "%v", err)
	}
	runner := infra.NewSQLRunner(pool, infra.NewLogger(os.Getenv("APP_ENV")))
	if err := infra.ApplySchema(ctx, runner, sqlinline.QCreateSchema); err != nil {
		pool.Close()
		return nil, nil, exitError(3, "%v", err)
	}
	return runner, pool.Close, nil
}

// importProfiles upserts every profile src serves into store.
func importProfiles(ctx context.Context, src rules.Source, store domain.ProfileStore) ([]string, error) {
	names, err := src.Platforms(ctx)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		p, err := src.Load(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if err := store.Upsert(ctx, p); err != nil {
			return nil, fmt.Errorf("upsert %s: %w", name, err)
		}
	}
	return names, nil
}

func newImportCmd() *cobra.Command {
	var databaseURL string
	cmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Upsert profiles into Postgres (builtin profiles when no dir is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
				if _, problems, err := checkDir(dir); err != nil || len(problems) > 0 {
					return exitError(2, "refusing to import: run profilectl check %s", dir)
				}
			}
			ctx := cmd.Context()
			db, closeDB, err := openDatabase(ctx, databaseURL)
			if err != nil {
				return err
			}
			defer closeDB()

			names, err := importProfiles(ctx, sourceFor(dir), rules.NewPostgresSource(db))
			if err != nil {
				return exitError(3, "import: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d profiles: %s\n", len(names), strings.Join(names, ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres URL (default: $DATABASE_URL)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	var databaseURL string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the profile and review-session tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, closeDB, err := openDatabase(cmd.Context(), databaseURL)
			if err != nil {
				return err
			}
			closeDB()
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres URL (default: $DATABASE_URL)")
	return cmd
}
