package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stateops/gitlab-state/internal/config"
	"github.com/stateops/gitlab-state/internal/gitlab"
	"github.com/stateops/gitlab-state/internal/models"
	"github.com/stateops/gitlab-state/internal/state"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-v" {
			fmt.Printf("glstate %s (commit: %s, built: %s)\n", version, commit, date)
			os.Exit(0)
		}
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("run_id", uuid.New().String()).Logger()

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("apply failed")
	}
}

func run(log zerolog.Logger) error {
	cfg, err := config.Parse()
	if err != nil {
		return err
	}
	if cfg.Manifest == "" {
		return fmt.Errorf("no manifest given (use -manifest)")
	}

	conn, err := cfg.Connection()
	if err != nil {
		return err
	}
	manifest, err := config.LoadManifest(cfg.Manifest)
	if err != nil {
		return err
	}

	ctx := context.Background()
	sess, err := gitlab.NewSession(conn)
	if err != nil {
		return err
	}

	// Verify connectivity and auth early.
	ver, err := sess.Ping(ctx)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", conn.URL, err)
	}
	log.Info().Str("url", conn.URL).Str("gitlab_version", ver).Msg("connected")

	rec := state.New(sess, log)
	failedCount := 0
	applied := 0
	for _, res := range apply(ctx, rec, manifest) {
		applied++
		if !res.OK() {
			failedCount++
		}
	}
	log.Info().Int("applied", applied).Int("failed", failedCount).Msg("apply finished")
	if failedCount > 0 {
		return fmt.Errorf("%d of %d resources failed", failedCount, applied)
	}
	return nil
}

// apply walks the manifest in a fixed order: projects first since hooks,
// deploy keys, and branches hang off them.
func apply(ctx context.Context, rec *state.Reconciler, m *config.Manifest) []models.Result {
	var results []models.Result
	for _, e := range m.Projects {
		if e.State == config.StateAbsent {
			results = append(results, rec.ProjectAbsent(ctx, e.ProjectSpec))
		} else {
			results = append(results, rec.ProjectPresent(ctx, e.ProjectSpec))
		}
	}
	for _, e := range m.Users {
		if e.State == config.StateAbsent {
			results = append(results, rec.UserAbsent(ctx, e.UserSpec))
		} else {
			results = append(results, rec.UserPresent(ctx, e.UserSpec))
		}
	}
	for _, e := range m.Hooks {
		if e.State == config.StateAbsent {
			results = append(results, rec.HookAbsent(ctx, e.HookSpec))
		} else {
			results = append(results, rec.HookPresent(ctx, e.HookSpec))
		}
	}
	for _, e := range m.DeployKeys {
		if e.State == config.StateAbsent {
			results = append(results, rec.DeployKeyAbsent(ctx, e.DeployKeySpec))
		} else {
			results = append(results, rec.DeployKeyPresent(ctx, e.DeployKeySpec))
		}
	}
	for _, e := range m.Branches {
		if e.State == config.StateAbsent {
			results = append(results, rec.BranchAbsent(ctx, e.BranchSpec))
		} else {
			results = append(results, rec.BranchPresent(ctx, e.BranchSpec))
		}
	}
	return results
}
