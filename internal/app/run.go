package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/genforge/genforge/internal/ctxlog"
	"github.com/genforge/genforge/internal/registry"
	"github.com/genforge/genforge/internal/unit"
)

// Run executes a build for the configured targets and writes the results.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	targets := a.config.Targets
	if len(targets) == 0 {
		targets = a.registry.Keys()
		a.logger.Debug("No explicit targets, building every registered key.", "count", len(targets))
	}

	removeBefore := a.engine.OnBeforeEmit(func(instr registry.Instruction) error {
		a.logger.Info("▶️ Emitting", "key", instr.Descriptor().Key, "kind", instr.Kind())
		return nil
	})
	defer removeBefore()
	removeAfter := a.engine.OnAfterEmit(func(u unit.SourceUnit) error {
		a.logger.Info("✅ Emitted", "name", u.Name, "fingerprint", u.Fingerprint[:12])
		return nil
	})
	defer removeAfter()

	a.logger.Info("🚀 Starting build...", "targets", len(targets))
	units, err := a.engine.Build(ctx, targets, !a.config.NoDeps)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	a.logger.Info("🏁 Build finished.", "units", len(units))

	if a.config.OutputDir == "" {
		for _, u := range units {
			fmt.Fprintf(a.outW, "--- %s (%s)\n%s\n", u.Name, u.Fingerprint[:12], u.Content)
		}
		return nil
	}

	if err := os.MkdirAll(a.config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, u := range units {
		path := filepath.Join(a.config.OutputDir, u.Name)
		if err := os.WriteFile(path, []byte(u.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write unit %q: %w", u.Name, err)
		}
		a.logger.Debug("Wrote unit to disk.", "path", path)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
