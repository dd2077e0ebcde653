package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/confgrid/config"
	"github.com/vk/confgrid/confhcl"
	"github.com/vk/confgrid/internal/ctxlog"
	"github.com/vk/confgrid/internal/fsutil"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the main application. The rendered config
// goes to outW; logs go to logW so piping stdout stays clean.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")
	return &App{outW: outW, logger: logger, config: cfg}
}

// Run loads, merges, overrides, optionally interpolates, and renders the
// configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := ctxlog.FromContext(ctx)

	paths, err := a.collectPaths()
	if err != nil {
		return err
	}
	logger.Debug("Configuration files collected.", "count", len(paths))

	var tree config.Tree
	for i, p := range paths {
		t, err := loadOne(p)
		if err != nil {
			return err
		}
		if i == 0 {
			tree = t
			continue
		}
		merged, diags := config.Merge(tree, t)
		for _, d := range diags {
			logger.Warn("Merge discarded a value.",
				"path", d.Path, "reason", string(d.Reason), "detail", d.Detail, "file", p)
		}
		tree = merged
	}

	if len(a.config.Overrides) > 0 {
		if err := config.ApplyOverrides(tree, a.config.Overrides); err != nil {
			return err
		}
		logger.Debug("Overrides applied.", "count", len(a.config.Overrides))
	}

	out, err := config.Render(tree, config.RenderOptions{
		Interpolate: a.config.Interpolate,
		Order:       a.config.Order,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(a.outW, out)
	return err
}

// collectPaths expands ConfigPath into the list of files to load: the file
// itself, or every .cfg and .hcl file under a directory, sorted.
func (a *App) collectPaths() ([]string, error) {
	info, err := os.Stat(a.config.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", a.config.ConfigPath, err)
	}
	if !info.IsDir() {
		return []string{a.config.ConfigPath}, nil
	}
	cfgs, err := fsutil.FindFilesByExtension(a.config.ConfigPath, ".cfg")
	if err != nil {
		return nil, err
	}
	hcls, err := fsutil.FindFilesByExtension(a.config.ConfigPath, ".hcl")
	if err != nil {
		return nil, err
	}
	paths := append(cfgs, hcls...)
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .cfg or .hcl files found under %s", a.config.ConfigPath)
	}
	return paths, nil
}

// loadOne parses one file with the front-end its extension selects.
func loadOne(path string) (config.Tree, error) {
	if strings.HasSuffix(path, ".hcl") {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return confhcl.Parse(filepath.Base(path), src)
	}
	return config.LoadFile(path, config.Options{})
}
