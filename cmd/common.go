package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/tagtree/internal/config"
	"github.com/conneroisu/tagtree/internal/document"
	"github.com/conneroisu/tagtree/internal/errors"
	"github.com/conneroisu/tagtree/internal/importer"
	"github.com/conneroisu/tagtree/internal/logging"
	"github.com/conneroisu/tagtree/internal/tag"
	"github.com/conneroisu/tagtree/internal/watcher"
	"github.com/spf13/cobra"
)

// loadRuntime loads configuration, applies the root log flags and builds
// the logger. The returned cleanup must always be called.
func loadRuntime(cmd *cobra.Command) (*config.Config, logging.Logger, func(), error) {
	noop := func() {}

	if configErr != nil {
		return nil, nil, noop, configErr
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, noop, errors.WrapConfig(err, errors.ErrCodeConfigInvalid, "failed to load configuration")
	}

	flags := cmd.Flags()
	if err := flagOverride(cmd, "log-level", &cfg.Log.Level, flags.GetString); err != nil {
		return nil, nil, noop, err
	}
	if err := flagOverride(cmd, "log-format", &cfg.Log.Format, flags.GetString); err != nil {
		return nil, nil, noop, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, noop, errors.WrapConfig(err, errors.ErrCodeConfigInvalid, "invalid log level")
	}

	logger, closeLog, err := logging.Open(logging.Config{
		Level:  level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
		Dir:    cfg.Log.Dir,
	})
	if err != nil {
		return nil, nil, noop, errors.WrapIO(err, errors.ErrCodeInvalidPath, "failed to open log directory")
	}
	cleanup := func() { _ = closeLog() }

	return cfg, logger, cleanup, nil
}

// isHTMLSource reports whether path should go through the HTML importer
// rather than the document reader.
func isHTMLSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// loadTree reads a document or an HTML file and broadcasts args over the
// whole tree.
func loadTree(path string, args []string) (*tag.Tag, error) {
	var root *tag.Tag

	if isHTMLSource(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.WrapIO(err, errors.ErrCodeFileNotFound, "cannot read markup").WithLocation(path, 0, 0)
		}
		defer f.Close()

		root, err = importer.FromHTML(f)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeInvalidMarkup, "cannot import markup").
				WithLocation(path, 0, 0)
		}
	} else {
		var err error
		root, err = document.Load(path)
		if err != nil {
			return nil, err
		}
	}

	for _, arg := range args {
		root.AddArgRecursive(arg)
	}

	return root, nil
}

// watchFile calls onChange after every debounced change to path until ctx
// is done. Handler errors are logged by the watcher and do not stop it.
func watchFile(ctx context.Context, path string, cfg config.WatchConfig, logger logging.Logger, onChange func(context.Context) error) error {
	fw, err := watcher.New(cfg.Debounce, logger)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInternalError, "failed to create file watcher", err)
	}
	defer fw.Stop()

	if err := fw.WatchFile(path); err != nil {
		return errors.WrapIO(err, errors.ErrCodeInvalidPath, "failed to watch document").WithLocation(path, 0, 0)
	}
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		for _, e := range events {
			logger.Info(ctx, "Document changed", "path", e.Path, "op", e.Op.String())
		}
		return onChange(ctx)
	})

	if err := fw.Start(ctx); err != nil {
		return err
	}
	logger.Info(ctx, "Watching for changes", "path", path)

	<-ctx.Done()
	return nil
}
