package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/conneroisu/tagtree/internal/config"
	"github.com/conneroisu/tagtree/internal/logging"
	"github.com/conneroisu/tagtree/internal/output"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:     "render <document>",
	Aliases: []string{"r"},
	Short:   "Render a document as indented markup",
	Long: `Render a tree document (YAML or JSON) or an HTML file.

Every --arg value is added to each node in the tree that has no arguments
yet, after the configured render.args.

Examples:
  tagtree render page.yml                      # Pretty markup to stdout
  tagtree render page.yml --format minified    # Minified markup
  tagtree render page.yml -o dist/index.html   # Atomically write a file
  tagtree render page.yml -o out.html --watch  # Re-render on every save`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	flags := renderCmd.Flags()
	flags.StringP("output", "o", "", "write to this file instead of stdout")
	flags.StringP("format", "f", config.DefaultRenderFormat, "output format (pretty, minified)")
	flags.StringSlice("arg", nil, "argument to broadcast to every node without arguments (repeatable)")
	flags.BoolP("watch", "w", false, "re-render whenever the document changes")

	addFlagValidation(flags, "output", validateOutputPath)
	addFlagValidation(flags, "format", validateFormat)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, logger, cleanup, err := loadRuntime(cmd)
	defer cleanup()
	if err != nil {
		return err
	}
	logger = logger.WithComponent("render")

	flags := cmd.Flags()
	if err := flagOverride(cmd, "output", &cfg.Render.Output, flags.GetString); err != nil {
		return err
	}
	if err := flagOverride(cmd, "format", &cfg.Render.Format, flags.GetString); err != nil {
		return err
	}
	if err := flagOverride(cmd, "watch", &cfg.Watch.Enabled, flags.GetBool); err != nil {
		return err
	}
	extra, err := flags.GetStringSlice("arg")
	if err != nil {
		return err
	}
	cfg.Render.Args = append(cfg.Render.Args, extra...)

	format, err := output.ParseFormat(cfg.Render.Format)
	if err != nil {
		return err
	}

	path := args[0]
	out := cmd.OutOrStdout()
	render := func(ctx context.Context) error {
		return renderDocument(ctx, out, path, cfg.Render, format, logger)
	}

	if err := render(cmd.Context()); err != nil {
		if !cfg.Watch.Enabled {
			return err
		}
		logger.Error(cmd.Context(), err, "Initial render failed, waiting for changes")
	}

	if !cfg.Watch.Enabled {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchFile(ctx, path, cfg.Watch, logger, render)
}

func renderDocument(ctx context.Context, w io.Writer, path string, cfg config.RenderConfig, format output.Format, logger logging.Logger) error {
	op := logging.StartOperation(logger, "render")

	root, err := loadTree(path, cfg.Args)
	if err != nil {
		op.EndWithError(ctx, err)
		return err
	}

	content, err := output.Render(root, format)
	if err != nil {
		op.EndWithError(ctx, err)
		return err
	}

	if err := output.Write(w, cfg.Output, content); err != nil {
		op.EndWithError(ctx, err)
		return err
	}

	op.End(ctx, "path", path, "format", string(format), "bytes", len(content))
	if cfg.Output != "" {
		logger.Info(ctx, "Rendered", "path", path, "output", cfg.Output)
	}
	return nil
}
