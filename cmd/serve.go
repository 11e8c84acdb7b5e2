package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/conneroisu/tagtree/internal/config"
	"github.com/conneroisu/tagtree/internal/logging"
	"github.com/conneroisu/tagtree/internal/preview"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve <document>",
	Aliases: []string{"s"},
	Short:   "Preview a document in the browser with live reload",
	Long: `Serve the rendered document and reload open pages whenever it changes.

If the document stops parsing, the last good rendering stays up and the
error is shown on the page until the document is fixed.

Examples:
  tagtree serve page.yml                # http://localhost:7331/
  tagtree serve page.yml --port 8080    # Different port
  tagtree serve page.yml --host 0.0.0.0 # Listen on every interface`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.IntP("port", "p", config.DefaultPreviewPort, "port to serve on")
	flags.String("host", config.DefaultPreviewHost, "host to bind to")
	flags.StringSlice("arg", nil, "argument to broadcast to every node without arguments (repeatable)")

	addFlagValidation(flags, "port", validatePort)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, cleanup, err := loadRuntime(cmd)
	defer cleanup()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if err := flagOverride(cmd, "port", &cfg.Preview.Port, flags.GetInt); err != nil {
		return err
	}
	if err := flagOverride(cmd, "host", &cfg.Preview.Host, flags.GetString); err != nil {
		return err
	}
	extra, err := flags.GetStringSlice("arg")
	if err != nil {
		return err
	}
	cfg.Render.Args = append(cfg.Render.Args, extra...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := preview.New(cfg.Preview, logger)
	path := args[0]

	refresh := func(ctx context.Context) error {
		return refreshPreview(ctx, srv, path, cfg.Render.Args, logger)
	}
	if err := refresh(ctx); err != nil {
		return err
	}

	go func() {
		if err := watchFile(ctx, path, cfg.Watch, logger, refresh); err != nil {
			logger.Error(ctx, err, "Watching stopped")
		}
	}()

	return srv.Start(ctx)
}

// refreshPreview reloads path into srv. A broken document is reported to
// the open pages and the previous rendering is kept.
func refreshPreview(ctx context.Context, srv *preview.Server, path string, args []string, logger logging.Logger) error {
	root, err := loadTree(path, args)
	if err != nil {
		if reportErr := srv.ReportError(ctx, err); reportErr != nil {
			logger.Warn(ctx, reportErr, "Failed to notify preview clients")
		}
		return err
	}
	return srv.Update(ctx, root)
}
