package cmd

import (
	"os"

	"github.com/conneroisu/tagtree/internal/config"
	"github.com/conneroisu/tagtree/internal/document"
	"github.com/conneroisu/tagtree/internal/errors"
	"github.com/conneroisu/tagtree/internal/importer"
	"github.com/conneroisu/tagtree/internal/output"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:     "import <file.html>",
	Aliases: []string{"i"},
	Short:   "Convert HTML into a tree document",
	Long: `Parse an HTML fragment and write it out as a YAML tree document.
Comments and whitespace-only text are dropped.

Examples:
  tagtree import index.html                    # Document YAML to stdout
  tagtree import index.html -o page.yml        # Write the document to a file
  tagtree import index.html --render           # Print the imported tree rendered`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	flags := importCmd.Flags()
	flags.StringP("output", "o", "", "write to this file instead of stdout")
	flags.Bool("render", false, "print the rendered tree instead of a document")
	flags.StringP("format", "f", config.DefaultRenderFormat, "render format used with --render (pretty, minified)")

	addFlagValidation(flags, "output", validateOutputPath)
	addFlagValidation(flags, "format", validateFormat)
}

func runImport(cmd *cobra.Command, args []string) error {
	_, logger, cleanup, err := loadRuntime(cmd)
	defer cleanup()
	if err != nil {
		return err
	}
	logger = logger.WithComponent("import")

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return errors.WrapIO(err, errors.ErrCodeFileNotFound, "cannot read markup").WithLocation(path, 0, 0)
	}
	defer f.Close()

	root, err := importer.FromHTML(f)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	asRender, err := flags.GetBool("render")
	if err != nil {
		return err
	}
	dest, err := flags.GetString("output")
	if err != nil {
		return err
	}

	var content string
	if asRender {
		formatName, err := flags.GetString("format")
		if err != nil {
			return err
		}
		format, err := output.ParseFormat(formatName)
		if err != nil {
			return err
		}
		if content, err = output.Render(root, format); err != nil {
			return err
		}
	} else {
		data, err := document.Encode(root)
		if err != nil {
			return err
		}
		content = string(data)
	}

	logger.Debug(cmd.Context(), "Imported markup", "path", path, "top_level_nodes", len(root.Children()))

	return output.Write(cmd.OutOrStdout(), dest, content)
}
