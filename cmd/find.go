package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/conneroisu/tagtree/internal/tag"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:     "find <document> <name>",
	Aliases: []string{"f"},
	Short:   "Find nodes by tag name",
	Long: `List every descendant of the root named <name>, innermost matches
first, with its depth and the first line of its rendering.

With --child only the direct children of the root are searched and a
missing child is an error. With --attr the value of that attribute is
printed for each match instead, and a match without it is an error.

Examples:
  tagtree find page.yml li             # Every <li> below the root
  tagtree find page.yml body --child   # The root's <body>, rendered in full
  tagtree find page.yml a --attr href  # The href of every link`,
	Args: cobra.ExactArgs(2),
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)

	findCmd.Flags().Bool("child", false, "only search direct children of the root")
	findCmd.Flags().String("attr", "", "print this attribute of each match")
}

func runFind(cmd *cobra.Command, args []string) error {
	cfg, logger, cleanup, err := loadRuntime(cmd)
	defer cleanup()
	if err != nil {
		return err
	}
	logger = logger.WithComponent("find")

	childOnly, err := cmd.Flags().GetBool("child")
	if err != nil {
		return err
	}
	attr, err := cmd.Flags().GetString("attr")
	if err != nil {
		return err
	}

	root, err := loadTree(args[0], cfg.Render.Args)
	if err != nil {
		return err
	}

	name := args[1]
	var matches []*tag.Tag
	if childOnly {
		child, err := root.Child(name)
		if err != nil {
			return err
		}
		matches = []*tag.Tag{child}
	} else {
		matches = root.FindByTag(name)
	}

	logger.Debug(cmd.Context(), "Search finished", "name", name, "matches", len(matches))

	return printMatches(cmd.OutOrStdout(), matches, attr, childOnly)
}

func printMatches(w io.Writer, matches []*tag.Tag, attr string, full bool) error {
	for _, m := range matches {
		if attr != "" {
			v, err := m.Attr(attr)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, v); err != nil {
				return err
			}
			continue
		}

		if full {
			if _, err := fmt.Fprintln(w, m.String()); err != nil {
				return err
			}
			continue
		}

		line, _, _ := strings.Cut(m.String(), "\n")
		if _, err := fmt.Fprintf(w, "%d\t%s\n", m.Depth(), strings.TrimSpace(line)); err != nil {
			return err
		}
	}
	return nil
}
