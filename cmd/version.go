package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/conneroisu/tagtree/internal/version"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display the version, commit, build time, Go version and platform of
this tagtree binary.

Examples:
  tagtree version                # Version summary
  tagtree version --short        # Version only
  tagtree version --detailed     # Every known build field
  tagtree version --format json  # Machine-readable output`,
	Args: cobra.NoArgs,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	flags := versionCmd.Flags()
	flags.StringP("format", "f", "text", "Output format (text, json)")
	flags.Bool("short", false, "Show short version only")
	flags.Bool("detailed", false, "Show detailed version information")

	addFlagValidation(flags, "format", validateOneOf("text", "json"))
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return err
	}
	short, err := flags.GetBool("short")
	if err != nil {
		return err
	}
	detailed, err := flags.GetBool("detailed")
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	switch {
	case format == "json":
		return outputVersionJSON(w)
	case short:
		_, err := fmt.Fprintln(w, version.GetShortVersion())
		return err
	case detailed:
		return outputVersionDetailed(w)
	default:
		return outputVersionDefault(w)
	}
}

func outputVersionDefault(w io.Writer) error {
	info := version.GetBuildInfo()

	line := "tagtree " + info.Version
	if info.GitCommit != "unknown" && len(info.GitCommit) >= 7 {
		line += fmt.Sprintf(" (%s)", info.GitCommit[:7])
	}
	if info.Dirty {
		line += " (dirty)"
	}

	_, err := fmt.Fprintf(w, "%s\nGo: %s\nPlatform: %s\n", line, info.GoVersion, info.Platform)
	return err
}

func outputVersionDetailed(w io.Writer) error {
	buildType := "development"
	if version.IsRelease() {
		buildType = "release"
	}

	_, err := fmt.Fprintf(w, "%s\nBuild type: %s\n", version.GetDetailedVersion(), buildType)
	return err
}

func outputVersionJSON(w io.Writer) error {
	info := version.GetBuildInfo()

	payload := struct {
		*version.BuildInfo
		IsRelease bool `json:"is_release"`
	}{info, version.IsRelease()}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
