// Package cmd provides the command-line interface for tagtree.
//
// Configuration System:
//
//	Settings are merged from several sources, highest priority first:
//	1. Command-line flags (--output, --port, --log-level, ...)
//	2. Individual environment variables (TAGTREE_RENDER_FORMAT, TAGTREE_PREVIEW_PORT, ...)
//	3. The configuration file: --config, else TAGTREE_CONFIG_FILE, else .tagtree.yml
//	4. Built-in defaults
package cmd

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/conneroisu/tagtree/internal/config"
	"github.com/conneroisu/tagtree/internal/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	// configErr is set by initConfig, which cannot return errors itself
	configErr error
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tagtree",
	Short: "Build, query and render markup tag trees",
	Long: `tagtree works with tag trees: elements, text and fragments with ordered
attributes and bare arguments, rendered as indented markup.

Trees are read from YAML or JSON documents, or imported from HTML.

Quick Start:
  tagtree render page.yml             Render a document to stdout
  tagtree render page.yml -w -o out   Re-render to a file on every change
  tagtree find page.yml li            List every <li> with its depth
  tagtree import index.html           Convert HTML into a document
  tagtree serve page.yml              Live preview in the browser`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errors.FormatError(err, true))
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .tagtree.yml, can also use TAGTREE_CONFIG_FILE env var)")
	flags.StringP("log-level", "l", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (text, json)")

	addFlagValidation(flags, "log-level", validateLogLevel)
	addFlagValidation(flags, "log-format", validateOneOf("text", "json"))
	addFlagValidation(flags, "config", validateFileExists)
}

// initConfig points viper at the configuration file and the TAGTREE_
// environment. A missing default file is not an error.
func initConfig() {
	configErr = nil

	explicit := true
	switch {
	case cfgFile != "":
		viper.SetConfigFile(cfgFile)
	case os.Getenv("TAGTREE_CONFIG_FILE") != "":
		viper.SetConfigFile(os.Getenv("TAGTREE_CONFIG_FILE"))
	default:
		explicit = false
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tagtree")
	}

	viper.SetEnvPrefix("TAGTREE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	if err := config.BindEnv(); err != nil {
		configErr = err
		return
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !stderrors.As(err, &notFound) {
			configErr = errors.WrapConfig(err, errors.ErrCodeConfigInvalid, "failed to read config file")
		}
	}
}
