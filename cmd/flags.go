package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/conneroisu/tagtree/internal/config"
	"github.com/conneroisu/tagtree/internal/logging"
	"github.com/conneroisu/tagtree/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addFlagValidation makes the named flag reject values at parse time
func addFlagValidation(flags *pflag.FlagSet, flagName string, validator func(string) error) {
	flag := flags.Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{Value: flag.Value, validator: validator}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// flagOverride copies a flag into dst when the user set it explicitly, so
// unset flags never mask config file or environment values.
func flagOverride[T any](cmd *cobra.Command, name string, dst *T, get func(string) (T, error)) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := get(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func validatePort(portStr string) error {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port number: %s", portStr)
	}

	if port < 0 || port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", port)
	}

	return nil
}

func validateFileExists(filename string) error {
	if filename == "" {
		return nil
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filename)
	}

	return nil
}

func validateFormat(s string) error {
	_, err := output.ParseFormat(s)
	return err
}

func validateLogLevel(s string) error {
	_, err := logging.ParseLevel(s)
	return err
}

func validateOneOf(allowed ...string) func(string) error {
	return func(s string) error {
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return fmt.Errorf("invalid value %q, must be one of: %s", s, strings.Join(allowed, ", "))
	}
}

func validateOutputPath(path string) error {
	if path == "" {
		return nil
	}
	return config.ValidatePath(path)
}
