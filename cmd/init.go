package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/filacheck/filacheck/internal"
	tt "github.com/filacheck/filacheck/internal/types"
	"github.com/filacheck/filacheck/lint"
)

var forceInit bool

// initCmd: filacheck init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = lint.DefaultConfigFile
		}
		if err := initConfigurationFile(path, forceInit); err != nil {
			return fmt.Errorf("error initializing config file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing configuration file")
}

// initConfigurationFile writes the default configuration with every
// registered rule listed at WARNING severity.
func initConfigurationFile(configurationPath string, force bool) error {
	config := lint.DefaultConfig()
	for _, name := range internal.RuleNames() {
		config.Rules[name] = tt.ConfigRule{Severity: tt.SeverityWarning}
	}
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(configurationPath, flags, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
