package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dutchcyberguy/semgrep"
	"github.com/dutchcyberguy/semgrep/internal/rule"
)

// initCmd: semgrep init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a starter rule file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfigurationFile(cfgFile); err != nil {
			logger.Error("Error initializing rule file", zap.Error(err))
			return
		}
		path := cfgFile
		if path == "" {
			path = semgrep.DefaultConfigPath
		}
		fmt.Printf("Rule file created: %s\n", path)
	},
}

func initConfigurationFile(configurationPath string) error {
	if configurationPath == "" {
		configurationPath = semgrep.DefaultConfigPath
	}

	config := rule.Config{
		Rules: []rule.Rule{
			{
				ID:       "example-println-to-log",
				Language: "go",
				Severity: "warning",
				Message:  "use the structured logger instead of fmt.Println",
				Pattern:  "fmt.Println(:[args...])",
				Fix:      "log.Info(:[args...])",
			},
		},
	}
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configurationPath, d, 0o644)
}
