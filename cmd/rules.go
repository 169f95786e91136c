package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dutchcyberguy/semgrep"
	"github.com/dutchcyberguy/semgrep/internal/rule"
)

// rulesCmd: semgrep rules
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rules in the active rule file",
	Run: func(cmd *cobra.Command, args []string) {
		path := cfgFile
		if path == "" {
			path = semgrep.DefaultConfigPath
		}
		rules, err := rule.Load(path)
		if err != nil {
			logger.Fatal("Failed to load rule file", zap.Error(err))
		}

		idStyle := color.New(color.FgYellow, color.Bold)
		fixStyle := color.New(color.FgGreen)

		fmt.Printf("%d rules in %s\n\n", len(rules), path)
		for _, r := range rules {
			fmt.Printf("%s  [%s/%s]\n", idStyle.Sprint(r.ID), r.Lang(), r.Sev())
			fmt.Printf("  %s\n", r.Message)
			fmt.Printf("  pattern: %s\n", r.Pattern)
			if r.Fix != "" {
				fmt.Printf("  %s %s\n", fixStyle.Sprint("fix:"), r.Fix)
			}
			fmt.Println()
		}
	},
}
