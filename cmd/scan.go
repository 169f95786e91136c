package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dutchcyberguy/semgrep"
	"github.com/dutchcyberguy/semgrep/formatter"
	"github.com/dutchcyberguy/semgrep/internal/types"
)

var (
	ignoreRules    string
	ignorePaths    string
	scanJSONOutput bool
	outPath        string
)

var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Scan files for rule matches",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		eng, err := semgrep.New(logger, cfgFile)
		if err != nil {
			logger.Fatal("Failed to initialize engine", zap.Error(err))
		}

		if ignoreRules != "" {
			for _, r := range strings.Split(ignoreRules, ",") {
				eng.IgnoreRule(strings.TrimSpace(r))
			}
		}
		if ignorePaths != "" {
			for _, p := range strings.Split(ignorePaths, ",") {
				eng.IgnorePath(strings.TrimSpace(p))
			}
		}

		findings, err := semgrep.ProcessFiles(ctx, logger, eng, args)
		if err != nil {
			logger.Error("Error processing files", zap.Error(err))
			os.Exit(1)
		}

		printFindings(findings, scanJSONOutput, outPath)

		if len(findings) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	scanCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of rule ids to ignore")
	scanCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	scanCmd.Flags().BoolVar(&scanJSONOutput, "json", false, "Output findings in JSON format")
	scanCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
}

func printFindings(findings []types.Finding, isJSON bool, jsonOutput string) {
	byFile := make(map[string][]types.Finding)
	for _, f := range findings {
		byFile[f.Filename] = append(byFile[f.Filename], f)
	}

	sortedFiles := make([]string, 0, len(byFile))
	for filename := range byFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	if !isJSON {
		for _, filename := range sortedFiles {
			lines, err := semgrep.ReadSourceLines(filename)
			if err != nil {
				logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
				continue
			}
			fmt.Println(formatter.Generate(byFile[filename], lines))
		}
		return
	}

	d, err := json.Marshal(byFile)
	if err != nil {
		logger.Error("Error marshalling findings to JSON", zap.Error(err))
		return
	}
	if jsonOutput == "" {
		fmt.Println(string(d))
		return
	}
	if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
		logger.Error("Error writing JSON output file", zap.Error(err))
	}
}
