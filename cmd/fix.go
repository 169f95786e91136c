package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dutchcyberguy/semgrep"
	"github.com/dutchcyberguy/semgrep/internal/engine"
	"github.com/dutchcyberguy/semgrep/internal/types"
)

var (
	dryRun bool
	watch  bool
)

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Apply available fixes to matched files",
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

		if watch {
			runWatch(eng, args)
			return
		}
		runAutoFix(ctx, eng, args, dryRun)
	},
}

func init() {
	fixCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show fixes without applying them")
	fixCmd.Flags().BoolVar(&watch, "watch", false, "Keep running, rescanning files as they change")
}

func runAutoFix(ctx context.Context, eng *engine.Engine, paths []string, dryRun bool) {
	findings, err := semgrep.ProcessFiles(ctx, logger, eng, paths)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		os.Exit(1)
	}

	byFile := make(map[string][]types.Finding)
	for _, f := range findings {
		byFile[f.Filename] = append(byFile[f.Filename], f)
	}

	for filename, fileFindings := range byFile {
		content, err := os.ReadFile(filename)
		if err != nil {
			logger.Error("Error reading file", zap.String("file", filename), zap.Error(err))
			continue
		}
		if dryRun {
			previews := engine.Preview(string(content), fileFindings)
			if len(previews) == 0 {
				continue
			}
			fmt.Printf("--- %s (%d fixes)\n", filename, len(previews))
			for _, p := range previews {
				fmt.Println(p)
			}
			continue
		}
		fixed, applied := engine.ApplyFixes(string(content), fileFindings)
		if applied == 0 {
			continue
		}
		if err := os.WriteFile(filename, []byte(fixed), 0o644); err != nil {
			logger.Error("Error writing fixed file", zap.String("file", filename), zap.Error(err))
			continue
		}
		fmt.Printf("%s: applied %d fixes\n", filename, applied)
	}
}

func runWatch(eng *engine.Engine, paths []string) {
	err := eng.StartWatching(paths, func(path string, findings []types.Finding) {
		if len(findings) == 0 {
			logger.Info("no findings", zap.String("file", path))
			return
		}
		logger.Info("findings", zap.String("file", path), zap.Int("count", len(findings)))
		for _, f := range findings {
			logger.Info("finding",
				zap.String("rule", f.RuleID),
				zap.String("message", f.Message),
				zap.Int("line", f.Line))
		}
	})
	if err != nil {
		logger.Fatal("Failed to start watching", zap.Error(err))
	}
	defer eng.StopWatching()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
}
