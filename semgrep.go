// Package semgrep is the library entry point: load a rule file, build an
// engine, and scan files or directories for findings.
package semgrep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/dutchcyberguy/semgrep/autofix/source"
	"github.com/dutchcyberguy/semgrep/internal/engine"
	"github.com/dutchcyberguy/semgrep/internal/rule"
	"github.com/dutchcyberguy/semgrep/internal/types"
)

// DefaultConfigPath is the rule file used when none is given.
const DefaultConfigPath = ".semgrep.yaml"

// Engine is the scanning interface the CLI consumes.
type Engine interface {
	RunFile(path string) ([]types.Finding, error)
	IgnoreRule(id string)
	IgnorePath(path string)
}

// New loads rules from configurationPath and compiles them into an engine.
func New(logger *zap.Logger, configurationPath string) (*engine.Engine, error) {
	if configurationPath == "" {
		configurationPath = DefaultConfigPath
	}
	rules, err := rule.Load(configurationPath)
	if err != nil {
		return nil, err
	}
	return engine.New(logger, rules)
}

// ProcessFiles scans every path (file or directory) and returns the
// combined findings.
func ProcessFiles(ctx context.Context, logger *zap.Logger, eng Engine, paths []string) ([]types.Finding, error) {
	var all []types.Finding
	for _, path := range paths {
		findings, err := ProcessPath(ctx, logger, eng, path)
		if err != nil {
			if logger != nil {
				logger.Error("error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		all = append(all, findings...)
	}
	return all, nil
}

// ProcessPath scans one file, or walks a directory and scans its files
// across a bounded worker pool.
func ProcessPath(ctx context.Context, logger *zap.Logger, eng Engine, path string) ([]types.Finding, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		return eng.RunFile(path)
	}

	var files []string
	err = filepath.Walk(path, func(filePath string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fileInfo.IsDir() && engine.Scannable(filePath) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resultChan := make(chan []types.Finding, len(files))
	errorChan := make(chan error, len(files))

	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	for _, filePath := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			sem <- struct{}{}
			go func(fp string) {
				defer func() { <-sem }()

				fileFindings, err := eng.RunFile(fp)
				if err != nil {
					if logger != nil {
						logger.Error("error processing file", zap.String("file", fp), zap.Error(err))
					}
					errorChan <- err
					resultChan <- nil
				} else {
					resultChan <- fileFindings
					errorChan <- nil
				}
				bar.Add(1)
			}(filePath)
		}
	}

	var findings []types.Finding
	var fatal error
	for range files {
		err := <-errorChan
		result := <-resultChan
		if err != nil {
			// an offset mismatch means a corrupted range invariant; it
			// fails the whole scan. Ordinary per-file failures (parse
			// errors, unreadable files) only skip that file.
			if errors.Is(err, source.ErrOffsetMismatch) && fatal == nil {
				fatal = err
			}
			continue
		}
		findings = append(findings, result...)
	}
	fmt.Println()

	if fatal != nil {
		return nil, fatal
	}
	return findings, nil
}

// ReadSourceLines reads a file and splits it into lines for the
// formatter's snippet rendering.
func ReadSourceLines(filename string) ([]string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(content), "\n"), nil
}
