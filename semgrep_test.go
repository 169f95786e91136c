package semgrep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dutchcyberguy/semgrep/autofix/source"
	"github.com/dutchcyberguy/semgrep/internal/types"
)

const testRules = `
rules:
  - id: no-print
    language: go
    message: use the logger
    pattern: "fmt.Println(:[args...])"
    fix: "log.Info(:[args...])"
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func newTestEngine(t *testing.T, dir string) Engine {
	t.Helper()
	cfg := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(testRules), 0o644))
	eng, err := New(zap.NewNop(), cfg)
	require.NoError(t, err)
	return eng
}

func TestNewMissingConfig(t *testing.T) {
	t.Parallel()
	_, err := New(zap.NewNop(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestProcessPathSingleFile(t *testing.T) {
	t.Parallel()
	dir := writeTree(t, map[string]string{
		"main.go": "package main\n\nfunc main() {\n\tfmt.Println(1, 2)\n}\n",
	})
	eng := newTestEngine(t, dir)

	findings, err := ProcessPath(context.Background(), zap.NewNop(), eng, filepath.Join(dir, "main.go"))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "no-print", findings[0].RuleID)
	assert.True(t, findings[0].HasFix)
	assert.Equal(t, "log.Info(1, 2)", findings[0].Fix)
}

func TestProcessPathDirectory(t *testing.T) {
	t.Parallel()
	dir := writeTree(t, map[string]string{
		"a.go":        "package a\n\nvar _ = fmt.Println(1)\n",
		"sub/b.go":    "package b\n\nvar _ = fmt.Println(2)\n",
		"sub/note.md": "fmt.Println(3) in prose is not scanned\n",
	})
	eng := newTestEngine(t, dir)

	findings, err := ProcessPath(context.Background(), zap.NewNop(), eng, dir)
	require.NoError(t, err)
	assert.Len(t, findings, 2)
	for _, f := range findings {
		assert.Equal(t, "no-print", f.RuleID)
	}
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()
	dir := writeTree(t, map[string]string{
		"a.go": "package a\n\nvar _ = fmt.Println(1)\n",
		"b.go": "package b\n\nvar _ = fmt.Println(2)\n",
	})
	eng := newTestEngine(t, dir)

	findings, err := ProcessFiles(context.Background(), zap.NewNop(), eng,
		[]string{filepath.Join(dir, "a.go"), filepath.Join(dir, "b.go")})
	require.NoError(t, err)
	assert.Len(t, findings, 2)
}

// failingEngine reports one finding per file but fails on a chosen
// filename with a configurable error.
type failingEngine struct {
	failOn string
	err    error
}

func (e *failingEngine) RunFile(path string) ([]types.Finding, error) {
	if filepath.Base(path) == e.failOn {
		return nil, e.err
	}
	return []types.Finding{{RuleID: "stub", Filename: path}}, nil
}

func (e *failingEngine) IgnoreRule(string) {}
func (e *failingEngine) IgnorePath(string) {}

func TestProcessPathEscalatesOffsetMismatch(t *testing.T) {
	t.Parallel()
	dir := writeTree(t, map[string]string{
		"a.go": "package a\n",
		"b.go": "package b\n",
	})
	eng := &failingEngine{
		failOn: "b.go",
		err:    fmt.Errorf("b.go: %w", source.ErrOffsetMismatch),
	}

	findings, err := ProcessPath(context.Background(), zap.NewNop(), eng, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrOffsetMismatch)
	assert.Nil(t, findings)
}

func TestProcessPathSkipsOrdinaryFileErrors(t *testing.T) {
	t.Parallel()
	dir := writeTree(t, map[string]string{
		"a.go": "package a\n",
		"b.go": "package b\n",
	})
	eng := &failingEngine{
		failOn: "b.go",
		err:    errors.New("b.go: does not parse"),
	}

	findings, err := ProcessPath(context.Background(), zap.NewNop(), eng, dir)
	require.NoError(t, err)
	assert.Len(t, findings, 1)
}

func TestProcessPathMissing(t *testing.T) {
	t.Parallel()
	_, err := ProcessPath(context.Background(), zap.NewNop(), nil, filepath.Join(t.TempDir(), "gone"))
	assert.Error(t, err)
}

func TestProcessPathCancelled(t *testing.T) {
	t.Parallel()
	dir := writeTree(t, map[string]string{
		"a.go": "package a\n",
	})
	eng := newTestEngine(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ProcessPath(ctx, zap.NewNop(), eng, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadSourceLines(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree"), 0o644))

	lines, err := ReadSourceLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}
