// Package engine runs compiled rules over target files: match, render the
// fix for each match, and report findings. Fix-synthesis failures degrade
// the finding to "no fix available"; scanning itself is never aborted by
// them.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dutchcyberguy/semgrep/autofix"
	"github.com/dutchcyberguy/semgrep/autofix/source"
	"github.com/dutchcyberguy/semgrep/autofix/syntax"
	"github.com/dutchcyberguy/semgrep/internal/lang"
	"github.com/dutchcyberguy/semgrep/internal/match"
	"github.com/dutchcyberguy/semgrep/internal/pattern"
	"github.com/dutchcyberguy/semgrep/internal/rule"
	"github.com/dutchcyberguy/semgrep/internal/types"
)

// compiledRule is a rule with its pattern and template parsed once.
// Template parse failures are recorded here so the parse error is reported
// a single time and only disables autofix for that rule.
type compiledRule struct {
	rule        rule.Rule
	language    lang.Language
	severity    types.Severity
	pattern     *syntax.Expr
	template    *syntax.Expr
	templateBuf *source.Buffer
	templateErr error
}

// Engine matches compiled rules against source files.
type Engine struct {
	logger       *zap.Logger
	rules        []*compiledRule
	ignoredRules map[string]bool
	ignoredPaths []string

	watcher   *fsnotify.Watcher
	watchDirs []string
	watching  atomic.Bool
}

// New compiles the rules. A pattern that does not parse makes the whole
// configuration invalid; a fix template that does not parse only disables
// autofix for its rule.
func New(logger *zap.Logger, rules []rule.Rule) (*Engine, error) {
	e := &Engine{
		logger:       logger,
		ignoredRules: make(map[string]bool),
	}
	for _, r := range rules {
		cr, err := compile(r)
		if err != nil {
			return nil, err
		}
		if cr.templateErr != nil && logger != nil {
			logger.Warn("autofix disabled for rule", zap.String("rule", r.ID), zap.Error(cr.templateErr))
		}
		e.rules = append(e.rules, cr)
	}
	return e, nil
}

func compile(r rule.Rule) (*compiledRule, error) {
	language := r.Lang()
	patternBuf := source.NewBuffer(source.Template, r.ID+"/pattern", r.Pattern)
	patternTree, err := pattern.Parse(patternBuf, language, true)
	if err != nil {
		return nil, fmt.Errorf("rule %q: pattern does not parse: %w", r.ID, err)
	}

	cr := &compiledRule{
		rule:     r,
		language: language,
		severity: r.Sev(),
		pattern:  patternTree,
	}
	if r.Fix != "" {
		templateBuf := source.NewBuffer(source.Template, r.ID+"/fix", r.Fix)
		templateTree, err := pattern.Parse(templateBuf, language, true)
		if err != nil {
			cr.templateErr = &autofix.TemplateParseError{RuleID: r.ID, Err: err}
		} else {
			cr.template = templateTree
			cr.templateBuf = templateBuf
		}
	}
	return cr, nil
}

// IgnoreRule excludes a rule id from future runs.
func (e *Engine) IgnoreRule(id string) {
	e.ignoredRules[id] = true
}

// IgnorePath excludes a path prefix from future runs.
func (e *Engine) IgnorePath(path string) {
	e.ignoredPaths = append(e.ignoredPaths, filepath.Clean(path))
}

func (e *Engine) ignored(path string) bool {
	clean := filepath.Clean(path)
	for _, p := range e.ignoredPaths {
		if clean == p || strings.HasPrefix(clean, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// RunFile scans one file.
func (e *Engine) RunFile(path string) ([]types.Finding, error) {
	if e.ignored(path) {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.RunSource(path, content, lang.Detect(path, content))
}

// RunSource scans raw source under an explicit language.
func (e *Engine) RunSource(filename string, src []byte, language lang.Language) ([]types.Finding, error) {
	buf := source.NewBuffer(source.Target, filename, string(src))
	tree, err := pattern.Parse(buf, language, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	var findings []types.Finding
	matcher := match.New(buf)
	for _, cr := range e.rules {
		if e.ignoredRules[cr.rule.ID] {
			continue
		}
		if cr.language != lang.Generic && cr.language != language {
			continue
		}
		for _, m := range matcher.FindAll(cr.pattern, tree) {
			if suppressed(buf, m.Range.Start, language.Grammar()) {
				continue
			}
			f, err := e.finding(cr, buf, m)
			if err != nil {
				return nil, err
			}
			findings = append(findings, f)
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].StartOffset != findings[j].StartOffset {
			return findings[i].StartOffset < findings[j].StartOffset
		}
		return findings[i].RuleID < findings[j].RuleID
	})
	return findings, nil
}

func (e *Engine) finding(cr *compiledRule, buf *source.Buffer, m match.Match) (types.Finding, error) {
	line, col := buf.LineCol(m.Range.Start)
	endLine, endCol := buf.LineCol(m.Range.End)
	f := types.Finding{
		RuleID:      cr.rule.ID,
		Severity:    cr.severity,
		Filename:    buf.Name(),
		Message:     cr.rule.Message,
		Line:        line,
		Column:      col,
		EndLine:     endLine,
		EndColumn:   endCol,
		StartOffset: m.Range.Start,
		EndOffset:   m.Range.End,
	}
	if cr.template == nil {
		return f, nil
	}

	fixText, err := autofix.Render(m.Env, cr.template, buf, cr.templateBuf)
	if err != nil {
		if !autofix.Recoverable(err) {
			// offset mismatches corrupt output if tolerated
			return types.Finding{}, err
		}
		if e.logger != nil {
			e.logger.Warn("no applicable fix for match",
				zap.String("rule", cr.rule.ID),
				zap.String("file", buf.Name()),
				zap.Int("offset", m.Range.Start),
				zap.Error(err))
		}
		return f, nil
	}
	f.Fix = fixText
	f.HasFix = true
	return f, nil
}

// scannableExts is the closed set of file extensions a directory walk
// picks up.
var scannableExts = map[string]bool{
	".go": true, ".gno": true, ".py": true,
	".js": true, ".jsx": true, ".ts": true, ".tsx": true,
}

// Scannable reports whether a directory walk should scan the file.
func Scannable(path string) bool {
	return scannableExts[filepath.Ext(path)]
}
