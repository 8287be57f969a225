package config

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ironsheep/ocr-text-mcp/internal/textproc"
)

// ErrInvalidRule is returned for a configured correction rule that cannot be
// compiled.
var ErrInvalidRule = errors.New("invalid correction rule")

// RuleSet returns the built-in tables extended with the configured rules.
func (c *Config) RuleSet() (textproc.RuleSet, error) {
	rules := make([]textproc.CorrectionRule, 0, len(c.Rules.Corrections))
	for i, rc := range c.Rules.Corrections {
		if rc.Pattern == "" {
			return textproc.RuleSet{}, fmt.Errorf("%w: rule %d has an empty pattern", ErrInvalidRule, i)
		}
		expr := rc.Pattern
		if rc.Literal {
			expr = regexp.QuoteMeta(expr)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return textproc.RuleSet{}, fmt.Errorf("%w: rule %d pattern %q: %v", ErrInvalidRule, i, rc.Pattern, err)
		}
		rules = append(rules, textproc.CorrectionRule{Pattern: re, Replacement: rc.Replacement})
	}

	verbs := make([]string, 0, len(c.Rules.SentenceVerbs))
	for _, v := range c.Rules.SentenceVerbs {
		if v = strings.TrimSpace(v); v != "" {
			verbs = append(verbs, v)
		}
	}

	return textproc.DefaultRuleSet().Extend(rules, verbs), nil
}

// Pipeline builds a pipeline from RuleSet.
func (c *Config) Pipeline() (*textproc.Pipeline, error) {
	rs, err := c.RuleSet()
	if err != nil {
		return nil, err
	}
	return textproc.NewPipeline(rs), nil
}

// SlogLevel maps LogLevel to a slog level. Unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLogLevel accepts debug, info, warn and error in any case.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Validate checks ranges and compiles the configured rules.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 1 {
		return fmt.Errorf("ocr.min_confidence must be between 0 and 1, got %g", c.OCR.MinConfidence)
	}
	if _, err := c.RuleSet(); err != nil {
		return err
	}
	return nil
}
