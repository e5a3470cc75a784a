// Package contentfilter classifies user supplied text as clean or blocked.
//
// A Filter is built once from a Config and is immutable afterwards, so a
// single instance can be shared by every request goroutine.
package contentfilter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reason identifies the rule that blocked a text.
type Reason string

const (
	ReasonBlockedWord    Reason = "blocked_word"
	ReasonBlockedPattern Reason = "blocked_pattern"
	ReasonExcessiveCaps  Reason = "excessive_caps"
	ReasonSpamPattern    Reason = "spam_pattern"
)

// Result describes the outcome of Check. Category and MatchedWord are only
// set for ReasonBlockedWord.
type Result struct {
	IsClean     bool   `json:"isClean"`
	Reason      Reason `json:"reason,omitempty"`
	Category    string `json:"category,omitempty"`
	MatchedWord string `json:"matchedWord,omitempty"`
}

type Filter struct {
	version    string
	categories Categories
	patterns   []*regexp.Regexp
	settings   Settings
}

// New validates cfg and compiles its patterns. Any error here is meant to
// stop the process at startup.
func New(cfg Config) (*Filter, error) {
	if cfg.Settings.MaxRepeatedChars < 1 {
		return nil, errors.New("content filter: maxRepeatedChars must be at least 1")
	}
	if cfg.Settings.AutoHideReportThreshold < 1 {
		return nil, errors.New("content filter: autoHideReportThreshold must be at least 1")
	}
	if cfg.Settings.MaxCapsRatio < 0 || cfg.Settings.MaxCapsRatio > 1 {
		return nil, errors.New("content filter: maxCapsRatio must be within [0, 1]")
	}

	f := &Filter{
		version:  cfg.Version,
		settings: cfg.Settings,
	}

	for _, cat := range cfg.Categories {
		words := make([]string, 0, len(cat.Words))
		for _, w := range cat.Words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			words = append(words, w)
		}
		f.categories = append(f.categories, Category{Name: cat.Name, Words: words})
	}

	for _, p := range cfg.Patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("content filter: compile pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, re)
	}

	return f, nil
}

// Check runs the rules in a fixed order and reports the first one that
// matches: blocked words, blocked patterns, excessive caps, repeated
// characters.
func (f *Filter) Check(text string) Result {
	lower := strings.ToLower(text)
	for _, cat := range f.categories {
		for _, w := range cat.Words {
			if strings.Contains(lower, w) {
				return Result{Reason: ReasonBlockedWord, Category: cat.Name, MatchedWord: w}
			}
		}
	}

	for _, re := range f.patterns {
		if re.MatchString(text) {
			return Result{Reason: ReasonBlockedPattern}
		}
	}

	if f.hasExcessiveCaps(text) {
		return Result{Reason: ReasonExcessiveCaps}
	}

	if hasRepeatedRun(text, f.settings.MaxRepeatedChars) {
		return Result{Reason: ReasonSpamPattern}
	}

	return Result{IsClean: true}
}

// IsClean is Check without the detail.
func (f *Filter) IsClean(text string) bool {
	return f.Check(text).IsClean
}

func (f *Filter) AutoHideThreshold() int {
	return f.settings.AutoHideReportThreshold
}

// AllBlockedWords flattens every category, in declaration order.
func (f *Filter) AllBlockedWords() []string {
	var out []string
	for _, cat := range f.categories {
		out = append(out, cat.Words...)
	}
	return out
}

func (f *Filter) Version() string {
	return f.version
}

func (f *Filter) Categories() []string {
	names := make([]string, len(f.categories))
	for i, cat := range f.categories {
		names[i] = cat.Name
	}
	return names
}

func (f *Filter) Settings() Settings {
	return f.settings
}

func (f *Filter) hasExcessiveCaps(text string) bool {
	total := utf8.RuneCountInString(text)
	if total == 0 || total < f.settings.MinLengthForCapsCheck {
		return false
	}
	upper := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper)/float64(total) > f.settings.MaxCapsRatio
}

// hasRepeatedRun reports whether one character appears more than max times
// in a row, ignoring case. Newlines never count, matching the "." of the
// equivalent (.)\1{max,} expression; RE2 has no backreferences so this is a
// plain scan.
func hasRepeatedRun(text string, max int) bool {
	run := 0
	prev := rune(-1)
	for _, r := range text {
		r = unicode.ToLower(r)
		if r == '\n' {
			run = 0
			prev = -1
			continue
		}
		if r == prev {
			run++
		} else {
			run = 1
			prev = r
		}
		if run > max {
			return true
		}
	}
	return false
}
