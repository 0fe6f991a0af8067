package repo

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// IgnoreFileName is the tracked per-directory ignore file.
const IgnoreFileName = ".gritignore"

// IgnoreVerdict is the outcome of testing a path against the ignore rules.
type IgnoreVerdict int

const (
	// IgnoreUnmatched means no rule applied; callers treat it as "keep".
	IgnoreUnmatched IgnoreVerdict = iota
	// IgnoreExclude means the path is ignored.
	IgnoreExclude
	// IgnoreInclude means a negated rule re-included the path.
	IgnoreInclude
)

func (v IgnoreVerdict) String() string {
	switch v {
	case IgnoreExclude:
		return "exclude"
	case IgnoreInclude:
		return "include"
	}
	return "unmatched"
}

// IgnoreRule pairs one glob pattern with its verdict.
type IgnoreRule struct {
	Pattern string
	Verdict IgnoreVerdict

	hasSlash bool           // slash in the pattern: match the full path, not the basename
	regex    *regexp.Regexp // compiled form, only for patterns containing **
}

// IgnoreRules holds every parsed rule list: scoped lists keyed by the slash
// path of the directory containing the ignore file ("." for the working-tree
// root), plus the list for sources outside the repository, which is declared
// but never populated.
type IgnoreRules struct {
	Scoped   map[string][]IgnoreRule
	Absolute []IgnoreRule
}

// LoadIgnoreRules collects rules from every tracked ignore file. Rules are
// read from the staged blobs, not the working tree, so editing an ignore
// file changes nothing until it is staged again.
func (r *Repo) LoadIgnoreRules() (*IgnoreRules, error) {
	idx, err := r.ReadIndex()
	if err != nil {
		return nil, fmt.Errorf("load ignore rules: %w", err)
	}

	rules := &IgnoreRules{Scoped: make(map[string][]IgnoreRule)}
	for _, e := range idx.Entries {
		rel, err := r.workTreeRel(e.Path)
		if err != nil {
			return nil, fmt.Errorf("load ignore rules: %w", err)
		}
		if path.Base(rel) != IgnoreFileName {
			continue
		}
		blob, err := r.Store.ReadBlob(e.Hash)
		if err != nil {
			return nil, fmt.Errorf("load ignore rules %q: %w", rel, err)
		}
		rules.Scoped[path.Dir(rel)] = parseIgnoreLines(string(blob.Data))
	}
	return rules, nil
}

// parseIgnoreLines turns ignore-file text into rules, keeping source order.
// Blank lines and comments are dropped. A leading "!" negates the rule; a
// leading "\" escapes a literal "!" or "#" at the start of a pattern.
func parseIgnoreLines(text string) []IgnoreRule {
	var rules []IgnoreRule
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "!"):
			rules = append(rules, newIgnoreRule(line[1:], IgnoreInclude))
		case strings.HasPrefix(line, `\`):
			rules = append(rules, newIgnoreRule(line[1:], IgnoreExclude))
		default:
			rules = append(rules, newIgnoreRule(line, IgnoreExclude))
		}
	}
	return rules
}

func newIgnoreRule(pattern string, v IgnoreVerdict) IgnoreRule {
	rule := IgnoreRule{
		Pattern:  pattern,
		Verdict:  v,
		hasSlash: strings.Contains(pattern, "/"),
	}
	if strings.Contains(pattern, "**") {
		if re, err := regexp.Compile(globToRegex(pattern)); err == nil {
			rule.regex = re
		}
	}
	return rule
}

// matches tests the rule against a repo-relative slash path. A pattern
// without a slash matches the basename; one with a slash matches the full
// path.
func (rule IgnoreRule) matches(relPath string) bool {
	target := relPath
	if !rule.hasSlash {
		target = path.Base(relPath)
	}
	if rule.regex != nil {
		return rule.regex.MatchString(target)
	}
	ok, err := path.Match(rule.Pattern, target)
	return err == nil && ok
}

// Check evaluates the rules against a repo-relative slash path. Walking from
// the path's parent upward, the nearest directory whose rule list matches at
// all decides the verdict; within that list the last matching rule wins,
// which is how a negation overrides an earlier exclusion in the same file.
// The out-of-repository list gets the final say, and is always empty today.
func (rules *IgnoreRules) Check(relPath string) IgnoreVerdict {
	dir := path.Dir(relPath)
	for {
		if list, ok := rules.Scoped[dir]; ok {
			if v := evalIgnoreRules(list, relPath); v != IgnoreUnmatched {
				return v
			}
		}
		if dir == "." {
			break
		}
		dir = path.Dir(dir)
	}
	return evalIgnoreRules(rules.Absolute, relPath)
}

func evalIgnoreRules(list []IgnoreRule, relPath string) IgnoreVerdict {
	verdict := IgnoreUnmatched
	for _, rule := range list {
		if rule.matches(relPath) {
			verdict = rule.Verdict
		}
	}
	return verdict
}

// CheckIgnore reports which of the given paths the tracked rules exclude.
// Paths may be absolute or relative to the current directory; the returned
// slice holds the arguments as given.
func (r *Repo) CheckIgnore(paths []string) ([]string, error) {
	rules, err := r.LoadIgnoreRules()
	if err != nil {
		return nil, err
	}

	var ignored []string
	for _, p := range paths {
		abs, err := r.absWorktreePath(p)
		if err != nil {
			return nil, fmt.Errorf("check ignore: %w", err)
		}
		rel, err := r.workTreeRel(abs)
		if err != nil {
			return nil, fmt.Errorf("check ignore: %w", err)
		}
		if rules.Check(rel) == IgnoreExclude {
			ignored = append(ignored, p)
		}
	}
	return ignored, nil
}

// globToRegex compiles a pattern containing ** into an anchored regular
// expression. Plain * and ? stop at path separators; **/ spans zero or more
// whole segments and a trailing ** spans anything.
func globToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		if ch == '*' {
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				if i+2 < len(pattern) && pattern[i+2] == '/' {
					b.WriteString("(?:.*/)?")
					i += 2
				} else {
					b.WriteString(".*")
					i++
				}
				continue
			}
			b.WriteString("[^/]*")
			continue
		}
		if ch == '?' {
			b.WriteString("[^/]")
			continue
		}
		if strings.ContainsRune(`.+()|[]{}^$\`, rune(ch)) {
			b.WriteByte('\\')
		}
		b.WriteByte(ch)
	}
	b.WriteString("$")
	return b.String()
}
