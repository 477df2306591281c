package rewrite

import (
	"regexp"
	"strings"

	"github.com/tristendillon/realias/core/alias"
)

// Match is one recognized import statement inside a scanned text. It lives
// only for the substitution step that consumes it.
type Match struct {
	Full     string
	Bindings string
	Quote    byte
	Alias    string
	RelPath  string
	Start    int
	End      int
}

// Matcher locates import statements whose module specifier starts with a
// configured alias. One Matcher is compiled per alias table and reused for
// every file in a run.
type Matcher struct {
	table *alias.Table
	re    *regexp.Regexp
}

func NewMatcher(t *alias.Table) *Matcher {
	m := &Matcher{table: t}
	if t.Len() > 0 {
		m.re = compilePattern(t)
	}
	return m
}

// compilePattern builds the single expression that matches every configured
// alias. RE2 has no back-references, so "same quote on both ends" is two
// explicit branches, one per quote character.
func compilePattern(t *alias.Table) *regexp.Regexp {
	entries := t.Entries()
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, regexp.QuoteMeta(e.Alias))
	}
	alt := strings.Join(names, "|")

	pattern := `(?s)import\s+(.*?)\s+from\s+(?:'(` + alt + `)/([^']*)'|"(` + alt + `)/([^"]*)")`
	return regexp.MustCompile(pattern)
}

// Table returns the alias table this matcher was compiled from.
func (m *Matcher) Table() *alias.Table {
	return m.table
}

// Scan returns every alias import in content, in positional order. A text
// without any configured alias yields nil.
func (m *Matcher) Scan(content string) []Match {
	if m.re == nil {
		return nil
	}

	locs := m.re.FindAllStringSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, newMatch(content, loc))
	}
	return matches
}

// Capture group layout: 1 bindings, 2/3 alias and path for the single-quote
// branch, 4/5 for the double-quote branch.
func newMatch(content string, loc []int) Match {
	m := Match{
		Full:     content[loc[0]:loc[1]],
		Bindings: content[loc[2]:loc[3]],
		Start:    loc[0],
		End:      loc[1],
	}

	if loc[4] >= 0 {
		m.Quote = '\''
		m.Alias = content[loc[4]:loc[5]]
		m.RelPath = content[loc[6]:loc[7]]
	} else {
		m.Quote = '"'
		m.Alias = content[loc[8]:loc[9]]
		m.RelPath = content[loc[10]:loc[11]]
	}
	return m
}
