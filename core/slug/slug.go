package slug

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Errs flags everything found wrong with a podcast file name. Zero means
// the name is well-formed.
type Errs uint8

const (
	// NoDate: no 8-character field exists in the name.
	NoDate Errs = 1 << iota
	// InvalidDate: the 8-character field is not a real YYYYMMDD date.
	InvalidDate
	// BadSlug: the name contains characters a slug should not.
	BadSlug
	// ObscureName: the date field comes first, leaving no podcast name.
	ObscureName
)

func (e Errs) Has(flag Errs) bool {
	return e&flag != 0
}

func (e Errs) String() string {
	if e == 0 {
		return "OK"
	}
	names := make([]string, 0, 4)
	if e.Has(NoDate) {
		names = append(names, "NO_DATE")
	}
	if e.Has(InvalidDate) {
		names = append(names, "INVALID_DATE")
	}
	if e.Has(BadSlug) {
		names = append(names, "BAD_SLUG")
	}
	if e.Has(ObscureName) {
		names = append(names, "OBSCURE_POD_NAME")
	}
	return strings.Join(names, "|")
}

var (
	// Anything other than hyphen, underscore, letters, or digits makes a
	// name a bad slug.
	badSlugPatt  = regexp.MustCompile(`[^\p{L}\p{N}_-]`)
	hyphDashPatt = regexp.MustCompile(`[_-]+`)
	// The aggressive splitter cuts on every non-alphanumeric run, not just
	// separator characters.
	aggressivePatt = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// Splitter cuts a name into slug fields.
type Splitter interface {
	Split(text string) []string
}

// HyphDashSplitter splits on runs of hyphens and underscores, for names
// that are already well-formed slugs.
type HyphDashSplitter struct{}

func (HyphDashSplitter) Split(text string) []string {
	return hyphDashPatt.Split(text, -1)
}

// AggressiveSplitter splits on every non-alphanumeric run, recovering
// fields from names that are not valid slugs.
type AggressiveSplitter struct{}

func (AggressiveSplitter) Split(text string) []string {
	return aggressivePatt.Split(text, -1)
}

// Parts is the parsed form of a podcast file name: its slug fields, the
// position of the date field, and every problem found along the way. Values
// are built only by ParseName and never mutated afterwards.
type Parts struct {
	fields  []string
	dateIdx int
	errs    Errs
}

// ParseName splits a file stem into slug fields and locates its date field.
// The returned value is fully formed; callers never reach in to finish it.
func ParseName(name string) Parts {
	p := Parts{dateIdx: -1}

	if badSlugPatt.MatchString(name) {
		p.fields = AggressiveSplitter{}.Split(name)
		p.errs |= BadSlug
	} else {
		p.fields = HyphDashSplitter{}.Split(name)
	}

	// The date slot is the first 8-character field, whatever it holds.
	for i, field := range p.fields {
		if utf8.RuneCountInString(field) == 8 {
			p.dateIdx = i
			break
		}
	}

	switch {
	case p.dateIdx < 0:
		p.errs |= NoDate
	case !is8Date(p.fields[p.dateIdx]):
		p.errs |= InvalidDate
	}

	return p
}

// Fields returns a copy of the slug fields.
func (p Parts) Fields() []string {
	out := make([]string, len(p.fields))
	copy(out, p.fields)
	return out
}

// DateIndex returns the position of the date field, if one was found.
func (p Parts) DateIndex() (int, bool) {
	return p.dateIdx, p.dateIdx >= 0
}

func (p Parts) Errs() Errs {
	return p.errs
}

func (p Parts) Len() int {
	return len(p.fields)
}

func is8Date(date string) bool {
	_, err := time.Parse("20060102", date)
	return err == nil
}

// Normalize rebuilds a file stem as "pod___YYYYMMDD_description". A missing
// or invalid date, or a date with no podcast fields before it, blocks the
// rebuild and comes back as a non-empty Errs with an empty stem. A BadSlug
// name still normalizes from its aggressive split.
func Normalize(stem string) (string, Errs) {
	parts := ParseName(stem)
	errs := parts.Errs()
	if errs.Has(NoDate) || errs.Has(InvalidDate) {
		return "", errs
	}

	dateIdx, _ := parts.DateIndex()
	if dateIdx == 0 {
		return "", errs | ObscureName
	}

	fields := parts.Fields()
	podName := strings.Join(fields[:dateIdx], "_")
	description := strings.Join(fields[dateIdx+1:], "_")
	return podName + "___" + fields[dateIdx] + "_" + description, errs
}
