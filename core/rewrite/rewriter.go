package rewrite

import (
	"strings"

	"github.com/tristendillon/realias/core/shared"
)

// DefaultNativeExt is the extension written onto rewritten specifiers whose
// own extension the module runtime would not resolve.
const DefaultNativeExt = ".js"

// DefaultPassThroughExts lists the specifier extensions, beyond the native
// one, that are kept untouched.
var DefaultPassThroughExts = []string{".json"}

// Result is the outcome of rewriting one text blob.
type Result struct {
	Content string
	Applied []string
	Changed bool
}

// Rewriter substitutes matched statements. It is pure: the same content and
// configuration always produce the same Result, and nothing here touches the
// file system.
type Rewriter struct {
	matcher   *Matcher
	nativeExt string
	pass      map[string]struct{}
}

func NewRewriter(m *Matcher, nativeExt string, passThroughExts []string) *Rewriter {
	r := &Rewriter{
		matcher:   m,
		nativeExt: normalizeExt(nativeExt),
	}
	if r.nativeExt == "" {
		r.nativeExt = DefaultNativeExt
	}

	r.pass = make(map[string]struct{}, len(passThroughExts)+1)
	r.pass[r.nativeExt] = struct{}{}
	for _, ext := range passThroughExts {
		if normalized := normalizeExt(ext); normalized != "" {
			r.pass[normalized] = struct{}{}
		}
	}
	return r
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Rewrite runs the alias substitution over one file's text. Output is
// assembled in a single pass against the original offsets, so a replacement
// never shifts or re-triggers a later match.
func (r *Rewriter) Rewrite(content string) Result {
	matches := r.matcher.Scan(content)
	if len(matches) == 0 {
		return Result{Content: content}
	}

	var out strings.Builder
	out.Grow(len(content) + len(matches)*16)
	applied := make([]string, 0, len(matches))

	last := 0
	for _, m := range matches {
		out.WriteString(content[last:m.Start])
		out.WriteString(r.rewriteMatch(m, &applied))
		last = m.End
	}
	out.WriteString(content[last:])

	result := Result{Content: out.String(), Applied: applied}
	result.Changed = result.Content != content
	return result
}

// rewriteMatch maps one matched statement to its replacement text, keeping
// the binding text and quote character verbatim.
func (r *Rewriter) rewriteMatch(m Match, applied *[]string) string {
	replacement, ok := r.matcher.table.Resolve(m.Alias)
	if !ok {
		// Matches only arise from table aliases; an unknown one is left
		// alone rather than guessed at.
		return m.Full
	}
	*applied = append(*applied, m.Alias)

	var b strings.Builder
	b.Grow(len(m.Full))
	b.WriteString("import ")
	b.WriteString(m.Bindings)
	b.WriteString(" from ")
	b.WriteByte(m.Quote)
	b.WriteString(replacement)
	b.WriteByte('/')
	b.WriteString(r.normalizeRelPath(m.RelPath))
	b.WriteByte(m.Quote)
	return b.String()
}

// normalizeRelPath applies the extension policy: pass-through extensions
// survive as written, anything else becomes the native extension. The
// comparison is case-insensitive; the path itself is never case-folded.
// A leading-dot name has no extension, so ".env" grows into ".env.js"
// instead of losing its name.
func (r *Rewriter) normalizeRelPath(rel string) string {
	if rel == "" {
		return rel
	}
	name := rel[strings.LastIndexByte(rel, '/')+1:]
	if name == "" {
		return rel
	}
	ext := shared.Ext(name)
	if _, ok := r.pass[strings.ToLower(ext)]; ok {
		return rel
	}
	return strings.TrimSuffix(rel, ext) + r.nativeExt
}
