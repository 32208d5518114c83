package scanner

import (
	"regexp"
	"sort"
	"strings"
)

// Syntax identifies which embedding style produced a reference.
type Syntax string

const (
	SyntaxMarkdown Syntax = "markdown"
	SyntaxHTML     Syntax = "html"
)

var (
	resourceIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)
	markdownPattern   = regexp.MustCompile(`!\[([^\]]*)\]\(:/([0-9a-fA-F]{32})\)`)
	// Quoted attribute values may contain ">", so the tag body consumes
	// quoted runs whole instead of stopping at the first closing bracket.
	imgTagPattern = regexp.MustCompile(`(?i)<img\b(?:[^>"']|"[^"]*"|'[^']*')*>`)
	attrPattern   = regexp.MustCompile(`([a-zA-Z_:][a-zA-Z0-9_:.-]*)(?:\s*=\s*("[^"]*"|'[^']*'|[^\s"'>]+))?`)
	srcIDPattern  = regexp.MustCompile(`^(?:joplin-id:|:/)([0-9a-fA-F]{32})$`)
)

// IsResourceID reports whether the supplied token is a well-formed 32
// character hex resource identifier.
func IsResourceID(id string) bool {
	return resourceIDPattern.MatchString(id)
}

// Attr is a single HTML attribute captured verbatim at scan time. Value holds
// the unquoted content; quoting style and ordering are preserved through the
// raw match so substitution can replay the tag byte for byte.
type Attr struct {
	Name  string
	Value string
}

// Reference is one textual occurrence of an embedded resource. The scanner
// never deduplicates: a body referencing the same id three times yields three
// references so substitution can honour document order.
type Reference struct {
	ID       string
	Syntax   Syntax
	RawMatch string
	// Start and End delimit RawMatch within the scanned body.
	Start int
	End   int
	// Alt is the markdown alt text. Empty for HTML references.
	Alt string
	// Attrs lists every HTML attribute in original order. Nil for markdown.
	Attrs []Attr

	// src value offsets within RawMatch, used for byte-exact replacement.
	srcStart int
	srcEnd   int
}

// Attr returns the named HTML attribute value, matching case-insensitively.
func (r Reference) Attr(name string) (string, bool) {
	for _, attr := range r.Attrs {
		if strings.EqualFold(attr.Name, name) {
			return attr.Value, true
		}
	}
	return "", false
}

// Rewrite returns the reference text with its target swapped. Markdown
// references are rebuilt around the preserved alt text; HTML references reuse
// the raw tag with only the src value replaced, leaving every other attribute
// byte-identical to the input.
func (r Reference) Rewrite(target string) string {
	switch r.Syntax {
	case SyntaxMarkdown:
		return "![" + r.Alt + "](" + target + ")"
	case SyntaxHTML:
		return r.RawMatch[:r.srcStart] + target + r.RawMatch[r.srcEnd:]
	}
	return r.RawMatch
}

// Scan walks the body and returns every embedded resource reference across
// both syntaxes, ordered by first occurrence.
func Scan(body string) []Reference {
	if body == "" {
		return nil
	}

	refs := scanMarkdown(body)
	refs = append(refs, scanHTML(body)...)

	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Start < refs[j].Start
	})

	// Markdown syntax inside an img attribute value matches both patterns.
	// Keep the earliest reference and drop anything overlapping its span so
	// substitution always walks disjoint ranges.
	kept := refs[:0]
	end := 0
	for _, ref := range refs {
		if ref.Start < end {
			continue
		}
		kept = append(kept, ref)
		end = ref.End
	}
	return kept
}

func scanMarkdown(body string) []Reference {
	matches := markdownPattern.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return nil
	}

	refs := make([]Reference, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, Reference{
			ID:       body[m[4]:m[5]],
			Syntax:   SyntaxMarkdown,
			RawMatch: body[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
			Alt:      body[m[2]:m[3]],
		})
	}
	return refs
}

func scanHTML(body string) []Reference {
	tags := imgTagPattern.FindAllStringIndex(body, -1)
	if len(tags) == 0 {
		return nil
	}

	var refs []Reference
	for _, span := range tags {
		tag := body[span[0]:span[1]]
		if ref, ok := parseImgTag(tag); ok {
			ref.Start = span[0]
			ref.End = span[1]
			refs = append(refs, ref)
		}
	}
	return refs
}

// parseImgTag captures the tag's attributes in order and locates a resource
// id inside the src value. Tags whose src does not carry a resource id are
// not references.
func parseImgTag(tag string) (Reference, bool) {
	// Skip the "<img" token so it is not mistaken for an attribute name.
	const prefix = 4
	if len(tag) <= prefix {
		return Reference{}, false
	}

	ref := Reference{
		Syntax:   SyntaxHTML,
		RawMatch: tag,
	}

	for _, m := range attrPattern.FindAllStringSubmatchIndex(tag[prefix:], -1) {
		name := tag[prefix+m[2] : prefix+m[3]]

		attr := Attr{Name: name}
		valueStart, valueEnd := -1, -1
		if m[4] >= 0 {
			valueStart = prefix + m[4]
			valueEnd = prefix + m[5]
			raw := tag[valueStart:valueEnd]
			if len(raw) >= 2 && (raw[0] == '"' || raw[0] == '\'') && raw[len(raw)-1] == raw[0] {
				valueStart++
				valueEnd--
			}
			attr.Value = tag[valueStart:valueEnd]
		}
		ref.Attrs = append(ref.Attrs, attr)

		if strings.EqualFold(name, "src") && valueStart >= 0 {
			if sm := srcIDPattern.FindStringSubmatch(attr.Value); sm != nil {
				ref.ID = sm[1]
				ref.srcStart = valueStart
				ref.srcEnd = valueEnd
			}
		}
	}

	if ref.ID == "" {
		return Reference{}, false
	}
	return ref, true
}
