package resolver

import (
	"strings"

	"github.com/goliatone/go-notebridge/internal/scanner"
)

// assemble runs the substitution pass over the original, non-deduplicated
// reference list in occurrence order and tallies run statistics.
func assemble(body string, refs []scanner.Reference, outcomes map[string]Outcome) *Result {
	result := &Result{
		References: make([]ReferenceResult, 0, len(refs)),
	}

	var b strings.Builder
	b.Grow(len(body))
	last := 0
	counted := make(map[string]struct{}, len(outcomes))

	for _, ref := range refs {
		outcome := outcomes[ref.ID]
		result.References = append(result.References, ReferenceResult{
			Reference: ref,
			Outcome:   outcome,
		})

		b.WriteString(body[last:ref.Start])
		switch outcome.Status {
		case StatusResolved:
			b.WriteString(ref.Rewrite(outcome.Target))
			result.Stats.Succeeded++
		case StatusSkipped:
			// Unsupported media keeps its original reference text.
			b.WriteString(ref.RawMatch)
			result.Stats.Skipped++
		default:
			b.WriteString(placeholder(ref, outcome.Reason))
			result.Stats.Failed++
		}
		last = ref.End

		result.Stats.Total++
		if outcome.CacheHit {
			if _, ok := counted[ref.ID]; !ok {
				counted[ref.ID] = struct{}{}
				result.Stats.CacheHits++
			}
		}
	}
	b.WriteString(body[last:])

	result.Body = b.String()
	return result
}

// placeholder renders a readable stand-in for a failed reference, keeping the
// layout hints (alt text, width, height) so documents keep their shape even
// when content is missing. The raw resource identifier never appears.
func placeholder(ref scanner.Reference, reason string) string {
	if reason == "" {
		reason = "resolution failed"
	}

	var b strings.Builder
	b.WriteString("[image unavailable (")
	b.WriteString(reason)
	b.WriteString(")")

	alt := ref.Alt
	if alt == "" {
		alt, _ = ref.Attr("alt")
	}
	if alt != "" {
		b.WriteString(` alt="` + alt + `"`)
	}
	if width, ok := ref.Attr("width"); ok && width != "" {
		b.WriteString(` width="` + width + `"`)
	}
	if height, ok := ref.Attr("height"); ok && height != "" {
		b.WriteString(` height="` + height + `"`)
	}
	b.WriteString("]")
	return b.String()
}
