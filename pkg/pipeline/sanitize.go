package pipeline

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans a rendered document before it is published.
type Sanitizer interface {
	Sanitize(document string) string
}

// SanitizerFunc adapts a function to Sanitizer.
type SanitizerFunc func(string) string

// Sanitize calls f.
func (f SanitizerFunc) Sanitize(document string) string {
	return f(document)
}

var (
	docsitePolicyOnce sync.Once
	docsitePolicy     *bluemonday.Policy
)

// DocSiteSanitizer strips markup unsafe for the documentation site from the
// prose of a markdown document. Fenced code blocks and inline code spans pass
// through unchanged.
func DocSiteSanitizer() Sanitizer {
	docsitePolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span", "div")
		policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		docsitePolicy = policy
	})
	return markdownSanitizer{policy: docsitePolicy}
}

type markdownSanitizer struct {
	policy *bluemonday.Policy
}

func (m markdownSanitizer) Sanitize(document string) string {
	var out, prose strings.Builder
	flush := func() {
		if prose.Len() == 0 {
			return
		}
		out.WriteString(m.policy.Sanitize(prose.String()))
		prose.Reset()
	}

	fence := ""
	for _, line := range strings.SplitAfter(document, "\n") {
		if fence != "" {
			out.WriteString(line)
			if closesFence(line, fence) {
				fence = ""
			}
			continue
		}
		if open := openingFence(line); open != "" {
			flush()
			out.WriteString(line)
			fence = open
			continue
		}
		for line != "" {
			start := strings.IndexByte(line, '`')
			if start < 0 {
				prose.WriteString(line)
				break
			}
			prose.WriteString(line[:start])
			line = line[start:]

			marker := line[:len(line)-len(strings.TrimLeft(line, "`"))]
			end := strings.Index(line[len(marker):], marker)
			if end < 0 {
				prose.WriteString(line)
				break
			}
			span := len(marker) + end + len(marker)
			flush()
			out.WriteString(line[:span])
			line = line[span:]
		}
	}
	flush()
	return out.String()
}

// openingFence returns the backtick or tilde run that opens a fenced code
// block on line, or "" when line does not open one.
func openingFence(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || trimmed == "" {
		return ""
	}
	ch := trimmed[0]
	if ch != '`' && ch != '~' {
		return ""
	}
	run := trimmed[:len(trimmed)-len(strings.TrimLeft(trimmed, string(ch)))]
	if len(run) < 3 {
		return ""
	}
	if ch == '`' && strings.ContainsRune(trimmed[len(run):], '`') {
		return ""
	}
	return run
}

func closesFence(line, fence string) bool {
	trimmed := strings.TrimSpace(line)
	return len(trimmed) >= len(fence) && strings.Trim(trimmed, fence[:1]) == ""
}
