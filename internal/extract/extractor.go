package extract

import (
	"regexp"
	"strings"
)

// urlPattern accepts http:// or https:// followed by any run of characters
// excluding whitespace and the delimiters <>"{}|\^`[].
var urlPattern = regexp.MustCompile("https?://[^\\s<>\"{}|\\\\^`\\[\\]]+")

// trailingPunctuation is stripped from the end of email-mode matches,
// repeated while any such trailing character remains.
const trailingPunctuation = ".,;:!?)]}>'\""

// FromEmailText scans free text (a pasted email body) for candidate URLs.
// Matches are punctuation-stripped and deduplicated exact-match while
// preserving first-seen order.
func FromEmailText(text string) []string {
	matches := urlPattern.FindAllString(text, -1)

	seen := make(map[string]struct{}, len(matches))
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		m = stripTrailingPunctuation(m)
		if !hasHTTPScheme(m) {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		urls = append(urls, m)
	}
	return urls
}

// FromDelimitedFile extracts candidate URLs from the decoded text content
// of an uploaded CSV/TXT file. Lines whose lowercase form contains "url"
// or "link" are treated as header rows and discarded. For each remaining
// line the first comma-separated field that starts with http:// or
// https:// is selected, falling back to the first field verbatim; the
// line is kept only if the selected field itself carries an HTTP scheme.
func FromDelimitedFile(text string) []string {
	lines := strings.Split(text, "\n")

	seen := make(map[string]struct{}, len(lines))
	urls := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		if strings.Contains(lower, "url") || strings.Contains(lower, "link") {
			continue
		}

		candidate := selectField(line)
		if !hasHTTPScheme(candidate) {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		urls = append(urls, candidate)
	}
	return urls
}

// selectField splits a line on commas, trims and unquotes each field, and
// returns the first field with an HTTP scheme, or the first field verbatim
// when none matches.
func selectField(line string) string {
	fields := strings.Split(line, ",")
	first := ""
	for i, f := range fields {
		f = strings.TrimSpace(f)
		f = strings.Trim(f, "\"'")
		if i == 0 {
			first = f
		}
		if hasHTTPScheme(f) {
			return f
		}
	}
	return first
}

func stripTrailingPunctuation(s string) string {
	for len(s) > 0 && strings.ContainsRune(trailingPunctuation, rune(s[len(s)-1])) {
		s = s[:len(s)-1]
	}
	return s
}

func hasHTTPScheme(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
