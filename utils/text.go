package utils

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NotAvailable mirrors models.NotAvailable for packages below models
const NotAvailable = "Not available"

// CleanText collapses whitespace runs and rejects values that are a
// leaked JSON object
func CleanText(s string) string {
	cleaned := strings.Join(strings.Fields(s), " ")
	if cleaned == "" {
		return ""
	}
	if strings.HasPrefix(cleaned, "{") && strings.HasSuffix(cleaned, "}") {
		return NotAvailable
	}
	return cleaned
}

// StripHTML returns the text content of an HTML fragment, space separated
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return CleanText(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return NotAvailable
	}
	return JoinedText(doc.Selection)
}

// JoinedText returns the text nodes under sel, in document order, joined
// by single spaces. Script and style bodies are skipped.
func JoinedText(sel *goquery.Selection) string {
	var parts []string
	collectText(sel, &parts)
	return CleanText(strings.Join(parts, " "))
}

func collectText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "#text":
			if t := strings.TrimSpace(s.Text()); t != "" {
				*parts = append(*parts, t)
			}
		case "script", "style", "noscript", "#comment":
		default:
			collectText(s, parts)
		}
	})
}

// IsValidURL checks for an absolute http(s) URL with a host
func IsValidURL(raw string) bool {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Host != ""
}

// Truncate cuts s to at most n bytes without splitting a rune
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
