// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxivid recognises arXiv identifiers in free text and URLs.
package arxivid

import (
	"regexp"
	"strings"
)

var (
	// urlPattern matches identifiers inside abstract or PDF links
	// (e.g. "arxiv.org/pdf/2401.12345v2.pdf").
	urlPattern = regexp.MustCompile(`arxiv\.org/(?:abs|pdf)/(\d+\.\d+(?:v\d+)?)`)

	// barePattern matches a new-style identifier anywhere in the text.
	barePattern = regexp.MustCompile(`(\d{4}\.\d{4,5}(?:v\d+)?)`)

	// linkPattern matches abstract or PDF links with a well-formed identifier.
	linkPattern = regexp.MustCompile(`arxiv\.org/(?:abs|pdf)/(\d{4}\.\d{4,5}(?:v\d+)?)`)

	versionSuffix = regexp.MustCompile(`v\d+$`)
)

// Extract returns the first arXiv identifier found in text. Links to arXiv
// abstract or PDF pages take priority over bare identifiers. The version
// suffix is preserved.
func Extract(text string) (string, bool) {
	if m := urlPattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if m := barePattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// FindLinked returns every identifier that appears inside an arXiv abstract
// or PDF link in text, in order of appearance and without duplicates.
func FindLinked(text string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range linkPattern.FindAllStringSubmatch(text, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		ids = append(ids, m[1])
	}
	return ids
}

// IsPaperURL reports whether u looks like a link to a paper page rather than
// a listing or search page.
func IsPaperURL(u string) bool {
	return strings.Contains(u, "/abs/") || strings.Contains(u, "/pdf/")
}

// StripVersion removes a trailing version suffix (e.g. "v2").
func StripVersion(id string) string {
	return versionSuffix.ReplaceAllString(id, "")
}
