// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize is the second-pass safety net behind the best-effort
// renderer: it strips residual markup artifacts via pattern substitution and
// collapses whitespace while preserving paragraph breaks. Normalize is
// idempotent.
package normalize

import (
	"regexp"
	"strings"
)

var (
	citeRE        = regexp.MustCompile(`\\cite[a-zA-Z]*\*?(?:\[[^\]]*\])?\{[^{}]*\}`)
	refRE         = regexp.MustCompile(`\\(?:auto|page|eq|name)?ref\*?\{[^{}]*\}`)
	labelRE       = regexp.MustCompile(`\\label\{[^{}]*\}`)
	beginRE       = regexp.MustCompile(`\\begin\{[^{}]*\}`)
	endRE         = regexp.MustCompile(`\\end\{[^{}]*\}`)
	argCmdRE      = regexp.MustCompile(`\\[a-zA-Z]+\*?\{[^{}]*\}`)
	bareCmdRE     = regexp.MustCompile(`\\[a-zA-Z]+\*?`)
	urlBracketsRE = regexp.MustCompile(`<(https?://[^>]+)>`)
	paragraphRE   = regexp.MustCompile(`\n[ \t]*\n[\s]*`)
)

// placeholderTokens are intermediate markers the renderer emits for
// citations and references; they are removed from the final text.
var placeholderTokens = []string{"<cit.>", "<ref>"}

// Normalize strips residual markup from rendered text and canonicalizes
// whitespace: words inside a paragraph are separated by single spaces and
// paragraphs by exactly one blank line. Applying it twice yields the same
// result as applying it once.
func Normalize(text string) string {
	text = stripArtifacts(text)
	return collapseWhitespace(text)
}

// stripArtifacts removes leftover commands, placeholder tags and stray
// braces that survived rendering.
func stripArtifacts(text string) string {
	text = citeRE.ReplaceAllString(text, "")
	text = refRE.ReplaceAllString(text, "")
	text = labelRE.ReplaceAllString(text, "")
	text = beginRE.ReplaceAllString(text, "")
	text = endRE.ReplaceAllString(text, "")
	text = argCmdRE.ReplaceAllString(text, "")
	text = bareCmdRE.ReplaceAllString(text, "")

	for _, tok := range placeholderTokens {
		text = strings.ReplaceAll(text, tok, "")
	}

	// URLs rendered as <https://...> lose their angle brackets.
	text = urlBracketsRE.ReplaceAllString(text, "$1")

	// Stray grouping braces carry no text.
	text = strings.ReplaceAll(text, "{", "")
	text = strings.ReplaceAll(text, "}", "")

	return text
}

// collapseWhitespace joins each paragraph's words with single spaces and
// separates paragraphs with exactly one blank line. Single newlines within
// a paragraph become spaces.
func collapseWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string
	for _, block := range paragraphRE.Split(text, -1) {
		words := strings.Fields(block)
		if len(words) == 0 {
			continue
		}
		paragraphs = append(paragraphs, strings.Join(words, " "))
	}
	return strings.Join(paragraphs, "\n\n")
}

// CountWords returns the number of whitespace-delimited words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountParagraphs returns the number of blank-line-separated paragraphs in
// normalized text.
func CountParagraphs(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	count := 0
	for _, block := range paragraphRE.Split(text, -1) {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}
