// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package texclean removes non-prose regions from raw markup text: table,
// tabular and figure environments plus inline and display math. Regions are
// matched by pairing their delimiters with a depth counter per environment
// name, so repeated and nested regions are each stripped independently.
package texclean

import (
	"fmt"
	"io"
	"strings"
)

// strippedEnvs is the set of environment names whose content is removed
// wholesale, including the delimiters.
var strippedEnvs = map[string]bool{
	"table":       true,
	"table*":      true,
	"tabular":     true,
	"tabular*":    true,
	"figure":      true,
	"figure*":     true,
	"equation":    true,
	"equation*":   true,
	"align":       true,
	"align*":      true,
	"eqnarray":    true,
	"eqnarray*":   true,
	"gather":      true,
	"gather*":     true,
	"multline":    true,
	"multline*":   true,
	"displaymath": true,
}

// Strip returns input with all table, figure and math regions removed.
// Malformed input never fails: a region whose closing delimiter is missing
// is treated as extending to the end of the input and dropped, and the
// anomaly is noted on the debug writer.
func Strip(input string, debug io.Writer) string {
	var b strings.Builder
	b.Grow(len(input))

	i := 0
	for i < len(input) {
		switch input[i] {
		case '\\':
			if i+1 < len(input) {
				switch input[i+1] {
				case '\\', '$', '%', '{', '}':
					// Escape pair: never a region delimiter.
					b.WriteString(input[i : i+2])
					i += 2
					continue
				case '[':
					i = skipDelimited(input, i, i+2, `\]`, "display math", debug)
					continue
				case '(':
					i = skipDelimited(input, i, i+2, `\)`, "inline math", debug)
					continue
				}
			}
			if env, bodyStart, ok := parseBegin(input, i); ok && strippedEnvs[env] {
				end, terminated := matchEnvironment(input, bodyStart, env)
				reportRegion(debug, env+" environment", i, end, terminated)
				i = end
				continue
			}
			b.WriteByte('\\')
			i++
		case '$':
			if i+1 < len(input) && input[i+1] == '$' {
				i = skipDelimited(input, i, i+2, "$$", "display math", debug)
			} else {
				i = skipInlineMath(input, i, debug)
			}
		default:
			b.WriteByte(input[i])
			i++
		}
	}
	return b.String()
}

// skipDelimited drops a region opened at start whose body begins at from and
// ends at the next occurrence of closer. Returns the index just past the
// closer, or the end of input when the closer is missing.
func skipDelimited(input string, start, from int, closer, kind string, debug io.Writer) int {
	rel := strings.Index(input[from:], closer)
	if rel < 0 {
		reportRegion(debug, kind, start, len(input), false)
		return len(input)
	}
	end := from + rel + len(closer)
	reportRegion(debug, kind, start, end, true)
	return end
}

// skipInlineMath drops a $...$ region opened at start. The closing dollar
// must not be escaped with a backslash.
func skipInlineMath(input string, start int, debug io.Writer) int {
	for j := start + 1; j < len(input); j++ {
		if input[j] == '\\' {
			j++ // skip the escaped character
			continue
		}
		if input[j] == '$' {
			reportRegion(debug, "inline math", start, j+1, true)
			return j + 1
		}
	}
	reportRegion(debug, "inline math", start, len(input), false)
	return len(input)
}

// parseBegin parses a \begin{name} token at position i. Returns the
// environment name and the index just past the closing brace.
func parseBegin(input string, i int) (env string, bodyStart int, ok bool) {
	const prefix = `\begin{`
	if !strings.HasPrefix(input[i:], prefix) {
		return "", 0, false
	}
	nameStart := i + len(prefix)
	rel := strings.IndexByte(input[nameStart:], '}')
	if rel < 0 {
		return "", 0, false
	}
	return input[nameStart : nameStart+rel], nameStart + rel + 1, true
}

// matchEnvironment scans from pos for the \end{env} that balances an already
// opened \begin{env}, counting nested occurrences of the same environment.
// Returns the index just past the balancing \end and whether it was found.
func matchEnvironment(input string, pos int, env string) (end int, terminated bool) {
	beginTok := `\begin{` + env + `}`
	endTok := `\end{` + env + `}`

	depth := 1
	for pos < len(input) {
		bi := strings.Index(input[pos:], beginTok)
		ei := strings.Index(input[pos:], endTok)
		if ei < 0 {
			return len(input), false
		}
		if bi >= 0 && bi < ei {
			depth++
			pos += bi + len(beginTok)
			continue
		}
		depth--
		pos += ei + len(endTok)
		if depth == 0 {
			return pos, true
		}
	}
	return len(input), false
}

func reportRegion(debug io.Writer, kind string, start, end int, terminated bool) {
	if terminated {
		fmt.Fprintf(debug, "stripped %s region (%d bytes at offset %d)\n", kind, end-start, start)
		return
	}
	fmt.Fprintf(debug, "unterminated %s region at offset %d; dropping to end of input\n", kind, start)
}
