// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package texrender converts cleaned markup source into plain prose text.
// The built-in renderer is best-effort: formatting commands unwrap to their
// argument text, sectioning commands become inline headings, escapes and
// accents decode to Unicode, and unknown commands degrade gracefully.
// It never fails on malformed input.
package texrender

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Renderer turns markup source text into best-effort plain text.
// Implementations must tolerate malformed input.
type Renderer interface {
	Render(src string) (string, error)
}

// LatexRenderer is the built-in LaTeX-to-text renderer.
type LatexRenderer struct{}

// NewLatexRenderer creates the built-in renderer.
func NewLatexRenderer() *LatexRenderer {
	return &LatexRenderer{}
}

// Render converts LaTeX source to plain text. It never returns an error;
// unrecognized constructs are degraded, not rejected.
func (r *LatexRenderer) Render(src string) (string, error) {
	return renderFragment(src), nil
}

// unwrapCmds render their single argument unadorned.
var unwrapCmds = map[string]bool{
	"emph": true, "textbf": true, "textit": true, "texttt": true,
	"textsc": true, "textsf": true, "textrm": true, "textup": true,
	"textsl": true, "textnormal": true, "text": true, "mbox": true,
	"hbox": true, "fbox": true, "underline": true, "uline": true,
	"caption": true, "footnote": true, "thanks": true,
}

// headingCmds render their argument as an inline heading surrounded by
// paragraph breaks. The command's optional star and bracket argument are
// discarded.
var headingCmds = map[string]bool{
	"part": true, "chapter": true, "section": true, "subsection": true,
	"subsubsection": true, "paragraph": true, "subparagraph": true,
	"title": true, "author": true, "date": true,
}

// dropArgCmds disappear together with their argument.
var dropArgCmds = map[string]bool{
	"label": true, "documentclass": true, "usepackage": true,
	"input": true, "include": true, "includegraphics": true,
	"bibliography": true, "bibliographystyle": true, "graphicspath": true,
	"vspace": true, "hspace": true, "setlength": true, "addtolength": true,
	"pagestyle": true, "thispagestyle": true, "newcommand": true,
	"renewcommand": true, "providecommand": true, "newenvironment": true,
	"hypersetup": true, "setcounter": true, "numberwithin": true,
}

// citeCmds render as the <cit.> placeholder the normalizer later removes.
var citeCmds = map[string]bool{
	"cite": true, "citep": true, "citet": true, "citealp": true,
	"citealt": true, "citeauthor": true, "citeyear": true, "parencite": true,
	"textcite": true,
}

// refCmds render as the <ref> placeholder the normalizer later removes.
var refCmds = map[string]bool{
	"ref": true, "eqref": true, "autoref": true, "cref": true,
	"Cref": true, "pageref": true, "nameref": true,
}

// symbolCmds are argument-less commands with a fixed textual rendering.
var symbolCmds = map[string]string{
	"ldots": "…", "dots": "…", "dotsc": "…", "textellipsis": "…",
	"textbackslash": `\`, "LaTeX": "LaTeX", "TeX": "TeX",
	"aa": "å", "AA": "Å", "ae": "æ", "AE": "Æ", "oe": "œ", "OE": "Œ",
	"o": "ø", "O": "Ø", "ss": "ß", "i": "ı", "j": "ȷ",
	"copyright": "©", "textcopyright": "©", "textregistered": "®",
	"texttrademark": "™", "S": "§", "P": "¶", "dag": "†", "ddag": "‡",
	"textquotedblleft": "“", "textquotedblright": "”",
	"textquoteleft": "‘", "textquoteright": "’",
	"textendash": "–", "textemdash": "—",
	"quad": " ", "qquad": " ", "indent": "", "noindent": "",
	"maketitle": "", "tableofcontents": "", "listoffigures": "",
	"listoftables": "", "printbibliography": "", "appendix": "",
	"clearpage": "\n\n", "newpage": "\n\n", "pagebreak": "\n\n",
	"par": "\n\n", "newline": "\n", "linebreak": "\n",
	"hline": "", "midrule": "", "toprule": "", "bottomrule": "",
	"centering": "", "raggedright": "", "raggedleft": "",
	"item": "\n- ",
}

// accentMarks maps single-character accent commands to combining marks.
var accentMarks = map[byte]rune{
	'\'': 0x0301, // acute
	'`':  0x0300, // grave
	'^':  0x0302, // circumflex
	'"':  0x0308, // diaeresis
	'~':  0x0303, // tilde
	'=':  0x0304, // macron
	'.':  0x0307, // dot above
}

// accentCmds maps letter-named accent commands to combining marks.
var accentCmds = map[string]rune{
	"c": 0x0327, // cedilla
	"v": 0x030C, // caron
	"u": 0x0306, // breve
	"H": 0x030B, // double acute
	"k": 0x0328, // ogonek
	"r": 0x030A, // ring above
	"d": 0x0323, // dot below
	"b": 0x0331, // macron below
	"t": 0x0361, // tie
}

// renderFragment is the scanner core. Groups passed to unwrap and heading
// commands are rendered recursively.
func renderFragment(src string) string {
	var out strings.Builder
	out.Grow(len(src))

	i := 0
	for i < len(src) {
		c := src[i]
		switch c {
		case '%':
			// Comment: discard to end of line, keep the newline.
			nl := strings.IndexByte(src[i:], '\n')
			if nl < 0 {
				return out.String()
			}
			i += nl
		case '\\':
			i = renderCommand(src, i, &out)
		case '{', '}':
			i++ // grouping braces carry no text
		case '~':
			out.WriteByte(' ')
			i++
		case '$':
			i++ // leftover math delimiter, cleaned upstream
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// renderCommand handles a control sequence starting at the backslash and
// returns the index of the first unconsumed byte.
func renderCommand(src string, i int, out *strings.Builder) int {
	if i+1 >= len(src) {
		return i + 1
	}
	next := src[i+1]

	// Escaped punctuation.
	switch next {
	case '&', '%', '$', '#', '_', '{', '}':
		out.WriteByte(next)
		return i + 2
	case '\\':
		out.WriteByte('\n')
		return skipBracketGroup(src, i+2)
	case ' ', '\n', '\t', ',', ';', ':':
		out.WriteByte(' ')
		return i + 2
	case '!', '-':
		return i + 2
	}

	// Single-character accents: \'e, \"{o}, ...
	if mark, ok := accentMarks[next]; ok {
		base, rest := accentBase(src, i+2)
		out.WriteString(composeAccent(base, mark))
		return rest
	}

	name, rest := readName(src, i+1)
	if name == "" {
		// Lone backslash before a byte we do not interpret: drop it.
		return i + 1
	}

	switch {
	case name == "begin" || name == "end":
		_, rest, _ = readGroup(src, rest)
		return rest
	case accentCmds[name] != 0 && followsGroupOrLetter(src, rest):
		base, after := accentBase(src, rest)
		out.WriteString(composeAccent(base, accentCmds[name]))
		return after
	case unwrapCmds[name]:
		// An unterminated group still renders its partial content so that
		// truncated sources keep their recoverable prose.
		arg, rest, _ := readGroup(src, skipBracketGroup(src, rest))
		out.WriteString(renderFragment(arg))
		return rest
	case headingCmds[name]:
		arg, rest, ok := readGroup(src, skipBracketGroup(src, rest))
		if ok || arg != "" {
			out.WriteString("\n\n")
			out.WriteString(renderFragment(arg))
			out.WriteString("\n\n")
		}
		return rest
	case citeCmds[name]:
		_, rest, _ = readGroup(src, skipBracketGroup(src, rest))
		out.WriteString("<cit.>")
		return rest
	case refCmds[name]:
		_, rest, _ = readGroup(src, skipBracketGroup(src, rest))
		out.WriteString("<ref>")
		return rest
	case dropArgCmds[name]:
		_, rest, _ = readGroup(src, skipBracketGroup(src, rest))
		return rest
	case name == "url":
		arg, rest, ok := readGroup(src, rest)
		if ok {
			out.WriteString(arg)
		}
		return rest
	case name == "href":
		_, rest, _ = readGroup(src, rest) // target URL
		arg, rest, ok := readGroup(src, rest)
		if ok {
			out.WriteString(renderFragment(arg))
		}
		return rest
	default:
		if text, ok := symbolCmds[name]; ok {
			out.WriteString(text)
			return rest
		}
		// Unknown command: drop the token, let any argument text flow
		// through as the braces are discarded by the scanner.
		return rest
	}
}

// readName reads the letters of a control-sequence name starting at i.
// A trailing star is consumed but not part of the returned name.
func readName(src string, i int) (name string, next int) {
	j := i
	for j < len(src) && isLetter(src[j]) {
		j++
	}
	name = src[i:j]
	if j < len(src) && src[j] == '*' {
		j++
	}
	return name, j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// readGroup reads a balanced {...} group starting at i (after optional
// whitespace) and returns its inner content. Escaped braces do not affect
// the balance. A missing or unterminated group returns ok=false with the
// scan position unchanged or at end of input respectively.
func readGroup(src string, i int) (content string, next int, ok bool) {
	j := skipSpaces(src, i)
	if j >= len(src) || src[j] != '{' {
		return "", i, false
	}
	depth := 0
	for k := j; k < len(src); k++ {
		switch src[k] {
		case '\\':
			k++ // skip escaped byte
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[j+1 : k], k + 1, true
			}
		}
	}
	return src[j+1:], len(src), false
}

// skipBracketGroup skips an optional [...] argument.
func skipBracketGroup(src string, i int) int {
	j := skipSpaces(src, i)
	if j >= len(src) || src[j] != '[' {
		return i
	}
	end := strings.IndexByte(src[j:], ']')
	if end < 0 {
		return i
	}
	return j + end + 1
}

func skipSpaces(src string, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return i
}

func followsGroupOrLetter(src string, i int) bool {
	j := skipSpaces(src, i)
	return j < len(src) && (src[j] == '{' || isLetter(src[j]))
}

// accentBase reads the single base character of an accent command, either a
// bare letter or a one-element group, translating dotless \i and \j back to
// their composable forms.
func accentBase(src string, i int) (base string, next int) {
	if content, rest, ok := readGroup(src, i); ok {
		switch strings.TrimSpace(content) {
		case `\i`:
			return "i", rest
		case `\j`:
			return "j", rest
		case "":
			return "", rest
		}
		return renderFragment(content), rest
	}
	j := skipSpaces(src, i)
	if j < len(src) && isLetter(src[j]) {
		return string(src[j]), j + 1
	}
	return "", i
}

// composeAccent combines a base character with a combining mark and
// normalizes to the precomposed form.
func composeAccent(base string, mark rune) string {
	if base == "" {
		return ""
	}
	return norm.NFC.String(base + string(mark))
}
