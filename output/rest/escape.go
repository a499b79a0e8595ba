package rest

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Escape makes label text safe inside reST link text: backticks are
// removed, angle brackets become entity references and non-ASCII characters
// become numeric character references.
func Escape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '`':
		case r == '<':
			sb.WriteString("&lt;")
		case r == '>':
			sb.WriteString("&gt;")
		case r == '\n' || r == '\r':
			sb.WriteByte(' ')
		case r >= utf8.RuneSelf:
			sb.WriteString("&#")
			sb.WriteString(strconv.Itoa(int(r)))
			sb.WriteByte(';')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// link renders an anonymous reST hyperlink. Named links would define a
// document-wide target per label, and one label may point at several IRIs.
func link(label, uri string) string {
	return "`" + Escape(label) + " <" + uri + ">`__"
}

// foldTitle turns s into a single-line section title.
func foldTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// columnWidth is the number of terminal columns s occupies, counted the way
// docutils sizes section adornments: wide and fullwidth runes take two
// columns and combining marks none.
func columnWidth(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
		case isWide(r):
			n += 2
		default:
			n++
		}
	}
	return n
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}
