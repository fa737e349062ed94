package bubbletea

import (
	"strings"

	rw "github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// wrapText word-wraps s to fit within width display cells. Widths are
// measured per grapheme cluster so wide characters (CJK input is common in
// chat) wrap at the right column. Words wider than a full line are broken at
// cluster boundaries. Existing newlines are preserved as paragraph breaks.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		lines = append(lines, wrapLine(para, width)...)
	}
	return lines
}

func wrapLine(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur string
	curWidth := 0

	for _, word := range words {
		w := uniseg.StringWidth(word)
		if curWidth > 0 {
			if curWidth+1+w <= width {
				cur += " " + word
				curWidth += 1 + w
				continue
			}
			lines = append(lines, cur)
			cur, curWidth = "", 0
		}
		if w > width {
			parts := breakWord(word, width)
			lines = append(lines, parts[:len(parts)-1]...)
			cur = parts[len(parts)-1]
			curWidth = uniseg.StringWidth(cur)
			continue
		}
		cur = word
		curWidth = w
	}
	return append(lines, cur)
}

// breakWord splits a word wider than width at grapheme cluster boundaries.
func breakWord(word string, width int) []string {
	var parts []string
	var cur strings.Builder
	curWidth := 0

	g := uniseg.NewGraphemes(word)
	for g.Next() {
		cluster := g.Str()
		w := rw.StringWidth(cluster)
		if curWidth+w > width && curWidth > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
			curWidth = 0
		}
		cur.WriteString(cluster)
		curWidth += w
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	if len(parts) == 0 {
		parts = []string{""}
	}
	return parts
}
