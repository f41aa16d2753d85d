package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText 使用词级别换行，宽度按终端显示宽度计算。
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	lines := []string{}
	for _, raw := range strings.Split(text, "\n") {
		if raw == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapLine(raw, width)...)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	out := []string{}
	current := ""
	for _, word := range strings.Fields(line) {
		w := runewidth.StringWidth(word)
		if current == "" {
			if w > width {
				out = append(out, breakLongWord(word, width)...)
				continue
			}
			current = word
			continue
		}
		if runewidth.StringWidth(current)+1+w <= width {
			current += " " + word
			continue
		}
		out = append(out, current)
		if w > width {
			out = append(out, breakLongWord(word, width)...)
			current = ""
			continue
		}
		current = word
	}
	if current != "" {
		out = append(out, current)
	}
	if len(out) == 0 {
		return []string{line}
	}
	return out
}

// breakLongWord 按显示宽度切分单词；宽字符不会被拆到两行。
func breakLongWord(word string, width int) []string {
	out := []string{}
	var b strings.Builder
	used := 0
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if used+rw > width && used > 0 {
			out = append(out, b.String())
			b.Reset()
			used = 0
		}
		b.WriteRune(r)
		used += rw
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}
