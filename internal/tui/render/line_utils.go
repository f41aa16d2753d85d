package render

import "github.com/charmbracelet/lipgloss"

// LineToStatic 深拷贝行，便于安全缓存。
func LineToStatic(line Line) Line {
	spans := make([]Span, len(line.Spans))
	copy(spans, line.Spans)
	return Line{Spans: spans, Style: line.Style}
}

// PrefixLines 为首行/续行添加前缀。
func PrefixLines(lines []Line, initial Span, subsequent Span) []Line {
	out := make([]Line, 0, len(lines))
	for i, l := range lines {
		spans := make([]Span, 0, len(l.Spans)+1)
		if i == 0 {
			spans = append(spans, initial)
		} else {
			spans = append(spans, subsequent)
		}
		spans = append(spans, l.Spans...)
		out = append(out, Line{Spans: spans, Style: l.Style})
	}
	return out
}

// restyle 返回对每个 Span 应用 fn 后的副本，原行不变。
func restyle(lines []Line, fn func(lipgloss.Style) lipgloss.Style) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		c := LineToStatic(l)
		for i := range c.Spans {
			c.Spans[i].Style = fn(c.Spans[i].Style)
		}
		out = append(out, c)
	}
	return out
}
