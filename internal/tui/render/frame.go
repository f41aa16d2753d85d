package render

import (
	"math"

	"chatlist/internal/chatlist"
	"github.com/charmbracelet/lipgloss"
)

// Loading 描述顶部加载行的状态。
type Loading struct {
	// Presence 是加载行的可见程度，0 表示隐藏。
	Presence float64
	Glyph    string
	Style    lipgloss.Style
}

// Compose 把可见槽位按从旧到新的顺序排成终端行（最新一条在底部）。
//
// 进入或退出中的槽位只显示 Presence 比例的行数并变暗，模拟高度与透明度过渡。
func Compose(views []chatlist.SlotView, r chatlist.Renderer[[]Line], loading Loading) []Line {
	var out []Line
	if loading.Presence > 0 {
		out = append(out, Line{Spans: []Span{{Text: loading.Glyph + " loading older messages…", Style: loading.Style}}})
	}
	for i := len(views) - 1; i >= 0; i-- {
		out = append(out, RenderSlot(views[i], r)...)
	}
	return out
}

// RenderSlot 渲染单个槽位，动画中的槽位按 Presence 截取。Compose 与滚动定位共用它，
// 保证两者的行数一致。
func RenderSlot(v chatlist.SlotView, r chatlist.Renderer[[]Line]) []Line {
	lines := r.Render(v.Item, v.PositionHint())
	if v.State != chatlist.Steady {
		lines = clip(lines, v.Presence)
	}
	return lines
}

func clip(lines []Line, presence float64) []Line {
	if presence >= 1 {
		return lines
	}
	n := int(math.Ceil(float64(len(lines)) * math.Max(presence, 0)))
	return restyle(lines[:n], func(s lipgloss.Style) lipgloss.Style { return s.Faint(true) })
}
