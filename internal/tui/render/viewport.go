package render

import (
	"math"
	"slices"
	"strings"
	"time"

	"chatlist/internal/animation"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ChatViewport 包装 bubbles viewport，作为倒序列表的滚动宿主。
//
// 偏移以“距最新一端（底部）的行数”计量：0 表示停在最新消息处，数值越大越接近最旧的
// 内容。内容变化时保持该偏移不变，因此在顶部加载更旧的分页不会打断阅读位置。
type ChatViewport struct {
	viewport.Model
	lastLines []string
	scroll    *animation.Controller
	from      float64
	to        float64
}

// NewChatViewport 创建视口。
func NewChatViewport(width, height int) ChatViewport {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return ChatViewport{Model: vp}
}

// Resize 更新宽高，保持距底部的偏移。
func (v *ChatViewport) Resize(width, height int) {
	if v == nil {
		return
	}
	if v.Width == width && v.Height == height {
		return
	}
	offset := v.CurrentScrollOffset()
	if v.Width != width {
		v.lastLines = nil
	}
	v.Width = width
	v.Height = height
	v.setOffset(offset)
}

// HandleUpdate 代理 bubbles 的 Update；用户滚动会取消进行中的滚动动画。
func (v *ChatViewport) HandleUpdate(msg tea.Msg) tea.Cmd {
	if v == nil {
		return nil
	}
	before := v.YOffset
	var cmd tea.Cmd
	v.Model, cmd = v.Model.Update(msg)
	if v.YOffset != before {
		v.scroll = nil
	}
	return cmd
}

// SetLines 更新内容，保持距底部的偏移不变。
func (v *ChatViewport) SetLines(lines []string) bool {
	if v == nil || slices.Equal(lines, v.lastLines) {
		return false
	}
	offset := v.CurrentScrollOffset()
	v.lastLines = append([]string(nil), lines...)
	v.SetContent(strings.Join(lines, "\n"))
	v.setOffset(offset)
	return true
}

// MaxOffset 是可滚动的最大行数。
func (v *ChatViewport) MaxOffset() int {
	return max(0, v.TotalLineCount()-v.Height)
}

// CurrentScrollOffset 返回距底部的行数。
func (v *ChatViewport) CurrentScrollOffset() float64 {
	if v == nil {
		return 0
	}
	return float64(v.MaxOffset() - v.YOffset)
}

func (v *ChatViewport) setOffset(offset float64) {
	maxOffset := v.MaxOffset()
	o := int(math.Round(offset))
	o = min(max(o, 0), maxOffset)
	v.SetYOffset(maxOffset - o)
}

// ScrollTo 以动画滚动到给定偏移；d 为 0 时立即跳转。
func (v *ChatViewport) ScrollTo(offset float64, d time.Duration, curve animation.Curve) {
	v.ScrollToAt(offset, d, curve, time.Now())
}

// ScrollToAt 与 ScrollTo 相同，但显式给出动画起点。
func (v *ChatViewport) ScrollToAt(offset float64, d time.Duration, curve animation.Curve, now time.Time) {
	if v == nil {
		return
	}
	v.from = v.CurrentScrollOffset()
	v.to = offset
	if d <= 0 || v.from == v.to {
		v.scroll = nil
		v.setOffset(offset)
		return
	}
	v.scroll = animation.NewController(d, curve)
	v.scroll.Forward(now)
}

// Tick 推进滚动动画，返回动画是否仍在进行。
func (v *ChatViewport) Tick(now time.Time) bool {
	if v == nil || v.scroll == nil {
		return false
	}
	running := v.scroll.Tick(now)
	v.setOffset(animation.Lerp(v.from, v.to, v.scroll.Value()))
	if !running {
		v.scroll = nil
	}
	return running
}

// Scrolling 报告是否有滚动动画在进行。
func (v *ChatViewport) Scrolling() bool {
	return v != nil && v.scroll != nil
}
