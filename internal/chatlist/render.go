package chatlist

import (
	"time"

	"chatlist/internal/animation"
	"chatlist/internal/chat"
)

// Renderer 把一个条目渲染为宿主需要的表示。positionHint 为 nil 表示条目正在退出。
type Renderer[R any] interface {
	Render(item chat.Item, positionHint *int) R
}

// RendererFunc 让普通函数满足 Renderer。
type RendererFunc[R any] func(item chat.Item, positionHint *int) R

func (f RendererFunc[R]) Render(item chat.Item, positionHint *int) R {
	return f(item, positionHint)
}

// ScrollHost 是承载列表的滚动容器。偏移 0 表示最新一端。
type ScrollHost interface {
	CurrentScrollOffset() float64
	ScrollTo(offset float64, d time.Duration, curve animation.Curve)
}

// Frame 是一帧中某个槽位的渲染结果。
type Frame[R any] struct {
	View   SlotView
	Output R
}

// RenderFrame 按当前可见顺序渲染所有槽位。
func RenderFrame[R any](seq *Sequence, r Renderer[R]) []Frame[R] {
	views := seq.Visible()
	out := make([]Frame[R], 0, len(views))
	for _, v := range views {
		out = append(out, Frame[R]{View: v, Output: r.Render(v.Item, v.PositionHint())})
	}
	return out
}
