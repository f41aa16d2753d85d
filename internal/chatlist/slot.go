package chatlist

import (
	"fmt"

	"chatlist/internal/animation"
	"chatlist/internal/chat"
)

// SlotState 是槽位动画生命周期的阶段。
type SlotState int

const (
	// Entering 表示进入动画进行中。
	Entering SlotState = iota
	// Steady 表示已稳定显示。
	Steady
	// Exiting 表示退出动画进行中，槽位仍占据原位置。
	Exiting
)

func (s SlotState) String() string {
	switch s {
	case Entering:
		return "entering"
	case Steady:
		return "steady"
	case Exiting:
		return "exiting"
	default:
		return fmt.Sprintf("SlotState(%d)", int(s))
	}
}

// slot 是一个条目在可见集合中的存在，拥有自己的动画记录。
type slot struct {
	key   chat.Key
	item  chat.Item
	state SlotState
	anim  *animation.Controller
}

func (s *slot) live() bool { return s.state != Exiting }

// SlotView 是交给渲染器的只读快照。
type SlotView struct {
	Key   chat.Key
	Item  chat.Item
	State SlotState
	// Index 是存活槽位中的逻辑位置；退出中的槽位为 -1。
	Index int
	// Progress 是当前动画已走过的线性比例，Steady 时为 1。
	Progress float64
	// Presence 是缓动后的可见程度：进入时 0→1，退出时 1→0。
	Presence float64
}

// PositionHint 返回渲染器使用的位置提示；退出中的条目返回 nil。
func (v SlotView) PositionHint() *int {
	if v.State == Exiting || v.Index < 0 {
		return nil
	}
	idx := v.Index
	return &idx
}

// Completion 描述一次动画完成事件。
type Completion struct {
	Key  chat.Key
	Item chat.Item
	// Removed 为 true 表示退出动画结束、槽位已移出集合；否则为进入动画结束。
	Removed bool
	// Snapped 为 true 表示动画被强制快进完成。
	Snapped bool
}
