package chatlist

import (
	"slices"
	"time"

	"chatlist/internal/animation"
	"chatlist/internal/chat"
	"chatlist/internal/diff"
	"chatlist/internal/logger"
)

// SequenceOptions 控制进入/退出动画的时长与曲线。
type SequenceOptions struct {
	Enter      time.Duration
	Exit       time.Duration
	EnterCurve animation.Curve
	ExitCurve  animation.Curve
	// Clock 提供 ApplyOps 启动动画的时间；为 nil 时使用系统时钟。
	Clock animation.Clock
	// OnComplete 在进入动画结束或退出槽位被移出时调用。
	OnComplete func(Completion)
}

// Sequence 维护带动画生命周期的有序槽位集合。
//
// 逻辑位置只计算存活（非 Exiting）槽位，因此 diff 产生的编辑脚本可以直接作用于
// 它；退出中的槽位保持原物理位置，直到自己的动画结束才被移除。
type Sequence struct {
	opts     SequenceOptions
	slots    []*slot
	disposed bool
	log      *logger.LogEntry
}

// NewSequence 创建空序列。
func NewSequence(opts SequenceOptions) *Sequence {
	if opts.EnterCurve == nil {
		opts.EnterCurve = animation.EaseOut
	}
	if opts.ExitCurve == nil {
		opts.ExitCurve = animation.EaseIn
	}
	if opts.Clock == nil {
		opts.Clock = animation.SystemClock{}
	}
	return &Sequence{opts: opts, log: logger.Named("chatlist")}
}

// Reset 用 items 直接替换全部槽位，不产生动画。
func (s *Sequence) Reset(items []chat.Item) {
	if s.disposed {
		return
	}
	s.slots = s.slots[:0]
	for _, it := range items {
		s.slots = append(s.slots, s.newSlot(it, Steady))
	}
}

func (s *Sequence) newSlot(item chat.Item, state SlotState) *slot {
	sl := &slot{key: chat.KeyOf(item), item: item, state: state}
	if state == Steady {
		sl.anim = animation.NewController(s.opts.Enter, s.opts.EnterCurve)
		sl.anim.Forward(time.Time{})
		sl.anim.Complete()
	}
	return sl
}

// ApplyOps 按顺序应用编辑脚本。
//
// Insert 在逻辑位置创建 Entering 槽位并启动进入动画，同键的退出中槽位会被复用；
// Remove 将对应存活槽位转为 Exiting 并启动退出动画；Change 原地替换条目数据；
// Move 无动画地移动存活槽位。任一操作越界时返回 *OpError，且序列保持不变。
func (s *Sequence) ApplyOps(ops []diff.Op[chat.Item]) error {
	if s.disposed {
		return ErrDisposed
	}
	if err := s.validate(ops); err != nil {
		s.log.WithError(err).Error("rejected edit script")
		return err
	}
	now := s.opts.Clock.Now()
	for _, op := range ops {
		switch op.Kind {
		case diff.Insert:
			at := s.physicalIndex(op.Pos)
			fresh := make([]*slot, 0, op.Count)
			for _, it := range op.Items {
				sl, from := s.takeExiting(chat.KeyOf(it))
				if sl != nil {
					if from < at {
						at--
					}
					sl.item = it
					sl.state = Entering
					sl.anim.Duration = s.opts.Enter
					sl.anim.Curve = s.opts.EnterCurve
				} else {
					sl = s.newSlot(it, Entering)
					sl.anim = animation.NewController(s.opts.Enter, s.opts.EnterCurve)
				}
				sl.anim.Forward(now)
				fresh = append(fresh, sl)
			}
			s.slots = slices.Insert(s.slots, at, fresh...)
		case diff.Remove:
			for _, sl := range s.liveRange(op.Pos, op.Count) {
				sl.state = Exiting
				if sl.anim == nil {
					sl.anim = animation.NewController(s.opts.Exit, s.opts.ExitCurve)
				}
				sl.anim.Duration = s.opts.Exit
				sl.anim.Curve = s.opts.ExitCurve
				sl.anim.Reverse(now)
			}
		case diff.Change:
			sl := s.slots[s.physicalIndex(op.Pos)]
			sl.item = op.Items[0]
			sl.key = chat.KeyOf(op.Items[0])
		case diff.Move:
			from := s.physicalIndex(op.Pos)
			sl := s.slots[from]
			s.slots = slices.Delete(s.slots, from, from+1)
			s.slots = slices.Insert(s.slots, s.physicalIndex(op.To), sl)
		}
	}
	s.sweep(false)
	return nil
}

// takeExiting 取出键为 key 的退出中槽位，返回它原来的下标。
// 重新插入的键沿用该槽位，进入动画从当前可见程度继续，且不会报告移除完成。
func (s *Sequence) takeExiting(key chat.Key) (*slot, int) {
	for i, sl := range s.slots {
		if sl.state == Exiting && sl.key == key && sl.anim != nil {
			s.slots = slices.Delete(s.slots, i, i+1)
			return sl, i
		}
	}
	return nil, -1
}

// validate 在不修改状态的前提下模拟存活数量，找出第一个越界的操作。
func (s *Sequence) validate(ops []diff.Op[chat.Item]) error {
	live := s.liveCount()
	for i, op := range ops {
		bad := false
		switch op.Kind {
		case diff.Insert:
			bad = op.Pos < 0 || op.Pos > live || op.Count != len(op.Items) || op.Count < 0
			if !bad {
				live += op.Count
			}
		case diff.Remove:
			bad = op.Pos < 0 || op.Count < 0 || op.Pos+op.Count > live
			if !bad {
				live -= op.Count
			}
		case diff.Change:
			bad = op.Pos < 0 || op.Pos >= live || len(op.Items) != 1
		case diff.Move:
			bad = op.Pos < 0 || op.Pos >= live || op.To < 0 || op.To >= live
		default:
			bad = true
		}
		if bad {
			return &OpError{Index: i, Op: op, Live: live}
		}
	}
	return nil
}

// physicalIndex 把逻辑位置换算为槽位下标；pos 等于存活数时返回末尾。
func (s *Sequence) physicalIndex(pos int) int {
	n := 0
	for i, sl := range s.slots {
		if !sl.live() {
			continue
		}
		if n == pos {
			return i
		}
		n++
	}
	return len(s.slots)
}

func (s *Sequence) liveRange(pos, count int) []*slot {
	out := make([]*slot, 0, count)
	n := 0
	for _, sl := range s.slots {
		if !sl.live() {
			continue
		}
		if n >= pos && n < pos+count {
			out = append(out, sl)
		}
		n++
	}
	return out
}

func (s *Sequence) liveCount() int {
	n := 0
	for _, sl := range s.slots {
		if sl.live() {
			n++
		}
	}
	return n
}

// Tick 推进所有动画；返回值表示可见内容是否发生变化。
func (s *Sequence) Tick(now time.Time) bool {
	if s.disposed {
		return false
	}
	changed := false
	for _, sl := range s.slots {
		if sl.anim != nil && sl.anim.IsAnimating() {
			sl.anim.Tick(now)
			changed = true
		}
	}
	if s.sweep(false) {
		changed = true
	}
	return changed
}

// sweep 结算已完成的动画：Entering 转为 Steady，Exiting 被移出集合。
func (s *Sequence) sweep(snapped bool) bool {
	changed := false
	var done []Completion
	kept := s.slots[:0]
	for _, sl := range s.slots {
		finished := sl.anim == nil || !sl.anim.IsAnimating()
		switch {
		case sl.state == Entering && finished:
			sl.state = Steady
			done = append(done, Completion{Key: sl.key, Item: sl.item, Snapped: snapped})
			changed = true
		case sl.state == Exiting && finished:
			done = append(done, Completion{Key: sl.key, Item: sl.item, Removed: true, Snapped: snapped})
			changed = true
			continue
		}
		kept = append(kept, sl)
	}
	clear(s.slots[len(kept):])
	s.slots = kept
	if s.opts.OnComplete != nil {
		for _, c := range done {
			s.opts.OnComplete(c)
		}
	}
	return changed
}

// SnapOrphans 强制完成键不在 keep 中的进入/退出动画，避免孤立的动画无限挂起。
// 返回被快进的槽位数。
func (s *Sequence) SnapOrphans(keep map[chat.Key]struct{}) int {
	if s.disposed {
		return 0
	}
	n := 0
	for _, sl := range s.slots {
		if sl.state == Steady || sl.anim == nil || !sl.anim.IsAnimating() {
			continue
		}
		if _, ok := keep[sl.key]; ok {
			continue
		}
		logger.ListLog.Snapped(string(sl.key), sl.state.String())
		sl.anim.Complete()
		n++
	}
	if n > 0 {
		s.sweep(true)
	}
	return n
}

// Visible 返回所有尚未移除的槽位快照，按当前位置排序。
func (s *Sequence) Visible() []SlotView {
	out := make([]SlotView, 0, len(s.slots))
	idx := 0
	for _, sl := range s.slots {
		v := SlotView{Key: sl.key, Item: sl.item, State: sl.state, Index: -1, Progress: 1, Presence: 1}
		if sl.live() {
			v.Index = idx
			idx++
		}
		if sl.anim != nil && sl.state != Steady {
			v.Progress = sl.anim.Progress()
			v.Presence = sl.anim.Value()
		}
		out = append(out, v)
	}
	return out
}

// Items 返回存活条目，即最近一次编辑后的逻辑列表。
func (s *Sequence) Items() []chat.Item {
	out := make([]chat.Item, 0, len(s.slots))
	for _, sl := range s.slots {
		if sl.live() {
			out = append(out, sl.item)
		}
	}
	return out
}

// Len 返回可见槽位数（含退出中）。
func (s *Sequence) Len() int { return len(s.slots) }

// Animating 报告是否仍有动画在进行。
func (s *Sequence) Animating() bool {
	for _, sl := range s.slots {
		if sl.state != Steady {
			return true
		}
	}
	return false
}

// FindIndexForKey 返回键对应存活槽位在可见序列中的下标；找不到时 ok 为 false。
func (s *Sequence) FindIndexForKey(key chat.Key) (int, bool) {
	for i, sl := range s.slots {
		if sl.live() && sl.key == key {
			return i, true
		}
	}
	return -1, false
}

// Dispose 停止所有动画；之后的调用都不再修改状态。
func (s *Sequence) Dispose() {
	s.disposed = true
	s.slots = nil
	s.opts.OnComplete = nil
}
