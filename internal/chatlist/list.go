// Package chatlist 把 diff、带动画的槽位序列和自动滚动判断组合成聊天列表的协调器。
package chatlist

import (
	"fmt"
	"time"

	"chatlist/internal/animation"
	"chatlist/internal/chat"
	"chatlist/internal/diff"
	"chatlist/internal/logger"
)

// Options 配置 List。
type Options struct {
	LocalUserID string
	Sequence    SequenceOptions
	// OnAutoScroll 在判定需要滚动到最新一条时调用，参数为最新消息的键。
	OnAutoScroll func(chat.Key)
}

// Result 描述一次 Update 的结果。
type Result struct {
	Ops        []diff.Op[chat.Item]
	AutoScroll bool
	// Queued 为 true 表示调用发生在另一次更新内部，已排队等待处理。
	Queued bool
}

// List 持有当前基准列表，并把每次新列表协调为槽位动画。
//
// 更新按到达顺序串行处理；在回调中发起的 Update 会排队，在外层更新结束前依次应用。
type List struct {
	opts     Options
	seq      *Sequence
	base     []chat.Item
	pending  [][]chat.Item
	updating bool
	disposed bool
	log      *logger.LogEntry
}

// New 以 initial 为初始内容创建列表，初始条目不播放进入动画。
func New(initial []chat.Item, opts Options) *List {
	l := &List{
		opts: opts,
		seq:  NewSequence(opts.Sequence),
		base: initial,
		log:  logger.Named("chatlist"),
	}
	l.seq.Reset(initial)
	return l
}

// Update 把列表协调到 items。
func (l *List) Update(items []chat.Item) (Result, error) {
	if l.disposed {
		return Result{}, ErrDisposed
	}
	if l.updating {
		l.pending = append(l.pending, items)
		return Result{Queued: true}, nil
	}
	l.updating = true
	defer func() { l.updating = false }()

	// 失败的更新已把序列重建为它的目标列表，后续排队的更新照常应用；返回第一个错误。
	res, err := l.reconcile(items)
	for len(l.pending) > 0 && !l.disposed {
		next := l.pending[0]
		l.pending = l.pending[1:]
		queued, qerr := l.reconcile(next)
		res.Ops = append(res.Ops, queued.Ops...)
		res.AutoScroll = res.AutoScroll || queued.AutoScroll
		if err == nil {
			err = qerr
		}
	}
	l.pending = nil
	return res, err
}

func (l *List) reconcile(items []chat.Item) (Result, error) {
	old := l.base
	ops := diff.DiffFunc(old, items, chat.SameKey, chat.ContentChanged)
	logger.ListLog.Reconciled(len(old), len(items), len(ops))

	if err := l.seq.ApplyOps(ops); err != nil {
		// 脚本与序列失步时直接重建，保证之后的更新仍然基于正确的基准。
		l.seq.Reset(items)
		l.base = items
		return Result{Ops: ops}, fmt.Errorf("apply edit script: %w", err)
	}
	l.base = items

	keep := make(map[chat.Key]struct{}, len(old)+len(items))
	for _, it := range old {
		keep[chat.KeyOf(it)] = struct{}{}
	}
	for _, it := range items {
		keep[chat.KeyOf(it)] = struct{}{}
	}
	l.seq.SnapOrphans(keep)

	res := Result{Ops: ops}
	if ShouldAutoScroll(old, items, l.opts.LocalUserID) {
		res.AutoScroll = true
		key := chat.KeyOf(items[1])
		logger.ListLog.AutoScroll(string(key))
		if l.opts.OnAutoScroll != nil {
			l.opts.OnAutoScroll(key)
		}
	}
	return res, nil
}

// Tick 推进所有槽位动画。
func (l *List) Tick(now time.Time) bool {
	if l.disposed {
		return false
	}
	return l.seq.Tick(now)
}

// Items 返回当前基准列表。
func (l *List) Items() []chat.Item { return l.base }

// Visible 返回当前应渲染的槽位。
func (l *List) Visible() []SlotView { return l.seq.Visible() }

// Animating 报告是否还有进行中的动画。
func (l *List) Animating() bool { return l.seq.Animating() }

// FindIndexForKey 见 Sequence.FindIndexForKey。
func (l *List) FindIndexForKey(key chat.Key) (int, bool) {
	return l.seq.FindIndexForKey(key)
}

// Sequence 暴露底层序列，供渲染使用。
func (l *List) Sequence() *Sequence { return l.seq }

// Dispose 销毁列表，之后的调用均为空操作。
func (l *List) Dispose() {
	if l.disposed {
		return
	}
	l.disposed = true
	l.pending = nil
	l.seq.Dispose()
	l.log.Debug("list disposed")
}

// ScrollToNewest 让宿主以给定曲线滚动回最新一端。
func ScrollToNewest(host ScrollHost, d time.Duration, curve animation.Curve) {
	if host == nil {
		return
	}
	if curve == nil {
		curve = animation.EaseInQuad
	}
	host.ScrollTo(0, d, curve)
}
