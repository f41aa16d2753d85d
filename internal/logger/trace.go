package logger

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// ListTracer 负责输出列表协调、动画快进与分页相关的事件。
type ListTracer interface {
	Reconciled(oldLen, newLen, ops int)
	Snapped(key string, state string)
	PageRequested(offset, maxExtent float64, items int)
	PageCompleted(err error)
	AutoScroll(key string)
}

// ListLog 是全局唯一的列表事件日志器实例。
var ListLog ListTracer = NewListTracer(nil)

// StdListTracer 使用 logrus 输出日志。
type StdListTracer struct {
	logger *logrus.Entry
}

// NewListTracer 构造默认的列表事件日志记录器，l 为 nil 时使用全局 logger。
func NewListTracer(l *Logger) *StdListTracer {
	if l == nil {
		l = root()
	}
	return &StdListTracer{logger: logrus.NewEntry(l).WithField("component", "list")}
}

// Reconciled 记录一次 diff 的规模。
func (t *StdListTracer) Reconciled(oldLen, newLen, ops int) {
	t.printf(logrus.DebugLevel, "reconcile", "old=%d new=%d ops=%d", oldLen, newLen, ops)
}

// Snapped 记录被强制结束动画的槽位。
func (t *StdListTracer) Snapped(key string, state string) {
	t.printf(logrus.DebugLevel, "snap", "key=%s state=%s", key, state)
}

// PageRequested 记录一次分页触发。
func (t *StdListTracer) PageRequested(offset, maxExtent float64, items int) {
	t.printf(logrus.InfoLevel, "page", "-> request offset=%.1f max=%.1f items=%d", offset, maxExtent, items)
}

// PageCompleted 记录分页完成；失败只记录，不向上传播。
func (t *StdListTracer) PageCompleted(err error) {
	if err != nil {
		t.printf(logrus.WarnLevel, "page", "<- failed: %v", err)
		return
	}
	t.printf(logrus.InfoLevel, "page", "<- done")
}

// AutoScroll 记录一次自动滚动请求。
func (t *StdListTracer) AutoScroll(key string) {
	t.printf(logrus.InfoLevel, "autoscroll", "newest=%s", key)
}

func (t *StdListTracer) printf(level logrus.Level, op string, format string, args ...any) {
	if t == nil || t.logger == nil {
		return
	}
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	entry := t.logger.WithField("op", op)
	if caller := callerString(3); caller != "" {
		entry = entry.WithField("caller", caller)
	}
	entry.Log(level, msg)
}

func callerString(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", shortenFilePath(file), line)
}
