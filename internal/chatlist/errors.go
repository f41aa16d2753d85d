package chatlist

import (
	"errors"
	"fmt"

	"chatlist/internal/chat"
	"chatlist/internal/diff"
)

var (
	// ErrOpOutOfRange 表示编辑操作引用了不存在的位置。
	ErrOpOutOfRange = errors.New("chatlist: op out of range")
	// ErrDisposed 表示序列已销毁，不再接受任何修改。
	ErrDisposed = errors.New("chatlist: sequence disposed")
)

// OpError 指出脚本中第几个操作越界，以及当时的存活槽位数。
type OpError struct {
	Index int
	Op    diff.Op[chat.Item]
	Live  int
}

func (e *OpError) Error() string {
	return fmt.Sprintf("chatlist: op #%d %s out of range for %d live slots", e.Index, e.Op, e.Live)
}

func (e *OpError) Unwrap() error { return ErrOpOutOfRange }
