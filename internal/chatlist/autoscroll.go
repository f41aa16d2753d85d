package chatlist

import "chatlist/internal/chat"

// ShouldAutoScroll 判断一次列表更新后是否应滚动到最新一条。
//
// 下标 0 固定是底部 spacer，下标 1 是最新的一行。只有当新旧两份列表的下标 1
// 都是消息、键不同且新消息由本地用户发出时才返回 true。列表过短或该位置不是
// 消息时返回 false。
func ShouldAutoScroll(old, next []chat.Item, localUserID string) bool {
	if len(old) < 2 || len(next) < 2 {
		return false
	}
	prev, ok := chat.AsMessage(old[1])
	if !ok {
		return false
	}
	newest, ok := chat.AsMessage(next[1])
	if !ok {
		return false
	}
	return prev.ID != newest.ID && newest.Author.ID == localUserID
}
