package events

import "time"

// EventType 描述 EQ 中分发的事件类型。
type EventType string

const (
	// EventMessageAppended 表示有新消息写入存储。
	EventMessageAppended EventType = "message.appended"
	// EventMessageDeleted 表示消息被删除。
	EventMessageDeleted EventType = "message.deleted"
	// EventPageLoaded 表示又加载了一页更旧的消息。
	EventPageLoaded EventType = "page.loaded"
)

// PageLoaded 是 EventPageLoaded 的载荷。
type PageLoaded struct {
	Count    int
	LastPage bool
}

// Event 是 EQ 中传递的唯一消息格式。
// Payload 的具体结构由 Type 决定：追加事件携带 chat.Message，分页事件携带 PageLoaded。
type Event struct {
	Type      EventType
	MessageID string
	Timestamp time.Time
	Payload   any
	Metadata  map[string]string
}
