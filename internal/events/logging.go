package events

import (
	"encoding/json"
	"fmt"

	"chatlist/internal/logger"
)

// log 复用全局 logger，标记事件组件。
var log = logger.Named("events")

// encodePayload 把载荷编码成便于阅读的日志字段：字符串原样输出，其余使用缩进 JSON。
func encodePayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", payload)
	}
	return string(data)
}
