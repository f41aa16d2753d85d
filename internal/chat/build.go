package chat

import "time"

// BottomSpacerID identifies the spacer that always sits at index 0.
const BottomSpacerID = "bottom"

// BuildItems turns messages ordered newest first into list items: a leading
// spacer, the messages, and a date header above (after, in list order) each
// run of messages from the same local day.
func BuildItems(messages []Message, loc *time.Location) []Item {
	if loc == nil {
		loc = time.Local
	}
	items := make([]Item, 0, len(messages)+len(messages)/4+2)
	items = append(items, Spacer{ID: BottomSpacerID})
	if len(messages) == 0 {
		return items
	}
	for i, msg := range messages {
		items = append(items, MessageItem{Message: msg})
		day := dayOf(msg.CreatedAt, loc)
		last := i == len(messages)-1
		if last || !dayOf(messages[i+1].CreatedAt, loc).Equal(day) {
			items = append(items, DateHeader{Date: day})
		}
	}
	return items
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// MessageCount counts the message rows in items.
func MessageCount(items []Item) int {
	n := 0
	for _, it := range items {
		if _, ok := it.(MessageItem); ok {
			n++
		}
	}
	return n
}
