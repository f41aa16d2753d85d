// Package chat defines the items shown in the message list and the keys that
// identify them across renders.
package chat

import (
	"fmt"
	"time"
)

// User is a message author.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Message is one chat message as stored and rendered.
type Message struct {
	ID        string    `json:"id"`
	Author    User      `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Equal reports whether two messages carry the same content.
func (m Message) Equal(o Message) bool {
	return m.ID == o.ID &&
		m.Author == o.Author &&
		m.Text == o.Text &&
		m.CreatedAt.Equal(o.CreatedAt) &&
		m.UpdatedAt.Equal(o.UpdatedAt)
}

// Item is one row of the list: a MessageItem, a DateHeader or a Spacer.
// The set is closed; only this package implements it.
type Item interface {
	isItem()
}

// MessageItem wraps a message.
type MessageItem struct {
	Message Message
}

// DateHeader separates messages of different days. Date is the local
// midnight of the day it introduces.
type DateHeader struct {
	Date time.Time
}

// Spacer is a structural, content-free row.
type Spacer struct {
	ID string
}

func (MessageItem) isItem() {}
func (DateHeader) isItem()  {}
func (Spacer) isItem()      {}

// Key is the stable identity of an item.
type Key string

const (
	spacerPrefix = "spacer:"
	datePrefix   = "date:"
	dateLayout   = "2006-01-02"
)

// KeyOf derives the identity of an item. It depends only on identifying
// fields, so edits to a message body never change its key.
func KeyOf(item Item) Key {
	switch it := item.(type) {
	case MessageItem:
		return Key(it.Message.ID)
	case DateHeader:
		return Key(datePrefix + it.Date.Format(dateLayout))
	case Spacer:
		return Key(spacerPrefix + it.ID)
	case nil:
		return ""
	default:
		panic(fmt.Sprintf("chat: unknown item type %T", item))
	}
}

// SameKey is the default list equivalence: identity by key.
func SameKey(a, b Item) bool {
	return KeyOf(a) == KeyOf(b)
}

// ContentChanged reports whether two items with the same key differ in the
// data a renderer would show.
func ContentChanged(a, b Item) bool {
	switch x := a.(type) {
	case MessageItem:
		y, ok := b.(MessageItem)
		return !ok || !x.Message.Equal(y.Message)
	case DateHeader:
		y, ok := b.(DateHeader)
		return !ok || !x.Date.Equal(y.Date)
	case Spacer:
		_, ok := b.(Spacer)
		return !ok
	default:
		return a != b
	}
}

// AsMessage returns the message of a MessageItem.
func AsMessage(item Item) (Message, bool) {
	if mi, ok := item.(MessageItem); ok {
		return mi.Message, true
	}
	return Message{}, false
}

// Keys returns the keys of items in order.
func Keys(items []Item) []Key {
	out := make([]Key, 0, len(items))
	for _, it := range items {
		out = append(out, KeyOf(it))
	}
	return out
}
