// Package store keeps chat messages in an append-only JSONL file and serves
// them newest first, one page at a time.
package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"chatlist/internal/chat"
	"chatlist/internal/events"
	"chatlist/internal/logger"
	"github.com/google/uuid"
)

// DefaultPageSize is used when Options.PageSize is not positive.
const DefaultPageSize = 20

var (
	// ErrNotFound is returned when a message id is unknown.
	ErrNotFound = errors.New("message not found")
	// ErrEmptyText is returned by Append for blank input.
	ErrEmptyText = errors.New("message text is empty")
)

const (
	opAppend = "append"
	opDelete = "delete"
)

// record is one line of the history file. Deletions are tombstones.
type record struct {
	Op      string        `json:"op"`
	Message *chat.Message `json:"message,omitempty"`
	ID      string        `json:"id,omitempty"`
	TS      time.Time     `json:"ts"`
}

// Options configure a Store.
type Options struct {
	PageSize int
	// Latency delays every page fetch; useful to see the loading row.
	Latency time.Duration
	Events  *events.EventQueue
	Now     func() time.Time
}

// Store is safe for concurrent use: page fetches run off the UI goroutine.
type Store struct {
	Path string

	mu       sync.Mutex
	all      []chat.Message // oldest first
	loaded   int            // newest messages currently exposed
	pageSize int
	latency  time.Duration
	events   *events.EventQueue
	now      func() time.Time
	log      *logger.LogEntry
}

// Open reads the history file at path and exposes its first page. A missing
// file is an empty history.
func Open(path string, opts Options) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history store path is empty")
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Store{
		Path:     path,
		pageSize: opts.PageSize,
		latency:  opts.Latency,
		events:   opts.Events,
		now:      opts.Now,
		log:      logger.Named("store"),
	}
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	s.all = all
	s.loaded = min(len(all), s.pageSize)
	s.log.WithFields(logger.Fields{"path": path, "messages": len(all)}).Info("opened history")
	return s, nil
}

func (s *Store) load() ([]chat.Message, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var out []chat.Message
	index := map[string]int{}
	skipped := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var r record
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			skipped++
			continue
		}
		switch r.Op {
		case opAppend:
			if r.Message == nil || r.Message.ID == "" {
				skipped++
				continue
			}
			if i, ok := index[r.Message.ID]; ok {
				out[i] = *r.Message
				continue
			}
			index[r.Message.ID] = len(out)
			out = append(out, *r.Message)
		case opDelete:
			if i, ok := index[r.ID]; ok {
				out[i].ID = ""
				delete(index, r.ID)
			}
		default:
			skipped++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if skipped > 0 {
		s.log.WithField("skipped", skipped).Warn("ignored malformed history lines")
	}
	out = slices.DeleteFunc(out, func(m chat.Message) bool { return m.ID == "" })
	slices.SortStableFunc(out, func(a, b chat.Message) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (s *Store) write(r record) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// Append stores a new message from author and exposes it immediately.
func (s *Store) Append(ctx context.Context, author chat.User, text string) (chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return chat.Message{}, ErrEmptyText
	}
	msg := chat.Message{
		ID:        uuid.NewString(),
		Author:    author,
		Text:      text,
		CreatedAt: s.now(),
	}
	s.mu.Lock()
	if err := s.write(record{Op: opAppend, Message: &msg, TS: msg.CreatedAt}); err != nil {
		s.mu.Unlock()
		return chat.Message{}, fmt.Errorf("append message: %w", err)
	}
	s.all = append(s.all, msg)
	s.loaded++
	s.mu.Unlock()

	s.log.WithField("id", msg.ID).Debug("appended message")
	s.publish(ctx, events.Event{Type: events.EventMessageAppended, MessageID: msg.ID, Payload: msg})
	return msg, nil
}

// Delete removes a message by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i := slices.IndexFunc(s.all, func(m chat.Message) bool { return m.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	if err := s.write(record{Op: opDelete, ID: id, TS: s.now()}); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if i >= len(s.all)-s.loaded {
		s.loaded--
	}
	s.all = slices.Delete(s.all, i, i+1)
	s.mu.Unlock()

	s.log.WithField("id", id).Debug("deleted message")
	s.publish(ctx, events.Event{Type: events.EventMessageDeleted, MessageID: id})
	return nil
}

// FetchNextPage exposes the next page of older messages.
func (s *Store) FetchNextPage(ctx context.Context) error {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	s.mu.Lock()
	before := s.loaded
	s.loaded = min(len(s.all), s.loaded+s.pageSize)
	page := events.PageLoaded{Count: s.loaded - before, LastPage: s.loaded == len(s.all)}
	s.mu.Unlock()

	s.log.WithFields(logger.Fields{"count": page.Count, "last_page": page.LastPage}).Info("loaded page")
	s.publish(ctx, events.Event{Type: events.EventPageLoaded, Payload: page})
	return nil
}

// Messages returns the exposed messages, newest first.
func (s *Store) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	window := s.all[len(s.all)-s.loaded:]
	out := make([]chat.Message, len(window))
	for i, m := range window {
		out[len(window)-1-i] = m
	}
	return out
}

// LastPage reports whether every stored message is exposed.
func (s *Store) LastPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded >= len(s.all)
}

// Latest returns the newest message.
func (s *Store) Latest() (chat.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.all) == 0 {
		return chat.Message{}, false
	}
	return s.all[len(s.all)-1], true
}

// Len returns the number of stored messages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.all)
}

func (s *Store) publish(ctx context.Context, ev events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.WithError(err).WithField("type", ev.Type).Warn("publish store event")
	}
}
