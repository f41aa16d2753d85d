package tui

import (
	"fmt"
	"strings"

	"chatlist/internal/animation"
	"chatlist/internal/chat"
	"chatlist/internal/tui/render"
	"chatlist/internal/tui/slash"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

func (m *Model) handleSlash(input string) tea.Cmd {
	inv, err := slash.Parse(input)
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	switch inv.Command {
	case slash.CommandCopy:
		m.copyLatest()
	case slash.CommandFind:
		m.find(inv.Args)
	case slash.CommandDelete:
		return m.deleteMessage(inv.Args)
	case slash.CommandHelp:
		m.showHelp = !m.showHelp
	case slash.CommandQuit, slash.CommandExit:
		return m.quit()
	}
	return nil
}

// completeCommand 用最佳候选补全输入框中的命令名，并在状态栏列出其余候选。
func (m *Model) completeCommand() {
	input := m.textarea.Value()
	if !strings.HasPrefix(input, "/") || strings.Contains(input, " ") {
		return
	}
	matches := slash.Complete(input)
	if len(matches) == 0 {
		m.status = "no command matches " + input
		return
	}
	m.textarea.SetValue(matches[0].DisplayName() + " ")
	names := make([]string, 0, len(matches))
	for _, item := range matches {
		names = append(names, item.DisplayName())
	}
	m.status = strings.Join(names, "  ")
}

func (m *Model) copyLatest() {
	if m.store == nil {
		m.err = fmt.Errorf("nothing to copy")
		return
	}
	latest, ok := m.store.Latest()
	if !ok {
		m.err = fmt.Errorf("nothing to copy")
		return
	}
	if err := m.copy(latest.Text); err != nil {
		m.err = fmt.Errorf("copy to clipboard: %w", err)
		return
	}
	m.status = "copied: " + runewidth.Truncate(latest.Text, 40, "…")
}

// messageTexts 把列表中的消息暴露给 fuzzy 检索。
type messageTexts []chat.Message

func (s messageTexts) String(i int) string { return s[i].Text }
func (s messageTexts) Len() int            { return len(s) }

// find 模糊匹配已加载的消息，并把视口滚动到匹配项。
func (m *Model) find(query string) {
	var msgs messageTexts
	for _, it := range m.list.Items() {
		if msg, ok := chat.AsMessage(it); ok {
			msgs = append(msgs, msg)
		}
	}
	i, ok := slash.Best(query, msgs)
	if !ok {
		m.status = fmt.Sprintf("no match for %q", query)
		return
	}
	target := msgs[i]
	idx, ok := m.list.FindIndexForKey(chat.Key(target.ID))
	if !ok {
		m.status = fmt.Sprintf("no match for %q", query)
		return
	}
	offset := m.linesBelow(idx)
	clockedHost{vp: &m.viewport, clock: m.clock}.ScrollTo(float64(offset), m.cfg.Animation.AutoScroll(), animation.EaseInOut)
	m.status = "found: " + runewidth.Truncate(target.Text, 40, "…")
}

// linesBelow 计算可见下标 idx 之前（更新的一侧）所有槽位当前实际占用的行数。
func (m *Model) linesBelow(idx int) int {
	n := 0
	for i, v := range m.list.Visible() {
		if i >= idx {
			break
		}
		n += len(render.RenderSlot(v, m.renderer))
	}
	return n
}

// deleteMessage 删除指定消息；未给出 id 时删除本地用户最新的一条。
func (m *Model) deleteMessage(id string) tea.Cmd {
	if m.store == nil {
		m.err = fmt.Errorf("nothing to delete")
		return nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		for _, msg := range m.store.Messages() {
			if msg.Author.ID == m.user.ID {
				id = msg.ID
				break
			}
		}
	}
	if id == "" {
		m.err = fmt.Errorf("no message of yours to delete")
		return nil
	}
	if err := m.store.Delete(m.ctx, id); err != nil {
		m.err = err
		return nil
	}
	m.status = "deleted " + id
	if m.sub == nil {
		return m.rebuild()
	}
	return nil
}
