package render

import (
	"time"

	"chatlist/internal/chat"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Theme 汇总条目渲染使用的样式。
type Theme struct {
	LocalAuthor  lipgloss.Style
	RemoteAuthor lipgloss.Style
	Meta         lipgloss.Style
	Text         lipgloss.Style
	Date         lipgloss.Style
	Loading      lipgloss.Style
}

// DefaultTheme 返回默认配色。
func DefaultTheme() Theme {
	return Theme{
		LocalAuthor:  lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
		RemoteAuthor: lipgloss.NewStyle().Foreground(lipgloss.Color("#43BF6D")).Bold(true),
		Meta:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Text:         lipgloss.NewStyle(),
		Date:         lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Loading:      lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")),
	}
}

type cachedItem struct {
	item  chat.Item
	width int
	lines []Line
}

// ItemRenderer 把 chat.Item 渲染为行。结果按键缓存，内容与宽度不变时返回同一切片。
type ItemRenderer struct {
	LocalUserID string
	Loc         *time.Location
	Theme       Theme

	width int
	cache map[chat.Key]cachedItem
}

// NewItemRenderer 创建渲染器。
func NewItemRenderer(localUserID string, loc *time.Location) *ItemRenderer {
	if loc == nil {
		loc = time.Local
	}
	return &ItemRenderer{
		LocalUserID: localUserID,
		Loc:         loc,
		Theme:       DefaultTheme(),
		width:       80,
		cache:       map[chat.Key]cachedItem{},
	}
}

// SetWidth 更新可用宽度，变化时清空缓存。
func (r *ItemRenderer) SetWidth(width int) {
	if width <= 0 || width == r.width {
		return
	}
	r.width = width
	clear(r.cache)
}

// Render 实现 chatlist.Renderer。positionHint 为 nil 的条目正在退出，以删除线显示。
func (r *ItemRenderer) Render(item chat.Item, positionHint *int) []Line {
	key := chat.KeyOf(item)
	entry, ok := r.cache[key]
	if !ok || entry.width != r.width || chat.ContentChanged(entry.item, item) {
		entry = cachedItem{item: item, width: r.width, lines: r.render(item)}
		r.cache[key] = entry
	}
	if positionHint == nil {
		return restyle(entry.lines, func(s lipgloss.Style) lipgloss.Style { return s.Strikethrough(true) })
	}
	return entry.lines
}

// Prune 删除不在 keep 中的缓存项。
func (r *ItemRenderer) Prune(keep map[chat.Key]struct{}) {
	for k := range r.cache {
		if _, ok := keep[k]; !ok {
			delete(r.cache, k)
		}
	}
}

func (r *ItemRenderer) render(item chat.Item) []Line {
	switch it := item.(type) {
	case chat.MessageItem:
		return r.renderMessage(it.Message)
	case chat.DateHeader:
		return []Line{r.renderDate(it.Date)}
	case chat.Spacer:
		return []Line{Plain("")}
	default:
		return nil
	}
}

func (r *ItemRenderer) renderMessage(m chat.Message) []Line {
	authorStyle := r.Theme.RemoteAuthor
	if m.Author.ID == r.LocalUserID {
		authorStyle = r.Theme.LocalAuthor
	}
	name := m.Author.Name
	if name == "" {
		name = m.Author.ID
	}
	meta := m.CreatedAt.In(r.Loc).Format("15:04")
	if !m.UpdatedAt.IsZero() {
		meta += " (edited)"
	}
	header := Line{Spans: []Span{
		{Text: runewidth.Truncate(name, max(1, r.width-len(meta)-1), "…"), Style: authorStyle},
		{Text: " " + meta, Style: r.Theme.Meta},
	}}

	body := make([]Line, 0, 2)
	for _, l := range wrapText(m.Text, max(1, r.width-2)) {
		body = append(body, Line{Spans: []Span{{Text: l, Style: r.Theme.Text}}})
	}
	body = PrefixLines(body, Span{Text: "  "}, Span{Text: "  "})
	return append([]Line{header}, body...)
}

func (r *ItemRenderer) renderDate(day time.Time) Line {
	label := " " + day.In(r.Loc).Format("Mon, Jan 2 2006") + " "
	pad := max(0, r.width-runewidth.StringWidth(label))
	left := pad / 2
	return Line{Spans: []Span{{
		Text:  runewidth.FillRight("", left) + label + runewidth.FillRight("", pad-left),
		Style: r.Theme.Date,
	}}}
}
