// Package tui 是聊天列表的终端界面：Bubble Tea 事件循环驱动列表协调、分页与动画帧。
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chatlist/internal/animation"
	"chatlist/internal/chat"
	"chatlist/internal/chatlist"
	"chatlist/internal/config"
	"chatlist/internal/events"
	"chatlist/internal/logger"
	"chatlist/internal/pagination"
	"chatlist/internal/store"
	"chatlist/internal/tui/render"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options 配置 TUI。
type Options struct {
	Config config.Config
	Store  *store.Store
	// Events 非空时，界面通过订阅存储事件刷新列表；否则每次写入后直接刷新。
	Events   *events.EventQueue
	Clock    animation.Clock
	Location *time.Location
	// Copy 写入剪贴板，默认使用系统剪贴板。
	Copy func(string) error
}

type frameMsg time.Time

type pageDoneMsg struct {
	Done pagination.Done
}

type storeEventMsg struct {
	Event events.Event
}

type autoScrollMsg struct{}

type Model struct {
	cfg      config.Config
	store    *store.Store
	sub      <-chan events.Event
	list     *chatlist.List
	pager    *pagination.Controller
	renderer *render.ItemRenderer
	viewport render.ChatViewport
	textarea textarea.Model
	spin     spinner.Model
	keys     keyMap
	history  promptHistory
	clock    animation.Clock
	loc      *time.Location
	copy     func(string) error
	user     chat.User

	ctx    context.Context
	cancel context.CancelFunc

	width        int
	height       int
	framePending bool
	status       string
	err          error
	showHelp     bool
	disposed     bool
	log          *logger.LogEntry
}

// clockedHost 让视口滚动动画使用与列表相同的时钟。
type clockedHost struct {
	vp    *render.ChatViewport
	clock animation.Clock
}

func (h clockedHost) CurrentScrollOffset() float64 { return h.vp.CurrentScrollOffset() }

func (h clockedHost) ScrollTo(offset float64, d time.Duration, curve animation.Curve) {
	h.vp.ScrollToAt(offset, d, curve, h.clock.Now())
}

func New(opts Options) *Model {
	cfg := opts.Config
	if opts.Clock == nil {
		opts.Clock = animation.SystemClock{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}

	ti := textarea.New()
	ti.Placeholder = "Message…"
	ti.Prompt = "› "
	ti.CharLimit = 0
	ti.ShowLineNumbers = false
	ti.SetWidth(80)
	ti.SetHeight(1)
	ti.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	anim := cfg.Animation
	var initial []chat.Message
	if opts.Store != nil {
		initial = opts.Store.Messages()
	}
	items := chat.BuildItems(initial, opts.Location)

	pagerOpts := pagination.DefaultOptions()
	pagerOpts.Threshold = cfg.Threshold
	pagerOpts.Reveal = anim.LoadingReveal()
	pagerOpts.Hide = anim.LoadingHide()
	pagerOpts.Clock = opts.Clock
	pagerOpts.LastPage = cfg.LastPage() || opts.Store == nil || opts.Store.LastPage()

	var fetcher pagination.Fetcher
	if opts.Store != nil {
		fetcher = opts.Store
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		cfg:   cfg,
		store: opts.Store,
		list: chatlist.New(items, chatlist.Options{
			LocalUserID: cfg.UserID,
			Sequence: chatlist.SequenceOptions{
				Enter: anim.Enter(),
				Exit:  anim.Exit(),
				Clock: opts.Clock,
			},
		}),
		pager:    pagination.NewController(fetcher, pagerOpts),
		renderer: render.NewItemRenderer(cfg.UserID, opts.Location),
		viewport: render.NewChatViewport(80, 20),
		textarea: ti,
		spin:     spin,
		keys:     defaultKeyMap(),
		clock:    opts.Clock,
		loc:      opts.Location,
		copy:     opts.Copy,
		user:     chat.User{ID: cfg.UserID, Name: cfg.UserName},
		ctx:      ctx,
		cancel:   cancel,
		width:    80,
		height:   24,
		log:      logger.Named("tui"),
	}
	m.history.Seed(initial, cfg.UserID)
	if opts.Events != nil {
		m.sub = opts.Events.Subscribe()
	}
	m.log.WithFields(logger.Fields{
		"keyboard_dismiss_behavior": cfg.KeyboardDismissBehavior,
		"scroll_physics":            cfg.ScrollPhysics,
		"items":                     len(items),
	}).Debug("model ready")
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.listenStore())
}

func (m *Model) listenStore() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		ev, ok := <-sub
		if !ok {
			return nil
		}
		return storeEventMsg{Event: ev}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.disposed {
		return m, nil
	}
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		cmds = append(cmds, m.checkPagination())
		return m.finish(cmds...)
	case frameMsg:
		m.framePending = false
		now := m.clock.Now()
		m.list.Tick(now)
		m.pager.Tick(now)
		scrolled := m.viewport.Scrolling()
		m.viewport.Tick(now)
		m.refresh()
		if scrolled {
			cmds = append(cmds, m.checkPagination())
		}
		return m.finish(cmds...)
	case storeEventMsg:
		cmds = append(cmds, m.rebuild(), m.listenStore())
		return m.finish(cmds...)
	case pageDoneMsg:
		if m.pager.Complete(msg.Done) {
			if msg.Done.Err != nil {
				m.err = fmt.Errorf("load older messages: %w", msg.Done.Err)
			}
			if m.sub == nil {
				cmds = append(cmds, m.rebuild())
			} else {
				m.syncLastPage()
			}
		}
		return m.finish(cmds...)
	case autoScrollMsg:
		chatlist.ScrollToNewest(clockedHost{vp: &m.viewport, clock: m.clock}, m.cfg.Animation.AutoScroll(), animation.EaseInQuad)
		return m.finish(cmds...)
	case spinner.TickMsg:
		if !m.pager.State().Loading && m.pager.Indicator() == 0 {
			return m.finish(cmds...)
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		m.refresh()
		cmds = append(cmds, cmd)
		return m.finish(cmds...)
	case tea.MouseMsg:
		cmds = append(cmds, m.viewport.HandleUpdate(msg), m.afterScroll())
		return m.finish(cmds...)
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			cmds = append(cmds, cmd)
			return m.finish(cmds...)
		}
	}

	if !m.textarea.Focused() {
		if _, ok := msg.(tea.KeyMsg); ok {
			cmds = append(cmds, m.textarea.Focus())
		}
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return m.finish(cmds...)
}

func (m *Model) finish(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	if !m.disposed {
		cmds = append(cmds, m.scheduleFrame())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit(), true
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return nil, true
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.PageUp()
		return m.afterScroll(), true
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.PageDown()
		return m.afterScroll(), true
	case key.Matches(msg, m.keys.LineUp):
		m.viewport.ScrollUp(1)
		return m.afterScroll(), true
	case key.Matches(msg, m.keys.LineDown):
		m.viewport.ScrollDown(1)
		return m.afterScroll(), true
	case key.Matches(msg, m.keys.Newest):
		m.showHelp = false
		chatlist.ScrollToNewest(clockedHost{vp: &m.viewport, clock: m.clock}, m.cfg.Animation.AutoScroll(), animation.EaseInQuad)
		return m.textarea.Focus(), true
	case key.Matches(msg, m.keys.Prev) && m.textarea.LineCount() <= 1:
		if text, ok := m.history.Prev(m.textarea.Value()); ok {
			m.textarea.SetValue(text)
		}
		return nil, true
	case key.Matches(msg, m.keys.Next) && m.textarea.LineCount() <= 1 && m.history.Browsing():
		if text, ok := m.history.Next(); ok {
			m.textarea.SetValue(text)
		}
		return nil, true
	case key.Matches(msg, m.keys.Complete):
		m.completeCommand()
		return nil, true
	case key.Matches(msg, m.keys.Send):
		input := strings.TrimSpace(m.textarea.Value())
		m.textarea.Reset()
		if input == "" {
			return nil, true
		}
		if strings.HasPrefix(input, "/") {
			return m.handleSlash(input), true
		}
		return m.send(input), true
	}
	return nil, false
}

// afterScroll 在用户滚动后执行：按配置收起输入焦点并检查分页。
func (m *Model) afterScroll() tea.Cmd {
	if m.cfg.KeyboardDismissBehavior == "on_drag" {
		m.textarea.Blur()
	}
	return m.checkPagination()
}

func (m *Model) send(text string) tea.Cmd {
	if m.store == nil {
		m.err = errors.New("no message store configured")
		return nil
	}
	msg, err := m.store.Append(m.ctx, m.user, text)
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.status = ""
	m.history.Add(text)
	m.log.WithField("id", msg.ID).Debug("sent message")
	if m.sub == nil {
		return m.rebuild()
	}
	return nil
}

// rebuild 从存储重新组合条目并交给列表协调。
func (m *Model) rebuild() tea.Cmd {
	if m.store == nil {
		return nil
	}
	items := chat.BuildItems(m.store.Messages(), m.loc)
	res, err := m.list.Update(items)
	if err != nil {
		m.err = err
		m.log.WithError(err).Error("reconcile list")
	}
	m.syncLastPage()

	keep := make(map[chat.Key]struct{}, len(items))
	for _, v := range m.list.Visible() {
		keep[v.Key] = struct{}{}
	}
	m.renderer.Prune(keep)
	m.refresh()

	if !res.AutoScroll {
		return nil
	}
	return tea.Tick(m.cfg.Animation.AutoScrollDelay(), func(time.Time) tea.Msg { return autoScrollMsg{} })
}

func (m *Model) syncLastPage() {
	m.pager.SetLastPage(m.cfg.LastPage() || m.store == nil || m.store.LastPage())
}

// checkPagination 把当前滚动位置交给分页控制器，触发时在事件循环外拉取下一页。
func (m *Model) checkPagination() tea.Cmd {
	t := pagination.Telemetry{
		Offset:    m.viewport.CurrentScrollOffset(),
		Extent:    float64(m.viewport.Height),
		MaxExtent: float64(m.viewport.MaxOffset()),
	}
	job, ok := m.pager.OnScroll(t, chat.MessageCount(m.list.Items()))
	if !ok {
		return nil
	}
	m.refresh()
	ctx := m.ctx
	return tea.Batch(
		func() tea.Msg { return pageDoneMsg{Done: job.Run(ctx)} },
		m.spin.Tick,
	)
}

func (m *Model) scheduleFrame() tea.Cmd {
	if m.framePending {
		return nil
	}
	if !m.list.Animating() && !m.pager.IndicatorAnimating() && !m.viewport.Scrolling() {
		return nil
	}
	m.framePending = true
	return tea.Tick(m.cfg.Animation.Frame(), func(t time.Time) tea.Msg { return frameMsg(t) })
}

// refresh 重新排版可见槽位并写入视口。
func (m *Model) refresh() {
	lines := render.Compose(m.list.Visible(), m.renderer, render.Loading{
		Presence: m.pager.Indicator(),
		Glyph:    m.spin.View(),
		Style:    m.renderer.Theme.Loading,
	})
	m.viewport.SetLines(render.LinesToStrings(lines))
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	composerHeight := m.textarea.Height() + 1 // 分隔线
	headerHeight := 1
	statusHeight := 1
	viewHeight := max(3, height-composerHeight-headerHeight-statusHeight)
	m.textarea.SetWidth(width)
	m.renderer.SetWidth(width)
	m.viewport.Resize(width, viewHeight)
	m.refresh()
}

func (m *Model) quit() tea.Cmd {
	m.dispose()
	return tea.Quit
}

func (m *Model) dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	m.cancel()
	m.list.Dispose()
	m.pager.Dispose()
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	modalStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7D56F4")).Padding(0, 1)
)

func (m *Model) View() string {
	if m.disposed {
		return ""
	}
	header := headerStyle.Render("chatlist") + metaStyle.Render(" · "+m.user.Name+" · "+m.countLabel())
	status := metaStyle.Render(m.status)
	if m.err != nil {
		status = errorStyle.Render(m.err.Error())
	}
	rule := ruleStyle.Render(strings.Repeat("─", max(1, m.width)))
	content := lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), status, rule, m.textarea.View())
	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left, content, modalStyle.Render(m.keys.helpText()))
	}
	return content
}

func (m *Model) countLabel() string {
	shown := chat.MessageCount(m.list.Items())
	label := fmt.Sprintf("%d messages", shown)
	if m.store != nil && !m.pager.State().LastPage {
		label = fmt.Sprintf("%d of %d messages", shown, m.store.Len())
	}
	return label
}
