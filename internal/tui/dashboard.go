package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JPM1118/animback/internal/frames"
	"github.com/JPM1118/animback/internal/notify"
	"github.com/JPM1118/animback/internal/player"
)

const (
	minWidth    = 60
	minHeight   = 14
	labelWidth  = 8
	bodyLines   = 8 // header through status line
	footerLines = 2 // notification bar + key help
)

// Engine is the playback engine driven by the dashboard.
type Engine interface {
	Load(frames.Set) error
	SetFrameRate(fps int) error
	Start() error
	Stop()
	Clear() error
	Refresh() error
	Status() player.Status
	Snapshot() player.Snapshot
}

// Options configures a Dashboard.
type Options struct {
	// Folder is loaded when the dashboard starts, if not empty.
	Folder string
	// Backend names the desktop binding for display.
	Backend string
	// History is the number of statuses kept for the notification bar.
	History int
	// Bell rings on error statuses. Nil disables it.
	Bell *notify.Bell
	// OnLoad is called with the absolute folder path after a successful
	// load.
	OnLoad func(dir string)
}

// Messages

type statusMsg struct {
	status player.Status
	ok     bool
}

type loadedMsg struct {
	dir string
	err error
}

type opDoneMsg struct {
	err error
}

type tickMsg time.Time

// Dashboard is the main Bubble Tea model.
type Dashboard struct {
	eng     Engine
	updates <-chan player.Status
	opts    Options
	bar     *notify.Bar
	now     func() time.Time

	snap    player.Snapshot
	last    player.Status
	path    string // path field contents
	editing bool
	loading bool
	folder  string // last successfully loaded folder
	width   int
	height  int
}

// NewDashboard creates a dashboard controlling eng. Statuses are read
// from updates, which should be a subscription on eng.
func NewDashboard(eng Engine, updates <-chan player.Status, opts Options) Dashboard {
	if opts.History < 1 {
		opts.History = 20
	}
	return Dashboard{
		eng:     eng,
		updates: updates,
		opts:    opts,
		bar:     notify.NewBar(opts.History),
		now:     time.Now,
		snap:    eng.Snapshot(),
		last:    eng.Status(),
		path:    opts.Folder,
	}
}

// Init starts listening for engine statuses and loads the initial folder.
func (d Dashboard) Init() tea.Cmd {
	cmds := []tea.Cmd{d.waitForStatus(), tick()}
	if d.path != "" {
		cmds = append(cmds, d.load(d.path))
	}
	return tea.Batch(cmds...)
}

func (d Dashboard) waitForStatus() tea.Cmd {
	return func() tea.Msg {
		st, ok := <-d.updates
		return statusMsg{status: st, ok: ok}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (d Dashboard) load(path string) tea.Cmd {
	eng := d.eng
	return func() tea.Msg {
		set, err := frames.Scan(path)
		if err != nil {
			return loadedMsg{err: err}
		}
		err = eng.Load(set)
		return loadedMsg{dir: filepath.Dir(set[0].Path), err: err}
	}
}

func (d Dashboard) do(op func() error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: op()}
	}
}

// Update handles messages.
func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if d.editing {
			return d.handleEditKey(msg)
		}
		return d.handleKey(msg)

	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil

	case statusMsg:
		if !msg.ok {
			return d, nil
		}
		d.observe(msg.status)
		return d, d.waitForStatus()

	case loadedMsg:
		d.loading = false
		d.snap = d.eng.Snapshot()
		if msg.err != nil {
			// Player errors arrive as statuses; scan errors do not.
			if isScanError(msg.err) {
				d.observe(player.Status{Kind: player.KindError, Err: msg.err, Time: d.now()})
			}
			return d, nil
		}
		d.folder = msg.dir
		if d.opts.OnLoad != nil {
			d.opts.OnLoad(msg.dir)
		}
		return d, nil

	case opDoneMsg:
		d.snap = d.eng.Snapshot()
		return d, nil

	case tickMsg:
		return d, tick()
	}

	return d, nil
}

// observe records a status in the history and rings the bell for errors.
func (d *Dashboard) observe(st player.Status) {
	d.last = st
	d.bar.Push(st)
	d.snap = d.eng.Snapshot()
	if d.opts.Bell != nil {
		d.opts.Bell.Ring(st, d.now())
	}
}

func (d Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		d.eng.Stop()
		return d, tea.Quit

	case "/":
		d.editing = true
		return d, nil

	case "enter":
		if d.path == "" {
			return d, nil
		}
		d.loading = true
		return d, d.load(d.path)

	case "+", "=":
		fps := d.snap.FPS + 1
		if fps > player.MaxFPS {
			return d, nil
		}
		d.snap.FPS = fps
		return d, d.do(func() error { return d.eng.SetFrameRate(fps) })

	case "-", "_":
		fps := d.snap.FPS - 1
		if fps < player.MinFPS {
			return d, nil
		}
		d.snap.FPS = fps
		return d, d.do(func() error { return d.eng.SetFrameRate(fps) })

	case " ":
		switch {
		case d.snap.Playing:
			d.snap.Playing = false
			eng := d.eng
			return d, d.do(func() error {
				eng.Stop()
				return nil
			})
		case d.snap.Frames > 0:
			d.snap.Playing = true
			return d, d.do(d.eng.Start)
		}
		return d, nil

	case "c":
		d.path = ""
		return d, d.do(d.eng.Clear)

	case "r":
		return d, d.do(d.eng.Refresh)
	}

	return d, nil
}

func (d Dashboard) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		d.eng.Stop()
		return d, tea.Quit

	case tea.KeyEsc:
		d.editing = false
		return d, nil

	case tea.KeyEnter:
		d.editing = false
		if d.path == "" {
			return d, nil
		}
		d.loading = true
		return d, d.load(d.path)

	case tea.KeyBackspace:
		if r := []rune(d.path); len(r) > 0 {
			d.path = string(r[:len(r)-1])
		}
		return d, nil

	case tea.KeyCtrlU:
		d.path = ""
		return d, nil

	case tea.KeyRunes, tea.KeySpace:
		d.path += string(msg.Runes)
		return d, nil
	}
	return d, nil
}

// View renders the dashboard.
func (d Dashboard) View() string {
	if d.width < minWidth || d.height < minHeight {
		return fmt.Sprintf("\n  Terminal too small (need %dx%d, got %dx%d)\n", minWidth, minHeight, d.width, d.height)
	}

	var b strings.Builder

	b.WriteString(d.renderHeader())
	b.WriteString("\n")
	b.WriteString(d.renderSubheader())
	b.WriteString("\n\n")

	b.WriteString(d.renderPathField())
	b.WriteString("\n")
	b.WriteString(d.renderProgress())
	b.WriteString("\n")
	b.WriteString(d.renderSlider())
	b.WriteString("\n\n")

	b.WriteString(d.renderStatusLine())
	b.WriteString("\n")

	b.WriteString(padLines("", d.height-bodyLines-footerLines))

	b.WriteString(d.renderNotificationBar())
	b.WriteString("\n")
	b.WriteString(d.renderHelp())

	return b.String()
}

func (d Dashboard) renderHeader() string {
	title := headerStyle.Render("animback")

	right := ""
	if n := len(d.bar.Errors()); n > 0 {
		right = badgeStyle.Render(fmt.Sprintf("[%d errors]", n))
	}

	gap := d.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return title + strings.Repeat(" ", gap) + right
}

func (d Dashboard) renderSubheader() string {
	state := "Idle"
	switch {
	case d.loading:
		state = "Loading..."
	case d.snap.Playing:
		state = "Playing"
	case d.snap.Frames > 0:
		state = "Stopped"
	}
	text := stateStyle(state).Render(state)
	if d.opts.Backend != "" {
		text += subheaderStyle.Render("  backend: " + d.opts.Backend)
	}
	return text
}

func (d Dashboard) renderPathField() string {
	label := labelStyle.Render(padRight("Folder", labelWidth))
	value := d.path
	if d.editing {
		return label + editStyle.Render(truncateLeft(value, d.width-labelWidth-2)+"█")
	}
	if value == "" {
		return label + subheaderStyle.Render("press / to enter a folder of numbered frames")
	}
	return label + truncateLeft(value, d.width-labelWidth-1)
}

func (d Dashboard) renderProgress() string {
	label := labelStyle.Render(padRight("Frames", labelWidth))
	if d.snap.Frames == 0 {
		return label + subheaderStyle.Render("none loaded")
	}
	current := 0
	if d.last.Kind == player.KindFrame {
		current = d.last.Current
	}
	return label + fmt.Sprintf("%d/%d", current, d.snap.Frames)
}

// renderSlider draws one cell per supported frame rate.
func (d Dashboard) renderSlider() string {
	label := labelStyle.Render(padRight("FPS", labelWidth))
	cells := player.MaxFPS - player.MinFPS + 1
	filled := d.snap.FPS - player.MinFPS + 1
	filled = max(0, min(filled, cells))
	bar := sliderFillStyle.Render(strings.Repeat("━", filled)) +
		sliderEmptyStyle.Render(strings.Repeat("─", cells-filled))
	return label + bar + fmt.Sprintf(" %2d", d.snap.FPS)
}

func (d Dashboard) renderStatusLine() string {
	text := truncate(d.last.String(), d.width-2)
	return statusStyle(d.last.Kind).Render(text)
}

func (d Dashboard) renderNotificationBar() string {
	return notificationBarStyle.Render("  " + d.bar.Render(d.width-2, d.now()))
}

func (d Dashboard) renderHelp() string {
	if d.editing {
		return statusBarStyle.Render("  enter:load  esc:cancel  ctrl+u:erase")
	}
	keys := []string{"/:path"}
	switch {
	case d.snap.Playing:
		keys = append(keys, "space:stop")
	case d.snap.Frames > 0:
		keys = append(keys, "space:start")
	}
	keys = append(keys, "+/-:fps", "c:clear", "r:refresh", "q:quit")
	return statusBarStyle.Render("  " + strings.Join(keys, "  "))
}

// Helpers

func isScanError(err error) bool {
	return errors.Is(err, frames.ErrInvalidPath) || errors.Is(err, frames.ErrNoFramesFound)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(r[:max(maxLen, 0)])
	}
	return string(r[:maxLen-1]) + "…"
}

// truncateLeft keeps the end of s, which is the useful part of a path.
func truncateLeft(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(r[len(r)-max(maxLen, 0):])
	}
	return "…" + string(r[len(r)-maxLen+1:])
}

func padLines(content string, height int) string {
	lines := strings.Count(content, "\n")
	padding := height - lines
	if padding > 0 {
		content += strings.Repeat("\n", padding)
	}
	return content
}
