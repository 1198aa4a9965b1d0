// ABOUTME: Full-screen bubbletea viewer for browsing APOD entries day by day.
// ABOUTME: Owns only display state; every load goes through the resolver, newest request wins.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/harper/apod/internal/content"
	"github.com/harper/apod/internal/models"
	"github.com/harper/apod/internal/resolve"
	"github.com/harper/apod/internal/timeutil"
)

// Resolver is the part of resolve.Resolver the viewer needs.
type Resolver interface {
	Resolve(ctx context.Context, date time.Time, mode resolve.Mode) (resolve.Result, error)
	Today() time.Time
}

// resolvedMsg carries a finished resolution back to Update, tagged with the
// ID of the request that produced it.
type resolvedMsg struct {
	id     string
	result resolve.Result
	err    error
}

type request struct {
	date time.Time
	mode resolve.Mode
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dialogStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("99")).Padding(1, 2)
	errBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("196")).Padding(1, 2)
)

// ViewerModel is the bubbletea model behind `apod view`.
type ViewerModel struct {
	ctx      context.Context
	resolver Resolver
	render   func(markdown string, width int) (string, error)
	open     func(url string) error

	pending string // ID of the newest request; older results are dropped
	last    request
	initCmd tea.Cmd

	loading    bool
	confirming bool
	record     *models.Record
	displayed  time.Time
	notice     string
	errMsg     string
	status     string

	spinner  spinner.Model
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewViewerModel creates a viewer that starts by loading the most recent entry.
// open is called with a media URL when the user presses "o"; it may be nil.
func NewViewerModel(ctx context.Context, r Resolver, open func(string) error) ViewerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := ViewerModel{
		ctx:      ctx,
		resolver: r,
		render:   renderMarkdown,
		open:     open,
		spinner:  s,
		viewport: viewport.New(80, 20),
	}
	var cmd tea.Cmd
	m, cmd = m.request(time.Time{}, resolve.ModeInitial)
	m.initCmd = cmd
	return m
}

func renderMarkdown(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}

// Init implements tea.Model.
func (m ViewerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.initCmd)
}

// request starts a resolution and makes it the one whose result is shown.
func (m ViewerModel) request(date time.Time, mode resolve.Mode) (ViewerModel, tea.Cmd) {
	id := uuid.NewString()
	m.pending = id
	m.last = request{date: date, mode: mode}
	m.loading = true
	m.errMsg = ""
	m.status = ""

	ctx, r := m.ctx, m.resolver
	return m, func() tea.Msg {
		res, err := r.Resolve(ctx, date, mode)
		return resolvedMsg{id: id, result: res, err: err}
	}
}

// Update implements tea.Model.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-6, 3)
		m.ready = true
		m.refreshBody()
		return m, nil

	case resolvedMsg:
		if msg.id != m.pending {
			return m, nil
		}
		m.loading = false
		m.applyResult(msg.result, msg.err)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m ViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.confirming {
		switch msg.String() {
		case "y", "Y", "enter":
			m.confirming = false
			var cmd tea.Cmd
			m, cmd = m.request(m.resolver.Today(), resolve.ModeExplicit)
			return m, cmd
		case "n", "N", "esc":
			m.confirming = false
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "left", "h":
		if m.displayed.IsZero() {
			return m, nil
		}
		prev := timeutil.PreviousDay(m.displayed)
		if !timeutil.InRange(prev, m.resolver.Today()) {
			return m, nil
		}
		var cmd tea.Cmd
		m, cmd = m.request(prev, resolve.ModeExplicit)
		return m, cmd
	case "right", "l":
		if m.displayed.IsZero() {
			return m, nil
		}
		next, ok := timeutil.NextDay(m.displayed, m.resolver.Today())
		if !ok {
			return m, nil
		}
		var cmd tea.Cmd
		m, cmd = m.request(next, resolve.ModeExplicit)
		return m, cmd
	case "t":
		var cmd tea.Cmd
		m, cmd = m.request(m.resolver.Today(), resolve.ModeTodayCheck)
		return m, cmd
	case "r":
		var cmd tea.Cmd
		m, cmd = m.request(m.last.date, m.last.mode)
		return m, cmd
	case "o":
		if m.record != nil && m.open != nil {
			if err := m.open(m.record.BestURL(true)); err != nil {
				m.status = fmt.Sprintf("could not open browser: %v", err)
			} else {
				m.status = "opened in browser"
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ViewerModel) applyResult(res resolve.Result, err error) {
	if err != nil {
		if errors.Is(err, resolve.ErrInvalidDate) {
			m.errMsg = "That date is outside the APOD archive."
		} else {
			m.errMsg = err.Error()
		}
		return
	}

	switch res.Status {
	case resolve.StatusResolved:
		m.record = res.Record
		m.displayed = res.EffectiveDate
		m.notice = content.Notice(res.RequestedDate, res.EffectiveDate, m.resolver.Today())
		m.errMsg = ""
		m.refreshBody()
		m.viewport.GotoTop()
	case resolve.StatusNeedsConfirmation:
		m.confirming = true
	case resolve.StatusUnresolved:
		m.errMsg = UnresolvedMessage(res)
	}
}

func (m *ViewerModel) refreshBody() {
	if m.record == nil {
		return
	}
	doc := content.Document(m.record)
	width := m.viewport.Width - 2
	if width < 20 {
		width = 20
	}
	rendered, err := m.render(doc, width)
	if err != nil {
		rendered = doc
	}
	m.viewport.SetContent(rendered)
}

// UnresolvedMessage is the user-facing text for an unresolved result.
func UnresolvedMessage(res resolve.Result) string {
	switch res.Reason {
	case resolve.ReasonExhausted:
		return "Unable to load APOD. Please try a different date."
	default:
		if res.Err != nil {
			return fmt.Sprintf("Failed to load APOD: %v", res.Err)
		}
		return "Failed to load APOD."
	}
}

// View implements tea.Model.
func (m ViewerModel) View() string {
	var b strings.Builder

	title := "Astronomy Picture of the Day"
	if !m.displayed.IsZero() {
		title += " · " + timeutil.FormatDisplay(m.displayed)
	}
	b.WriteString(headerStyle.Render(title))
	if m.loading {
		b.WriteString("  " + m.spinner.View())
	}
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
	}
	b.WriteString("\n")

	switch {
	case m.confirming:
		b.WriteString(dialogStyle.Render("Today's APOD hasn't been published yet.\nView the latest available picture instead? (y/n)"))
		b.WriteString("\n")
	case m.errMsg != "":
		b.WriteString(errBoxStyle.Render(m.errMsg + "\n\nPress r to try again."))
		b.WriteString("\n")
	case m.record == nil:
		b.WriteString("Loading Astronomy Picture...\n")
	default:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(noticeStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))

	return b.String()
}

func (m ViewerModel) helpLine() string {
	parts := []string{"←/h prev"}
	if !m.displayed.IsZero() {
		if _, ok := timeutil.NextDay(m.displayed, m.resolver.Today()); ok {
			parts = append(parts, "→/l next")
		}
	}
	parts = append(parts, "t today", "r retry", "o open", "↑/↓ scroll", "q quit")
	return strings.Join(parts, " • ")
}

// Displayed returns the effective date currently on screen.
func (m ViewerModel) Displayed() time.Time {
	return m.displayed
}
