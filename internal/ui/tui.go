// Package ui provides the interactive terminal list.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"todolist/internal/config"
	"todolist/internal/logging"
	"todolist/internal/output"
	"todolist/internal/service"
	"todolist/internal/todolist"
)

// DebugLogFile is written in the config dir when --debug is set.
const DebugLogFile = "debug.log"

// alertBuffer bounds alerts queued before the UI reads them.
const alertBuffer = 32

// ErrNotTTY is returned by Run when the output is not a terminal.
var ErrNotTTY = errors.New("tui requires a terminal")

// Run starts the TUI against svc on out and blocks until the user quits.
// Requests still in flight are allowed to finish before Run returns.
func Run(ctx context.Context, cfg *config.Config, svc service.Service, out io.Writer) error {
	if !IsTTY(out) {
		return ErrNotTTY
	}

	logger, closeLog, err := newTUILogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	// Anything writing to the terminal would corrupt the screen.
	if ls, ok := svc.(loggerSetter); ok {
		ls.SetLogger(logger)
	}

	alerts := make(chan string, alertBuffer)
	list := todolist.New(svc, todolist.Options{
		Logger:    logger,
		Alerter:   chanAlerter(alerts),
		Reconcile: cfg.Reconcile,
	})

	m := newModel(ctx, list, alerts)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))
	_, err = program.Run()
	list.Wait()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type loggerSetter interface {
	SetLogger(*log.Logger)
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func newTUILogger(cfg *config.Config) (*log.Logger, func(), error) {
	if !cfg.Debug {
		return logging.Discard(), func() {}, nil
	}
	if err := os.MkdirAll(cfg.Dir, 0700); err != nil {
		return nil, nil, fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(cfg.Dir, DebugLogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}
	logger := logging.NewFromConfig(f, "debug", "logfmt")
	return logger, func() { f.Close() }, nil
}

// chanAlerter queues alerts for the UI loop. It never blocks; alerts beyond
// the buffer are dropped.
type chanAlerter chan string

func (a chanAlerter) Alert(msg string) {
	select {
	case a <- msg:
	default:
	}
}

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

type loadedMsg struct{ err error }

type addedMsg struct{ err error }

type outcomeMsg struct{ outcome todolist.Outcome }

type alertMsg string

type model struct {
	ctx     context.Context
	list    *todolist.Client
	alerts  <-chan string
	input   textinput.Model
	focus   focusArea
	cursor  int
	loading bool
	loadErr error
	adding  bool
	alert   string
	width   int
}

func newModel(ctx context.Context, list *todolist.Client, alerts <-chan string) *model {
	in := textinput.New()
	in.Placeholder = "Add a new task"
	in.Prompt = "› "
	in.CharLimit = 500
	in.Focus()

	return &model{
		ctx:     ctx,
		list:    list,
		alerts:  alerts,
		input:   in,
		loading: true,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCmd(), waitForAlert(m.alerts))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loadedMsg:
		m.loading = false
		m.loadErr = msg.err
		m.clampCursor()
		return m, nil

	case addedMsg:
		m.adding = false
		if msg.err == nil {
			m.cursor = len(m.list.Snapshot()) - 1
		}
		return m, nil

	case outcomeMsg:
		m.clampCursor()
		return m, nil

	case alertMsg:
		m.alert = string(msg)
		return m, waitForAlert(m.alerts)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.alert != "" {
		// Any key dismisses the alert; the key itself still applies.
		m.alert = ""
	}
	if key == "tab" || key == "shift+tab" {
		return m, m.toggleFocus()
	}

	if m.focus == focusInput {
		switch key {
		case "enter":
			return m, m.submit()
		case "down", "esc":
			return m, m.toggleFocus()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		} else {
			return m, m.toggleFocus()
		}
	case "down", "j":
		if m.cursor < len(m.list.Snapshot())-1 {
			m.cursor++
		}
	case " ", "space", "d", "enter":
		return m, m.toggleSelected()
	case "x", "delete", "backspace":
		return m, m.removeSelected()
	case "r":
		m.loading = true
		return m, m.loadCmd()
	case "a", "i":
		return m, m.toggleFocus()
	}
	return m, nil
}

func (m *model) toggleFocus() tea.Cmd {
	if m.focus == focusInput {
		m.focus = focusList
		m.input.Blur()
		m.clampCursor()
		return nil
	}
	m.focus = focusInput
	return m.input.Focus()
}

// submit sends the input text. The row appears only once the server has
// assigned an id; blank input is rejected by the list with an alert.
func (m *model) submit() tea.Cmd {
	text := m.input.Value()
	if strings.TrimSpace(text) != "" {
		m.input.Reset()
		m.adding = true
	}
	return m.addCmd(text)
}

func (m *model) toggleSelected() tea.Cmd {
	task, ok := m.selected()
	if !ok {
		return nil
	}
	ch, err := m.list.ToggleComplete(m.ctx, task.ID)
	if err != nil {
		m.alert = err.Error()
		return nil
	}
	return waitForOutcome(ch)
}

func (m *model) removeSelected() tea.Cmd {
	task, ok := m.selected()
	if !ok {
		return nil
	}
	ch, err := m.list.RemoveTask(m.ctx, task.ID)
	if err != nil {
		m.alert = err.Error()
		return nil
	}
	m.clampCursor()
	return waitForOutcome(ch)
}

func (m *model) selected() (todolist.Task, bool) {
	tasks := m.list.Snapshot()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return todolist.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *model) clampCursor() {
	n := len(m.list.Snapshot())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.list.LoadAll(m.ctx)}
	}
}

func (m *model) addCmd(text string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.list.AddTask(m.ctx, text)
		return addedMsg{err: err}
	}
}

func waitForOutcome(ch <-chan todolist.Outcome) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{outcome: <-ch}
	}
}

func waitForAlert(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return alertMsg(<-ch)
	}
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("To-Do List"))
	b.WriteString("\n\n")

	box := inputStyle
	if m.focus == focusInput {
		box = focusedInputStyle
	}
	b.WriteString(box.Render(m.input.View()))
	b.WriteString("\n")
	if m.adding {
		b.WriteString(mutedStyle.Render("  saving…"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(mutedStyle.Render("Loading..."))
		b.WriteString("\n")
	case m.loadErr != nil && len(m.list.Snapshot()) == 0:
		b.WriteString(alertStyle.Render("Error fetching todos: " + m.loadErr.Error()))
		b.WriteString("\n")
	default:
		m.writeTasks(&b)
	}

	b.WriteString("\n")
	b.WriteString(output.CountersLine(m.list.Counters()))
	b.WriteString("\n")

	if m.alert != "" {
		b.WriteString("\n")
		b.WriteString(alertStyle.Render("! " + m.alert))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(footerText(m.focus)))
	b.WriteString("\n")
	return b.String()
}

func (m *model) writeTasks(b *strings.Builder) {
	tasks := m.list.Snapshot()
	if len(tasks) == 0 {
		b.WriteString(mutedStyle.Render("No tasks yet."))
		b.WriteString("\n")
		return
	}
	for i, task := range tasks {
		pointer := "  "
		if m.focus == focusList && i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		box := "[ ]"
		text := output.NormalizeText(task.Text)
		if task.Completed {
			box = "[x]"
			text = doneStyle.Render(text)
		}
		b.WriteString(fmt.Sprintf("%s%s %s%s\n", pointer, box, text, stateMarker(task)))
	}
}

func stateMarker(task todolist.Task) string {
	switch {
	case !task.HasID():
		return mutedStyle.Render("  (unsaved)")
	case task.State == todolist.Pending:
		return mutedStyle.Render("  …")
	case task.State == todolist.Failed:
		return alertStyle.Render("  (sync failed)")
	}
	return ""
}

func footerText(focus focusArea) string {
	if focus == focusInput {
		return "enter: add • tab/↓: list • ctrl+c: quit"
	}
	return "space: done • x: remove • r: reload • tab: input • q: quit"
}
