// Package app hosts the root Bubble Tea model.
package app

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/aginor/exphil/internal/router"
	"github.com/aginor/exphil/internal/screen"
	"github.com/aginor/exphil/internal/screens/quiz"
	"github.com/aginor/exphil/internal/screens/start"
	"github.com/aginor/exphil/internal/session"
	"github.com/aginor/exphil/internal/ui/layout"
)

// Options configures the program.
type Options struct {
	Deps start.Deps

	// Direct skips the start menu and opens the quiz screen in Mode for
	// Deps.Category. Esc still returns to the menu.
	Direct bool
	Mode   session.Mode

	Logger *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	initCmd tea.Cmd
	width   int
	height  int
}

// newAppModel creates a new AppModel rooted at the start screen.
func newAppModel(opts Options) AppModel {
	root := start.New(opts.Deps)
	r := router.New(root)
	initCmd := root.Init()
	if opts.Direct {
		initCmd = tea.Batch(initCmd, r.Push(quiz.New(opts.Deps.Quiz, opts.Mode, opts.Deps.Category)))
	}
	return AppModel{router: r, initCmd: initCmd}
}

func (m AppModel) Init() tea.Cmd {
	return m.initCmd
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.PopToRoot()
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var title, status string
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if kp, ok := active.(screen.KeyHintProvider); ok {
		return kp.KeyHints()
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Naviger"},
		{Key: "Enter", Description: "Velg"},
	}
	if m.router.Depth() > 1 {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Tilbake"})
	}
	return hints
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := newAppModel(opts)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	m.router.PopToRoot()

	if errors.Is(err, tea.ErrInterrupted) || errors.Is(err, context.Canceled) {
		logger.Info("program interrupted")
		return nil
	}
	if err != nil {
		logger.Error("program failed", zap.Error(err))
		return fmt.Errorf("running program: %w", err)
	}
	logger.Info("program exited")
	return nil
}
