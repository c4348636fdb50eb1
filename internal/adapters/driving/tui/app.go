// Package tui provides an interactive question-and-answer terminal UI
// over a retrieval session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
)

// Styles.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sourceStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244"))
	contentStyle = lipgloss.NewStyle().PaddingLeft(2)
)

// bundleMsg carries an answered question back into the update loop.
type bundleMsg struct {
	bundle *domain.ContextBundle
	err    error
}

// App is the bubbletea model for the ask loop.
type App struct {
	input     textinput.Model
	retrieval driving.RetrievalService
	ctx       context.Context

	bundle  *domain.ContextBundle
	err     error
	asking  bool
	width   int
	session string
}

// NewApp creates the TUI over a retrieval service.
func NewApp(retrieval driving.RetrievalService, sessionID string) *App {
	input := textinput.New()
	input.Placeholder = "Ask a question about your files..."
	input.Focus()
	input.CharLimit = 512

	return &App{
		input:     input,
		retrieval: retrieval,
		ctx:       context.Background(),
		width:     80,
		session:   sessionID,
	}
}

// WithContext sets the context used for retrieval calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.input.Width = msg.Width - 4
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			question := strings.TrimSpace(a.input.Value())
			if question == "" || a.asking {
				return a, nil
			}
			a.asking = true
			a.err = nil
			return a, a.ask(question)
		}

	case bundleMsg:
		a.asking = false
		a.bundle = msg.bundle
		a.err = msg.err
		a.input.SetValue("")
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// ask runs the retrieval call off the update loop.
func (a *App) ask(question string) tea.Cmd {
	return func() tea.Msg {
		bundle, err := a.retrieval.GetContext(a.ctx, question, nil)
		return bundleMsg{bundle: bundle, err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Retrieva - session %s", a.session)))
	b.WriteString("\n\n")
	b.WriteString(a.input.View())
	b.WriteString("\n\n")

	switch {
	case a.asking:
		b.WriteString(noticeStyle.Render("Searching..."))
	case a.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", a.err)))
	case a.bundle != nil:
		b.WriteString(a.renderBundle())
	default:
		b.WriteString(noticeStyle.Render("Enter to search, Esc to quit."))
	}

	b.WriteString("\n")
	return b.String()
}

func (a *App) renderBundle() string {
	if a.bundle.IsEmpty() {
		return noticeStyle.Render("No relevant data found.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.bundle.Question))
	b.WriteString("\n")
	b.WriteString(scoreStyle.Render(fmt.Sprintf("%d chunks from %d files, avg score %.3f",
		a.bundle.ChunkCount, a.bundle.Sources, a.bundle.AverageScore)))
	b.WriteString("\n\n")

	for i, r := range a.bundle.Results {
		b.WriteString(sourceStyle.Render(fmt.Sprintf("%s (%s)", r.File, r.Chunk.Type)))
		b.WriteString(scoreStyle.Render(fmt.Sprintf("  %.3f", r.Score)))
		b.WriteString("\n")
		b.WriteString(contentStyle.Width(a.width - 4).Render(r.Chunk.Content))
		if i < len(a.bundle.Results)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
