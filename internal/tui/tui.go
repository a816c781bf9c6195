// Package tui implements the interactive agent watcher.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/watchfire-io/cursoragents/internal/models"
)

// DefaultInterval is the time between status polls.
const DefaultInterval = 5 * time.Second

// Fetcher is the subset of the API client the watcher needs.
type Fetcher interface {
	GetAgent(ctx context.Context, id string) (*models.Agent, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
}

// Options configure a watch session.
type Options struct {
	AgentID  string
	Interval time.Duration

	// KeepOpen keeps the program running after the agent reaches a
	// terminal status.
	KeepOpen bool

	// Markdown renders assistant text for the given width. May be nil.
	Markdown func(text string, width int) string
}

// Run polls the agent until it reaches a terminal status or the user
// quits, and returns the last snapshot seen.
func Run(ctx context.Context, fetcher Fetcher, opts Options) (*models.Agent, error) {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	p := tea.NewProgram(NewModel(ctx, fetcher, opts), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, nil
	}
	if m.agent == nil && m.err != nil {
		return nil, m.err
	}
	return m.agent, nil
}
