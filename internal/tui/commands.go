package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// requestTimeout bounds a single poll so a hung request cannot freeze
// the watcher.
const requestTimeout = 30 * time.Second

func fetchAgentCmd(ctx context.Context, fetcher Fetcher, id string, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		agent, err := fetcher.GetAgent(ctx, id)
		if err != nil {
			return errMsg{Err: err, Gen: gen}
		}
		return agentMsg{Agent: agent, At: time.Now(), Gen: gen}
	}
}

func fetchConversationCmd(ctx context.Context, fetcher Fetcher, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		conv, err := fetcher.GetConversation(ctx, id)
		if err != nil {
			return errMsg{Err: err, Conversation: true}
		}
		return conversationMsg{Conversation: conv}
	}
}

func pollTick(d time.Duration, gen int) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return pollMsg{Gen: gen}
	})
}
