package tui

import (
	"time"

	"github.com/watchfire-io/cursoragents/internal/models"
)

// agentMsg carries a fresh agent snapshot. Gen is the poll chain that
// requested it.
type agentMsg struct {
	Agent *models.Agent
	At    time.Time
	Gen   int
}

// conversationMsg carries the agent's conversation.
type conversationMsg struct {
	Conversation *models.Conversation
}

// errMsg carries a failed request. Conversation errors never schedule
// a poll.
type errMsg struct {
	Err          error
	Gen          int
	Conversation bool
}

// pollMsg triggers the next status request of chain Gen.
type pollMsg struct {
	Gen int
}
