// Package models contains the wire types of the Cloud Agents API.
package models

import (
	"strings"
	"time"
)

// AgentStatus is the server-side lifecycle state of an agent.
// Values are opaque to this client: unknown values are kept as-is.
type AgentStatus string

const (
	AgentStatusCreating AgentStatus = "CREATING"
	AgentStatusRunning  AgentStatus = "RUNNING"
	AgentStatusFinished AgentStatus = "FINISHED"
	AgentStatusFailed   AgentStatus = "FAILED"
	AgentStatusStopped  AgentStatus = "STOPPED"
)

// AgentStatuses lists the documented statuses in lifecycle order.
var AgentStatuses = []AgentStatus{
	AgentStatusCreating,
	AgentStatusRunning,
	AgentStatusFinished,
	AgentStatusFailed,
	AgentStatusStopped,
}

// ParseAgentStatus returns the documented status matching s (case-insensitive).
func ParseAgentStatus(s string) (AgentStatus, bool) {
	for _, st := range AgentStatuses {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further transition happens without user action.
// STOPPED is included: only a follow-up restarts a stopped agent.
func (s AgentStatus) IsTerminal() bool {
	return s == AgentStatusFinished || s == AgentStatusFailed || s == AgentStatusStopped
}

// Source identifies what the agent works on.
type Source struct {
	Repository string `json:"repository,omitempty"`
	Ref        string `json:"ref,omitempty"`
	PRURL      string `json:"prUrl,omitempty"`
}

// Target describes where the agent's work lands.
type Target struct {
	BranchName            string `json:"branchName,omitempty"`
	URL                   string `json:"url,omitempty"`
	PRURL                 string `json:"prUrl,omitempty"`
	AutoCreatePR          bool   `json:"autoCreatePr,omitempty"`
	AutoBranch            *bool  `json:"autoBranch,omitempty"`
	OpenAsCursorGithubApp bool   `json:"openAsCursorGithubApp,omitempty"`
	SkipReviewerRequest   bool   `json:"skipReviewerRequest,omitempty"`
}

// Agent is a snapshot of a remote agent as returned by the API.
type Agent struct {
	ID        string      `json:"id"`
	Name      string      `json:"name,omitempty"`
	Status    AgentStatus `json:"status"`
	Source    *Source     `json:"source,omitempty"`
	Target    *Target     `json:"target,omitempty"`
	Summary   string      `json:"summary,omitempty"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
}

// BranchName returns the target branch or "" when the agent has no target.
func (a *Agent) BranchName() string {
	if a.Target == nil {
		return ""
	}
	return a.Target.BranchName
}

// MaxListLimit is the largest page size GET /v0/agents accepts.
const MaxListLimit = 100

// ListResponse is one page of GET /v0/agents.
type ListResponse struct {
	Agents     []Agent `json:"agents"`
	NextCursor string  `json:"nextCursor,omitempty"`
}

// IDResponse acknowledges follow-up, stop and delete requests.
type IDResponse struct {
	ID string `json:"id"`
}
