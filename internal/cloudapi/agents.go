package cloudapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/watchfire-io/cursoragents/internal/models"
)

// ListOptions are the query parameters of GET /v0/agents.
type ListOptions struct {
	Limit  int    // 1..100, 0 = server default (20)
	Cursor string // nextCursor from a previous page
	PRURL  string // only agents working on this PR
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Cursor != "" {
		q.Set("cursor", o.Cursor)
	}
	if o.PRURL != "" {
		q.Set("prUrl", o.PRURL)
	}
	return q
}

func agentPath(id string, suffix string) (string, error) {
	if id == "" {
		return "", &models.ValidationError{Field: "agent id", Message: "agent id is required"}
	}
	return "/agents/" + url.PathEscape(id) + suffix, nil
}

// LaunchAgent creates an agent. The request is validated locally first;
// an invalid request is never sent.
func (client *Client) LaunchAgent(ctx context.Context, request *models.LaunchRequest) (*models.Agent, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	var agent models.Agent
	if err := client.do(ctx, http.MethodPost, "/agents", nil, request, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// AddFollowup appends an instruction to an agent, restarting it if stopped.
func (client *Client) AddFollowup(ctx context.Context, id string, request *models.FollowupRequest) (*models.IDResponse, error) {
	path, err := agentPath(id, "/followup")
	if err != nil {
		return nil, err
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	var ack models.IDResponse
	if err := client.do(ctx, http.MethodPost, path, nil, request, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// GetAgent returns the current snapshot of an agent.
func (client *Client) GetAgent(ctx context.Context, id string) (*models.Agent, error) {
	path, err := agentPath(id, "")
	if err != nil {
		return nil, err
	}
	var agent models.Agent
	if err := client.do(ctx, http.MethodGet, path, nil, nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// GetConversation returns the ordered message history of an agent.
func (client *Client) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	path, err := agentPath(id, "/conversation")
	if err != nil {
		return nil, err
	}
	var conversation models.Conversation
	if err := client.do(ctx, http.MethodGet, path, nil, nil, &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ListAgents returns one page of agents.
func (client *Client) ListAgents(ctx context.Context, options ListOptions) (*models.ListResponse, error) {
	if options.Limit < 0 || options.Limit > models.MaxListLimit {
		return nil, &models.ValidationError{Field: "limit", Message: "must be between 1 and " + strconv.Itoa(models.MaxListLimit)}
	}
	var page models.ListResponse
	if err := client.do(ctx, http.MethodGet, "/agents", options.query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AllAgents follows nextCursor until the last page. Each page is one request.
func (client *Client) AllAgents(ctx context.Context, options ListOptions) ([]models.Agent, error) {
	var all []models.Agent
	seen := make(map[string]bool)
	for {
		page, err := client.ListAgents(ctx, options)
		if err != nil {
			return all, err
		}
		all = append(all, page.Agents...)
		if page.NextCursor == "" || seen[page.NextCursor] {
			return all, nil
		}
		seen[page.NextCursor] = true
		options.Cursor = page.NextCursor
	}
}

// StopAgent pauses a running agent. A follow-up restarts it.
func (client *Client) StopAgent(ctx context.Context, id string) (*models.IDResponse, error) {
	path, err := agentPath(id, "/stop")
	if err != nil {
		return nil, err
	}
	var ack models.IDResponse
	if err := client.do(ctx, http.MethodPost, path, nil, nil, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// DeleteAgent permanently deletes an agent and its conversation.
// Callers are responsible for confirming with the user first.
func (client *Client) DeleteAgent(ctx context.Context, id string) (*models.IDResponse, error) {
	path, err := agentPath(id, "")
	if err != nil {
		return nil, err
	}
	var ack models.IDResponse
	if err := client.do(ctx, http.MethodDelete, path, nil, nil, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// Me returns information about the API key in use.
func (client *Client) Me(ctx context.Context) (*models.APIKeyInfo, error) {
	var info models.APIKeyInfo
	if err := client.do(ctx, http.MethodGet, "/me", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ListModels returns the models available for launch requests.
func (client *Client) ListModels(ctx context.Context) (*models.ModelList, error) {
	var list models.ModelList
	if err := client.do(ctx, http.MethodGet, "/models", nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListRepositories returns the GitHub repositories the key can use.
// The endpoint allows 1 request per minute and 30 per hour.
func (client *Client) ListRepositories(ctx context.Context) (*models.RepositoryList, error) {
	var list models.RepositoryList
	if err := client.do(ctx, http.MethodGet, "/repositories", nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
