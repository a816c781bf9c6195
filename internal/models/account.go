package models

import "time"

// APIKeyInfo is returned by GET /v0/me.
type APIKeyInfo struct {
	APIKeyName string     `json:"apiKeyName"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UserEmail  string     `json:"userEmail,omitempty"`
}

// ModelList is returned by GET /v0/models.
type ModelList struct {
	Models []string `json:"models"`
}

// Repository is a GitHub repository the API key can launch agents on.
type Repository struct {
	Owner      string `json:"owner"`
	Name       string `json:"name"`
	Repository string `json:"repository"`
}

// RepositoryList is returned by GET /v0/repositories.
// The endpoint is limited to 1 request per minute and 30 per hour.
type RepositoryList struct {
	Repositories []Repository `json:"repositories"`
}
