package models

import (
	"fmt"
	"strings"
)

// MaxPromptImages is the most images a single prompt may carry.
const MaxPromptImages = 5

// RecommendedWebhookSecretLen is the minimum secret length the API recommends.
const RecommendedWebhookSecretLen = 32

// Dimension is the pixel size of a prompt image.
type Dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Image is a base64-encoded prompt attachment.
type Image struct {
	Data      string     `json:"data"`
	Dimension *Dimension `json:"dimension,omitempty"`
}

// Prompt is the instruction sent to an agent.
type Prompt struct {
	Text   string  `json:"text"`
	Images []Image `json:"images,omitempty"`
}

// LaunchTarget is the target block of a launch request.
// AutoBranch is a pointer so an explicit false is serialized.
type LaunchTarget struct {
	AutoCreatePR          bool   `json:"autoCreatePr,omitempty"`
	OpenAsCursorGithubApp bool   `json:"openAsCursorGithubApp,omitempty"`
	SkipReviewerRequest   bool   `json:"skipReviewerRequest,omitempty"`
	BranchName            string `json:"branchName,omitempty"`
	AutoBranch            *bool  `json:"autoBranch,omitempty"`
}

// Webhook registers a status-change callback for a launched agent.
type Webhook struct {
	URL    string `json:"url"`
	Secret string `json:"secret,omitempty"`
}

// LaunchRequest is the body of POST /v0/agents.
type LaunchRequest struct {
	Prompt  Prompt        `json:"prompt"`
	Source  Source        `json:"source"`
	Target  *LaunchTarget `json:"target,omitempty"`
	Model   string        `json:"model,omitempty"`
	Webhook *Webhook      `json:"webhook,omitempty"`
}

// FollowupRequest is the body of POST /v0/agents/{id}/followup.
type FollowupRequest struct {
	Prompt Prompt `json:"prompt"`
}

// ValidationError is a client-side rejection raised before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Validate checks the constraints the API would otherwise reject.
func (r *LaunchRequest) Validate() error {
	if err := r.Prompt.Validate(); err != nil {
		return err
	}
	if r.Source.Repository == "" && r.Source.PRURL == "" {
		return &ValidationError{Field: "source", Message: "either repository or prUrl is required"}
	}
	if r.Webhook != nil && r.Webhook.URL == "" {
		return &ValidationError{Field: "webhook.url", Message: "required when a webhook is configured"}
	}
	return nil
}

// Validate checks the prompt text and image count.
func (p *Prompt) Validate() error {
	if strings.TrimSpace(p.Text) == "" {
		return &ValidationError{Field: "prompt.text", Message: "prompt text is required"}
	}
	if len(p.Images) > MaxPromptImages {
		return &ValidationError{Field: "prompt.images", Message: fmt.Sprintf("at most %d images are allowed (got %d)", MaxPromptImages, len(p.Images))}
	}
	return nil
}

// Validate checks the follow-up prompt.
func (r *FollowupRequest) Validate() error {
	return r.Prompt.Validate()
}
