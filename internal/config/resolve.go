package config

import (
	"errors"
	"os"
	"strings"

	"github.com/watchfire-io/cursoragents/internal/models"
)

// ErrNoCredential is returned when no API key is available from any source.
var ErrNoCredential = errors.New("API key required. Use --api-key or set " + APIKeyEnv + " env var")

// CredentialSource tags where a resolved credential came from.
type CredentialSource string

const (
	CredentialFromFlag     CredentialSource = "flag"
	CredentialFromShellEnv CredentialSource = "shell-env"
	CredentialFromFile     CredentialSource = "file"
)

// Credential is the API key used for a single invocation.
type Credential struct {
	Value  string
	Source CredentialSource
}

// Masked returns the key with all but its last four characters hidden.
func (c Credential) Masked() string {
	if len(c.Value) <= 4 {
		return strings.Repeat("*", len(c.Value))
	}
	return strings.Repeat("*", len(c.Value)-4) + c.Value[len(c.Value)-4:]
}

// Resolver assembles configuration from, in priority order, explicit
// flags, the process environment and the env file. It never writes to
// the process environment.
type Resolver struct {
	// APIKeyFlag is the --api-key value ("" when not given).
	APIKeyFlag string

	// BaseURLFlag is the --base-url value ("" when not given).
	BaseURLFlag string

	// LookupEnv reads the process environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// File is the parsed env file. May be nil.
	File *EnvFile

	// Settings supplies defaults below every other layer. May be nil.
	Settings *models.Settings
}

// Resolved is the configuration handed to every command.
type Resolved struct {
	Credential Credential
	BaseURL    string
	EnvFile    string // path of the env file that was read, "" if none
	Settings   *models.Settings
}

// Lookup returns the value of key from the environment, falling back to
// the env file. A key set in the environment always wins, even when empty.
func (r *Resolver) Lookup(key string) (string, bool) {
	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(key); ok {
		return v, true
	}
	return r.File.Lookup(key)
}

// ResolveCredential returns the API key, or ErrNoCredential before any
// network activity can happen.
func (r *Resolver) ResolveCredential() (Credential, error) {
	if r.APIKeyFlag != "" {
		return Credential{Value: r.APIKeyFlag, Source: CredentialFromFlag}, nil
	}

	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(APIKeyEnv); ok {
		if v = strings.TrimSpace(v); v != "" {
			return Credential{Value: v, Source: CredentialFromShellEnv}, nil
		}
		// An exported but empty variable shadows the file, like the merge it replaces.
		return Credential{}, ErrNoCredential
	}
	if v, ok := r.File.Lookup(APIKeyEnv); ok && strings.TrimSpace(v) != "" {
		return Credential{Value: strings.TrimSpace(v), Source: CredentialFromFile}, nil
	}
	return Credential{}, ErrNoCredential
}

// ResolveBaseURL returns the API root: flag, then environment/env file,
// then settings, then the public default.
func (r *Resolver) ResolveBaseURL() string {
	if r.BaseURLFlag != "" {
		return strings.TrimRight(r.BaseURLFlag, "/")
	}
	if v, ok := r.Lookup(BaseURLEnv); ok && v != "" {
		return strings.TrimRight(v, "/")
	}
	if r.Settings != nil && r.Settings.API.BaseURL != "" {
		return strings.TrimRight(r.Settings.API.BaseURL, "/")
	}
	return models.DefaultBaseURL
}

// Resolve builds the full configuration, requiring a credential.
func (r *Resolver) Resolve() (*Resolved, error) {
	cred, err := r.ResolveCredential()
	if err != nil {
		return nil, err
	}
	return r.resolved(cred), nil
}

// ResolveOptional builds the configuration without requiring a credential.
// Used by local-only commands such as "config show".
func (r *Resolver) ResolveOptional() *Resolved {
	cred, _ := r.ResolveCredential()
	return r.resolved(cred)
}

func (r *Resolver) resolved(cred Credential) *Resolved {
	settings := r.Settings
	if settings == nil {
		settings = models.NewSettings()
	}
	path := ""
	if r.File.Found() {
		path = r.File.Path
	}
	return &Resolved{
		Credential: cred,
		BaseURL:    r.ResolveBaseURL(),
		EnvFile:    path,
		Settings:   settings,
	}
}
