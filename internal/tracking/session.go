package tracking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"quantlab/launcher/internal/confdoc"
)

// SessionProject is the fixed project name the secondary tracking
// session is tagged with.
const SessionProject = "qlib"

// EndpointEnv optionally names a webhook URL that receives the session
// payload on Init.
const EndpointEnv = "WANDB_WEBHOOK_URL"

const (
	wandbFlagPath = "task.model.kwargs"
	wandbNameKey  = "wandb_name"
)

// SessionConfig describes one secondary tracking session.
type SessionConfig struct {
	Project string
	Dir     string
	Name    string
	Config  confdoc.Document
}

// SessionFromDocument inspects doc's model kwargs for a truthy wandb
// flag. When set, it returns the session configuration: fixed project
// name, a directory under <cwd>/<uriFolder>, the full document as
// config payload, and the run name from wandb_name. The second return
// is false when no session was requested.
func SessionFromDocument(doc confdoc.Document, uriFolder string) (*SessionConfig, bool, error) {
	kwargs, err := doc.Map(wandbFlagPath)
	if err != nil {
		return nil, false, err
	}
	if !confdoc.Truthy(kwargs["wandb"]) {
		return nil, false, nil
	}

	name, err := doc.String(wandbNameKey)
	if err != nil {
		return nil, false, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, false, fmt.Errorf("determine working directory: %w", err)
	}
	return &SessionConfig{
		Project: SessionProject,
		Dir:     filepath.Join(cwd, uriFolder),
		Name:    name,
		Config:  doc,
	}, true, nil
}

// Session initializes secondary tracking sessions. Locally each
// session is a directory with a session.yaml; when an endpoint is
// configured the payload is additionally POSTed there.
type Session struct {
	endpoint string
	client   *http.Client
}

// NewSession creates a Session. The webhook endpoint defaults to the
// WANDB_WEBHOOK_URL environment variable.
func NewSession() *Session {
	return &Session{
		endpoint: os.Getenv(EndpointEnv),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoint overrides the webhook endpoint.
func (s *Session) WithEndpoint(url string) *Session {
	s.endpoint = url
	return s
}

// sessionFile is the on-disk session document.
type sessionFile struct {
	Project   string         `yaml:"project"`
	Name      string         `yaml:"name"`
	StartedAt string         `yaml:"started_at"`
	Config    map[string]any `yaml:"config"`
}

// sessionPayload is the webhook payload.
type sessionPayload struct {
	Project   string         `json:"project"`
	Name      string         `json:"name"`
	StartedAt time.Time      `json:"started_at"`
	Config    map[string]any `json:"config"`
}

// Init starts the session described by cfg. The session is a side
// channel: callers log a failed Init and continue, they do not abort
// the run over it.
func (s *Session) Init(cfg *SessionConfig) error {
	started := time.Now()
	dir := filepath.Join(cfg.Dir, "wandb", cfg.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := yaml.Marshal(&sessionFile{
		Project:   cfg.Project,
		Name:      cfg.Name,
		StartedAt: started.Format(time.RFC3339),
		Config:    map[string]any(cfg.Config),
	})
	if err != nil {
		return fmt.Errorf("serialize session: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "session.yaml"), data, 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	if s.endpoint == "" {
		return nil
	}
	return s.post(&sessionPayload{
		Project:   cfg.Project,
		Name:      cfg.Name,
		StartedAt: started,
		Config:    map[string]any(cfg.Config),
	})
}

func (s *Session) post(payload *sessionPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("serialize session payload: %w", err)
	}
	resp, err := s.client.Post(s.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post session to %s: %w", s.endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post session to %s: unexpected status %d", s.endpoint, resp.StatusCode)
	}
	return nil
}
