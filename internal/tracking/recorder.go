package tracking

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"quantlab/launcher/internal/confdoc"
	"quantlab/launcher/internal/logger"
)

// Run statuses written to a run's metadata file.
const (
	StatusRunning  = "RUNNING"
	StatusFinished = "FINISHED"
	StatusFailed   = "FAILED"
)

// Recorder persists run records and their artifacts.
type Recorder interface {
	// Init prepares the tracking backend for the selected manager.
	Init(params *InitParams) error

	// StartRun opens a new run record under the given experiment.
	StartRun(experiment string) (*Run, error)
}

// Run is one run record: a directory holding metadata and artifacts.
type Run struct {
	ID         string
	Experiment string
	Dir        string

	started time.Time
}

// metaFile is the per-run metadata document.
type metaFile struct {
	ID         string `yaml:"id"`
	Experiment string `yaml:"experiment"`
	Status     string `yaml:"status"`
	StartTime  string `yaml:"start_time"`
	EndTime    string `yaml:"end_time,omitempty"`
}

// SaveConfig persists doc as the run's configuration artifact and
// returns the artifact path.
func (r *Run) SaveConfig(doc confdoc.Document) (string, error) {
	data, err := doc.Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize config artifact: %w", err)
	}
	path := filepath.Join(r.Dir, "artifacts", "config.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write config artifact: %w", err)
	}
	return path, nil
}

// Finish updates the run's metadata with a final status.
func (r *Run) Finish(status string) error {
	return r.writeMeta(status, time.Now())
}

func (r *Run) writeMeta(status string, end time.Time) error {
	meta := metaFile{
		ID:         r.ID,
		Experiment: r.Experiment,
		Status:     status,
		StartTime:  r.started.Format(time.RFC3339),
	}
	if !end.IsZero() {
		meta.EndTime = end.Format(time.RFC3339)
	}
	data, err := yaml.Marshal(&meta)
	if err != nil {
		return fmt.Errorf("serialize run metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.Dir, "meta.yaml"), data, 0o644); err != nil {
		return fmt.Errorf("write run metadata: %w", err)
	}
	return nil
}

// FileRecorder is the file-backed Recorder. Runs live under
// <root>/<experiment>/<run-id>/ with a meta.yaml and an artifacts dir.
type FileRecorder struct {
	root string
}

// NewFileRecorder creates an uninitialized FileRecorder.
func NewFileRecorder() *FileRecorder {
	return &FileRecorder{}
}

// Init resolves the store root from the selected manager and creates
// it. An explicit manager must carry a file-scheme URI under
// kwargs.uri for the file backend to serve it.
func (f *FileRecorder) Init(params *InitParams) error {
	uri, err := managerURI(params.Manager)
	if err != nil {
		return err
	}
	f.root = strings.TrimPrefix(uri, "file:")
	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return fmt.Errorf("create run store %s: %w", f.root, err)
	}
	logger.Info("tracking store initialized", zap.String("root", f.root))
	return nil
}

// Root returns the store root directory, empty before Init.
func (f *FileRecorder) Root() string {
	return f.root
}

// StartRun opens a new run record under experiment.
func (f *FileRecorder) StartRun(experiment string) (*Run, error) {
	if f.root == "" {
		return nil, fmt.Errorf("tracking store not initialized")
	}
	run := &Run{
		ID:         uuid.NewString(),
		Experiment: experiment,
		started:    time.Now(),
	}
	run.Dir = filepath.Join(f.root, experiment, run.ID)
	if err := os.MkdirAll(filepath.Join(run.Dir, "artifacts"), 0o755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}
	if err := run.writeMeta(StatusRunning, time.Time{}); err != nil {
		return nil, err
	}
	logger.Info("run started", zap.String("experiment", experiment), zap.String("run_id", run.ID))
	return run, nil
}

// managerURI extracts the storage URI from a manager spec.
func managerURI(spec ManagerSpec) (string, error) {
	if spec.Kind == ManagerDefault {
		return spec.URI, nil
	}
	kwargs, ok := spec.Explicit["kwargs"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("explicit exp manager has no kwargs section")
	}
	uri, ok := kwargs["uri"].(string)
	if !ok {
		return "", fmt.Errorf("explicit exp manager has no uri")
	}
	if !strings.HasPrefix(uri, "file:") {
		return "", fmt.Errorf("unsupported exp manager uri '%s': only file: URIs are served by the file store", uri)
	}
	return uri, nil
}
