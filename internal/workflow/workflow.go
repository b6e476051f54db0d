// Package workflow sequences the configuration resolution pipeline:
// render, parse, resolve the base config, collect lookup roots,
// prepare tracking, and hand the resolved task off to the trainer.
package workflow

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"quantlab/launcher/internal/confdoc"
	"quantlab/launcher/internal/logger"
	"quantlab/launcher/internal/syspath"
	"quantlab/launcher/internal/template"
	"quantlab/launcher/internal/tracking"
)

// Stage names one step of the pipeline. Every run either traverses
// the full sequence or aborts at the first failing stage; there is no
// retry and no rollback of earlier stages.
type Stage string

const (
	StageRendered         Stage = "rendered"
	StageParsed           Stage = "parsed"
	StageBaseResolved     Stage = "base_resolved"
	StagePathsInjected    Stage = "paths_injected"
	StageTrackingPrepared Stage = "tracking_prepared"
	StageEnvInitialized   Stage = "env_initialized"
	StageTrained          Stage = "trained"
	StagePersisted        Stage = "persisted"
)

// Trainer is the external training routine. It receives the resolved
// task section and the effective experiment name and returns the run
// record the training produced.
type Trainer interface {
	Train(task map[string]any, experimentName string) (*tracking.Run, error)
}

// RunArtifact summarizes one completed run.
type RunArtifact struct {
	RunID          string
	ExperimentName string
	ConfigArtifact string // path of the persisted config artifact
	Stages         []Stage
}

// Orchestrator wires the pipeline components together.
type Orchestrator struct {
	renderer *template.Renderer
	resolver *confdoc.BaseResolver
	recorder tracking.Recorder
	trainer  Trainer
	session  *tracking.Session
	roots    *syspath.Roots
}

// NewOrchestrator creates an Orchestrator with the default renderer,
// merger, session, and an empty set of lookup roots.
func NewOrchestrator(recorder tracking.Recorder, trainer Trainer) *Orchestrator {
	return &Orchestrator{
		renderer: template.NewRenderer(),
		resolver: confdoc.NewBaseResolver(confdoc.NewMergoMerger()),
		recorder: recorder,
		trainer:  trainer,
		session:  tracking.NewSession(),
		roots:    syspath.NewRoots(),
	}
}

// WithRenderer overrides the template renderer.
func (o *Orchestrator) WithRenderer(r *template.Renderer) *Orchestrator {
	o.renderer = r
	return o
}

// WithMerger overrides the merger used for base-config resolution.
func (o *Orchestrator) WithMerger(m confdoc.Merger) *Orchestrator {
	o.resolver = confdoc.NewBaseResolver(m)
	return o
}

// WithSession overrides the secondary tracking session.
func (o *Orchestrator) WithSession(s *tracking.Session) *Orchestrator {
	o.session = s
	return o
}

// Roots returns the module lookup roots collected so far. Roots
// accumulate across runs of the same Orchestrator and are never
// deduplicated.
func (o *Orchestrator) Roots() []string {
	return o.roots.Entries()
}

// Resolve produces the fully resolved configuration document for
// configPath: rendered against the environment, parsed, and merged
// with its base config if one is named. Resolve does not touch
// tracking state or lookup roots; for fixed file contents and
// environment it is a pure function of its inputs.
func (o *Orchestrator) Resolve(configPath string) (confdoc.Document, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}

	rendered, err := o.renderer.Render(string(raw))
	if err != nil {
		return nil, err
	}

	doc, err := confdoc.Parse([]byte(rendered))
	if err != nil {
		return nil, err
	}

	return o.resolver.Resolve(doc, configPath)
}

// Run executes the whole pipeline for configPath. experimentName is
// the caller's default and is overridden by an experiment_name key in
// the resolved document; uriFolder names the run-storage subdirectory
// used when no explicit tracking manager is configured.
func (o *Orchestrator) Run(configPath, experimentName, uriFolder string) (*RunArtifact, error) {
	artifact := &RunArtifact{}
	advance := func(s Stage) { artifact.Stages = append(artifact.Stages, s) }

	doc, err := o.Resolve(configPath)
	if err != nil {
		return nil, err
	}
	advance(StageRendered)
	advance(StageParsed)
	advance(StageBaseResolved)

	roots, err := syspath.Collect(doc, configPath)
	if err != nil {
		return nil, err
	}
	o.roots.Append(roots...)
	advance(StagePathsInjected)

	params, err := tracking.Prepare(doc, uriFolder)
	if err != nil {
		return nil, err
	}
	sessionCfg, wantSession, err := tracking.SessionFromDocument(doc, uriFolder)
	if err != nil {
		return nil, err
	}
	if wantSession {
		// Side channel: a failed session never aborts the run.
		if err := o.session.Init(sessionCfg); err != nil {
			logger.Error("secondary tracking session failed", zap.Error(err))
		}
	}
	advance(StageTrackingPrepared)

	if err := o.recorder.Init(params); err != nil {
		return nil, err
	}
	advance(StageEnvInitialized)

	name := experimentName
	if v, err := doc.String("experiment_name"); err == nil {
		name = v
	}
	artifact.ExperimentName = name

	task, err := doc.Map("task")
	if err != nil {
		return nil, err
	}
	run, err := o.trainer.Train(task, name)
	if err != nil {
		return nil, fmt.Errorf("train task: %w", err)
	}
	artifact.RunID = run.ID
	advance(StageTrained)

	path, err := run.SaveConfig(doc)
	if err != nil {
		return nil, err
	}
	artifact.ConfigArtifact = path
	advance(StagePersisted)

	logger.Info("workflow finished",
		zap.String("experiment", name),
		zap.String("run_id", run.ID),
		zap.String("config_artifact", path))
	return artifact, nil
}
