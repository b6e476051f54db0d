package tracking

import (
	"go.uber.org/zap"

	"quantlab/launcher/internal/logger"
)

// LocalTrainer records a run without training anything. It stands in
// for the external training routine when the launcher runs alone, so
// the pipeline stays exercisable end to end.
type LocalTrainer struct {
	Recorder Recorder
}

// NewLocalTrainer creates a LocalTrainer backed by rec.
func NewLocalTrainer(rec Recorder) *LocalTrainer {
	return &LocalTrainer{Recorder: rec}
}

// Train opens a run record for the task and immediately marks it
// finished.
func (t *LocalTrainer) Train(task map[string]any, experimentName string) (*Run, error) {
	run, err := t.Recorder.StartRun(experimentName)
	if err != nil {
		return nil, err
	}
	logger.Info("recording task without training",
		zap.String("experiment", experimentName),
		zap.Int("task_keys", len(task)))
	if err := run.Finish(StatusFinished); err != nil {
		return nil, err
	}
	return run, nil
}
