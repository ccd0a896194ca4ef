package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultSkipped ResultLabel = "skipped"
	ResultFatal   ResultLabel = "fatal"
)

// RunOutcomeLabel enumerates the final status of a run.
type RunOutcomeLabel string

const (
	RunSuccess   RunOutcomeLabel = "success"
	RunUnchanged RunOutcomeLabel = "unchanged"
	RunFailed    RunOutcomeLabel = "failed"
	RunCanceled  RunOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for run and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(outcome RunOutcomeLabel)
	IncPostsRendered(category string)
	SetCategories(n int)
	SetLastRun(t time.Time)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncRunOutcome(RunOutcomeLabel)              {}
func (NoopRecorder) IncPostsRendered(string)                    {}
func (NoopRecorder) SetCategories(int)                          {}
func (NoopRecorder) SetLastRun(time.Time)                       {}
