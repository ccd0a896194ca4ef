package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.ObserveStageDuration("parse_front_matter", time.Millisecond)
		r.ObserveRunDuration(time.Second)
		r.IncStageResult("render", ResultSkipped)
		r.IncRunOutcome(RunUnchanged)
		r.IncPostsRendered("Geral")
		r.SetCategories(0)
		r.SetLastRun(time.Time{})
	})
}
