package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testRecorder struct {
	syncDurations int
	outcomes      map[OutcomeLabel]int
	actions       map[ActionLabel]int
	commands      map[ResultLabel]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{outcomes: map[OutcomeLabel]int{}, actions: map[ActionLabel]int{}, commands: map[ResultLabel]int{}}
}

func (t *testRecorder) ObserveSyncDuration(time.Duration)                 { t.syncDurations++ }
func (t *testRecorder) IncSyncOutcome(o OutcomeLabel)                     { t.outcomes[o]++ }
func (t *testRecorder) IncDocumentAction(a ActionLabel)                   { t.actions[a]++ }
func (t *testRecorder) ObserveCommandDuration(time.Duration, ResultLabel) {}
func (t *testRecorder) IncCommandResult(r ResultLabel)                    { t.commands[r]++ }

func TestRecorderImplementations(t *testing.T) {
	for name, r := range map[string]Recorder{
		"noop":       NoopRecorder{},
		"test":       newTestRecorder(),
		"prometheus": NewPrometheusRecorder(nil),
	} {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				r.ObserveSyncDuration(time.Second)
				r.IncSyncOutcome(OutcomeSuccess)
				r.IncDocumentAction(ActionCreated)
				r.ObserveCommandDuration(time.Millisecond, ResultSuccess)
				r.IncCommandResult(ResultEmbedded)
			})
		})
	}
}

func TestNilPrometheusRecorder(t *testing.T) {
	var p *PrometheusRecorder
	assert.NotPanics(t, func() {
		p.ObserveSyncDuration(time.Second)
		p.IncSyncOutcome(OutcomeFailed)
		p.IncDocumentAction(ActionPruned)
		p.ObserveCommandDuration(time.Second, ResultFailed)
		p.IncCommandResult(ResultFailed)
	})
}
