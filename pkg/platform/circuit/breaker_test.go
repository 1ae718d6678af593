package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// replay feeds outcomes to b, 'f' for a primary failure and 's' for a
// success, and returns the transitions in order.
func replay(b *Breaker, outcomes string) []string {
	var seen []string
	for _, o := range outcomes {
		var change StateChange
		if o == 'f' {
			_, change = b.RecordFailure()
		} else {
			_, change = b.RecordSuccess()
		}
		switch {
		case change.Opened:
			seen = append(seen, "opened")
		case change.Closed:
			seen = append(seen, "closed")
		}
	}
	return seen
}

func TestBreakerTransitions(t *testing.T) {
	tests := []struct {
		name        string
		opts        []Option
		outcomes    string
		state       State
		transitions []string
	}{
		{name: "fresh breaker is closed", state: StateClosed},
		{name: "defaults need five failures", outcomes: "ffff", state: StateClosed},
		{name: "fifth failure opens", outcomes: "fffff", state: StateOpen, transitions: []string{"opened"}},
		{
			name:     "success clears the failure streak",
			opts:     []Option{WithFailureThreshold(3)},
			outcomes: "ffsff",
			state:    StateClosed,
		},
		{
			name:        "closes after enough probes succeed",
			opts:        []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			outcomes:    "fss",
			state:       StateClosed,
			transitions: []string{"opened", "closed"},
		},
		{
			name:        "failure while open restarts the success count",
			opts:        []Option{WithFailureThreshold(1), WithSuccessThreshold(3)},
			outcomes:    "fssfss",
			state:       StateOpen,
			transitions: []string{"opened"},
		},
		{
			name:        "repeated failures while open do not reopen",
			opts:        []Option{WithFailureThreshold(2)},
			outcomes:    "ffff",
			state:       StateOpen,
			transitions: []string{"opened"},
		},
		{
			name:        "non-positive thresholds fall back to defaults",
			opts:        []Option{WithFailureThreshold(0), WithSuccessThreshold(-1)},
			outcomes:    "fffffsss",
			state:       StateClosed,
			transitions: []string{"opened", "closed"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("ratelimit-redis", tt.opts...)
			assert.Equal(t, tt.transitions, replay(b, tt.outcomes))
			assert.Equal(t, tt.state, b.State())
			assert.Equal(t, tt.state == StateOpen, b.IsOpen())
		})
	}
}

func TestBreakerRouting(t *testing.T) {
	b := New("ratelimit-redis", WithFailureThreshold(1), WithSuccessThreshold(2))

	useFallback, _ := b.RecordFailure()
	assert.True(t, useFallback, "the opening failure already routes to the fallback")

	usePrimary, _ := b.RecordSuccess()
	assert.False(t, usePrimary, "one probe is not enough to trust the primary")

	usePrimary, _ = b.RecordSuccess()
	assert.True(t, usePrimary)
}

func TestBreakerReset(t *testing.T) {
	b := New("ratelimit-redis", WithFailureThreshold(1))
	replay(b, "f")
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "ratelimit-redis", b.Name())
	assert.Equal(t, "closed", b.State().String())
	assert.Equal(t, "open", StateOpen.String())
}
