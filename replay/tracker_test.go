package replay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsinghua-fib-lab/busnet-eval/replay"
)

func TestThroughputTracker(t *testing.T) {
	tr := replay.NewThroughputTracker()
	for i := 0; i < 3; i++ {
		tr.Record(100, "entered link")
	}
	tr.Record(101, "left link")

	assert.Equal(t, int64(4), tr.Total())
	assert.NotPanics(t, tr.LogMax)
}

func TestThroughputTrackerEmpty(t *testing.T) {
	tr := replay.NewThroughputTracker()
	assert.Equal(t, int64(0), tr.Total())
	assert.NotPanics(t, tr.LogMax)
}
