package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickReportsOnlyAfterInterval(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(time.Hour)
	for range 10 {
		assert.False(t, p.Tick())
	}
}

func TestTickReportsWhenIntervalElapsed(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(0)
	assert.True(t, p.Tick())
}
