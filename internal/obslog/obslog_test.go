package obslog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_InitAcceptsKnownLevelNames(t *testing.T) {
	for _, level := range []string{"debug", "info", "warning", "error", "fatal"} {
		assert.NoError(t, Init(level))
	}
}

func Test_InitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("not-a-level"))
}
