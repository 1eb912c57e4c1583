//go:build release

package log

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugHonoursEnv(t *testing.T) {
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	prevEnabled := debugEnabled
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
		debugEnabled = prevEnabled
	})

	debugEnabled = false
	Debug("hidden")
	Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	debugEnabled = true
	Debugf("seam %d", 4)
	assert.Equal(t, debugPrefix+"seam 4\n", buf.String())

	buf.Reset()
	Printf("job %s", "a1")
	assert.Equal(t, "job a1\n", buf.String())
}
