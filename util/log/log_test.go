//go:build !release

package log

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// captureOutput redirects the standard logger into a buffer for the test.
func captureOutput(t *testing.T, flags int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(flags)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestLogging(t *testing.T) {
	buf := captureOutput(t, 0)

	tests := []struct {
		name     string
		fn       func()
		expected string
	}{
		{"Print", func() { Print("carving ", 3, " seams") }, "carving 3 seams\n"},
		{"Printf", func() { Printf("job %s removed %d", "a1", 7) }, "job a1 removed 7\n"},
		{"Println", func() { Println("done", 12) }, "done 12\n"},
		{"Debug", func() { Debug("seam ", 2) }, debugPrefix + "seam 2\n"},
		{"Debugf", func() { Debugf("seam %d/%d", 2, 9) }, debugPrefix + "seam 2/9\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn()
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestDebugReportsCaller(t *testing.T) {
	buf := captureOutput(t, log.Lshortfile)

	Debugf("seam %d", 1)

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "log_test.go:"), line)
	assert.Contains(t, line, debugPrefix+"seam 1")
}
