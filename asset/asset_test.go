package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssetManager(t *testing.T) {
	am := NewManager()

	t.Run("GetText", func(t *testing.T) {
		// Test loading an existing text file
		text, err := am.GetText("default_config.json")
		assert.NoError(t, err)
		assert.Contains(t, text, `"operator"`)

		// Test loading a non-existent text file
		_, err = am.GetText("non_existent.txt")
		assert.Error(t, err)

		_, err = am.GetText("")
		assert.Error(t, err)
	})

	t.Run("ListText", func(t *testing.T) {
		names, err := am.ListText()
		assert.NoError(t, err)
		assert.Contains(t, names, "default_config.json")
	})
}
