package sysinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResolutionString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantW   int
		wantH   int
		wantErr bool
	}{
		{"Spaced", "3420 x 2214", 3420, 2214, false},
		{"Compact", "1920x1080", 1920, 1080, false},
		{"Retina suffix", "2880 x 1800 Retina", 2880, 1800, false},
		{"Refresh rate", "1710 x 1107 @ 60.00Hz", 1710, 1107, false},
		{"Zero", "0x0", 0, 0, true},
		{"Invalid", "No resolution here", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := parseResolutionString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestParseXdpyinfo(t *testing.T) {
	out := `name of display:    :0
screen #0:
  dimensions:    2560x1440 pixels (677x381 millimeters)
  resolution:    96x96 dots per inch
`
	w, h, err := parseXdpyinfo(out)
	require.NoError(t, err)
	assert.Equal(t, 2560, w)
	assert.Equal(t, 1440, h)

	_, _, err = parseXdpyinfo("name of display:    :0\n")
	assert.ErrorIs(t, err, ErrNoDisplay)
}

func TestParseJSONResolution(t *testing.T) {
	t.Run("Main display", func(t *testing.T) {
		data := []byte(`{"SPDisplaysDataType":[{"spdisplays_ndrvs":[
			{"_spdisplays_pixels":"1920 x 1080","spdisplays_main":"spdisplays_no"},
			{"_spdisplays_pixels":"3420 x 2214","spdisplays_main":"spdisplays_yes"}
		]}]}`)
		w, h, err := parseJSONResolution(data)
		require.NoError(t, err)
		assert.Equal(t, 3420, w)
		assert.Equal(t, 2214, h)
	})

	t.Run("Fallback to first", func(t *testing.T) {
		data := []byte(`{"SPDisplaysDataType":[{"spdisplays_ndrvs":[{"_spdisplays_pixels":"2560 x 1440"}]}]}`)
		w, h, err := parseJSONResolution(data)
		require.NoError(t, err)
		assert.Equal(t, 2560, w)
		assert.Equal(t, 1440, h)
	})

	t.Run("No displays", func(t *testing.T) {
		_, _, err := parseJSONResolution([]byte(`{"SPDisplaysDataType":[]}`))
		assert.ErrorIs(t, err, ErrNoDisplay)
	})

	t.Run("Bad JSON", func(t *testing.T) {
		_, _, err := parseJSONResolution([]byte(`{`))
		assert.Error(t, err)
	})
}
