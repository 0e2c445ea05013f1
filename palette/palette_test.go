package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToHex(t *testing.T) {
	cases := []struct {
		rgb  [3]uint8
		want string
	}{
		{[3]uint8{0, 0, 0}, "#000000"},
		{[3]uint8{255, 255, 255}, "#ffffff"},
		{[3]uint8{156, 238, 221}, "#9ceedd"},
		{[3]uint8{1, 2, 3}, "#010203"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ConvertToHex(c.rgb))
	}
}

func TestDefaultPaletteHasBackgroundLabels(t *testing.T) {
	p := Default()

	sky, ok := p.Lookup("Sky")
	require.True(t, ok)
	assert.Equal(t, "#9ceedd", sky.Hex())

	sea, ok := p.Lookup("Sea")
	require.True(t, ok)
	assert.Equal(t, [3]uint8{54, 62, 167}, sea.RGB)

	hex := p.Hex()
	assert.Len(t, hex, len(p.Colors()))
	assert.Equal(t, "#363ea7", hex["Sea"])

	names := p.Names()
	assert.IsIncreasing(t, names)
}

func TestParseRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":     "labels: []",
		"no name":   "labels:\n  - rgb: [1, 2, 3]",
		"duplicate": "labels:\n  - name: Sky\n    rgb: [1, 2, 3]\n  - name: Sky\n    rgb: [4, 5, 6]",
		"not yaml":  "labels: [",
		"short rgb": "labels:\n  - name: Sky\n    rgb: [1, 2]",
		"range":     "labels:\n  - name: Sky\n    rgb: [1, 2, 300]",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}
