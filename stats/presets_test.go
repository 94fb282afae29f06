package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhasePresetsDefaults(t *testing.T) {
	presets, err := ParsePhasePresets("")
	require.NoError(t, err)
	assert.Equal(t, 20.0, presets["early"])
	assert.Equal(t, 40.0, presets["mid"])
	assert.Equal(t, 45.0, presets["late"])
}

func TestParsePhasePresetsOverride(t *testing.T) {
	presets, err := ParsePhasePresets("early:15, mid:35 ,late:50")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"early": 15, "mid": 35, "late": 50}, presets)
}

func TestParsePhasePresetsRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"early", "early:abc", "early:0", ":20", ","} {
		_, err := ParsePhasePresets(raw)
		assert.Error(t, err, raw)
	}
}
