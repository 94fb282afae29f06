package stats

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPhasePresets maps the "environment evolution phase" selector the
// dashboard exposes to concrete sensitivity values. A younger environment
// gets a smaller sensitivity: fewer virtual matches, so early results move
// the table sooner.
func DefaultPhasePresets() map[string]float64 {
	return map[string]float64{
		"early": 20.0,
		"mid":   40.0,
		"late":  45.0,
	}
}

// ParsePhasePresets reads an override table in "early:20,mid:40,late:45"
// form. An empty string yields the defaults; a malformed entry is an error
// rather than a silent fallback.
func ParsePhasePresets(raw string) (map[string]float64, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultPhasePresets(), nil
	}
	presets := make(map[string]float64)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, value, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("phase preset %q: expected name:value", entry)
		}
		name = strings.TrimSpace(name)
		s, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("phase preset %q: %w", entry, err)
		}
		if name == "" || s <= 0 {
			return nil, fmt.Errorf("phase preset %q: name must be non-empty and sensitivity positive", entry)
		}
		presets[name] = s
	}
	if len(presets) == 0 {
		return nil, fmt.Errorf("phase presets %q: no entries", raw)
	}
	return presets, nil
}
