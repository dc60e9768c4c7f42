package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// File is the on-disk shape a star is booted from: a named preset plus
// any per-field overrides.
type File struct {
	StarKey string     `json:"star_key"`
	Preset  string     `json:"preset,omitempty"`
	Params  Parameters `json:"params,omitempty"`
}

// LoadFile reads and parses a star config file. If Preset is set, it
// supplies the base Parameters that Params's non-zero fields override;
// supplying both is only meaningful if Params only overrides a subset
// (the common case: "production, but with a tighter MaxHops").
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if f.StarKey == "" {
		return File{}, fmt.Errorf("config: %s missing star_key", path)
	}
	if f.Preset != "" {
		base, ok := ByName(f.Preset)
		if !ok {
			return File{}, fmt.Errorf("config: %s: unknown preset %q", path, f.Preset)
		}
		f.Params = mergeOverrides(base, f.Params)
	}
	return f, nil
}

// mergeOverrides fills zero fields of override from base, field by field.
func mergeOverrides(base, override Parameters) Parameters {
	if override.MaxHops == 0 {
		override.MaxHops = base.MaxHops
	}
	if override.PathSearchTimeout == 0 {
		override.PathSearchTimeout = base.PathSearchTimeout
	}
	if override.ResourceLookupTimeout == 0 {
		override.ResourceLookupTimeout = base.ResourceLookupTimeout
	}
	if override.FrameHoldMaxPerDestination == 0 {
		override.FrameHoldMaxPerDestination = base.FrameHoldMaxPerDestination
	}
	if override.Health.MaxDropRate == 0 {
		override.Health.MaxDropRate = base.Health.MaxDropRate
	}
	if override.Health.MaxOutstandingRequests == 0 {
		override.Health.MaxOutstandingRequests = base.Health.MaxOutstandingRequests
	}
	return override
}
