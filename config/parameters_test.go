package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresetsValidate(t *testing.T) {
	v := NewValidator()
	for _, name := range PresetNames() {
		p, ok := ByName(name)
		require.True(t, ok, name)
		res := v.Validate(p)
		require.True(t, res.Valid, "%s: %+v", name, res.Errors)
	}
}

func TestByNameUnknown(t *testing.T) {
	_, ok := ByName("nonexistent")
	require.False(t, ok)
}

func TestValidatorRejectsExcessiveHops(t *testing.T) {
	p := Default()
	p.MaxHops = 64
	res := NewValidator().Validate(p)
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
}

func TestValidatorSoftModeDowngradesToWarning(t *testing.T) {
	p := Default()
	p.PathSearchTimeout = 1
	v := &Validator{Mode: SoftMode}
	res := v.Validate(p)
	require.True(t, res.Valid)
	require.NotEmpty(t, res.Warnings)
}
