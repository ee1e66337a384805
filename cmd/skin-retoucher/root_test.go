package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"skin-retoucher/internal/config"
)

func newFlagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.PersistentFlags().String("log-level", "info", "")
	cmd.PersistentFlags().Bool("human", false, "")
	cmd.PersistentFlags().StringArray("set", nil, "")
	registerParamFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestApplyFlagsOnlyChanged(t *testing.T) {
	cmd := newFlagCommand(t, "--radius", "20")
	c := config.Default()

	require.NoError(t, applyFlags(cmd, c))
	require.Equal(t, 20, c.Params.PatchRadius)
	require.Equal(t, config.Default().Params.BlendStrength, c.Params.BlendStrength)
	require.Equal(t, "info", c.Log.Level)
}

func TestApplyFlagsSetPairsWin(t *testing.T) {
	cmd := newFlagCommand(t,
		"--strength", "40",
		"--set", "blend_strength=55",
		"--set", "clone_method=poisson",
		"--log-level", "debug",
		"--human",
	)
	c := config.Default()

	require.NoError(t, applyFlags(cmd, c))
	require.Equal(t, 55, c.Params.BlendStrength)
	require.Equal(t, config.CloneMethodPoisson, c.Params.CloneMethod)
	require.Equal(t, "debug", c.Log.Level)
	require.True(t, c.Log.Human)
}

func TestApplyFlagsRejectsUnknownKey(t *testing.T) {
	cmd := newFlagCommand(t, "--set", "nope=1")
	require.Error(t, applyFlags(cmd, config.Default()))
}

func TestParamFlagsMapToKnownKeys(t *testing.T) {
	keys := map[string]bool{}
	for _, k := range config.Keys() {
		keys[k] = true
	}
	for name, key := range paramFlags {
		require.True(t, keys[key], "flag %s maps to unknown key %s", name, key)
	}
}

func TestDefaultOutput(t *testing.T) {
	require.Equal(t, "photos/face_retouched.jpg", defaultOutput("photos/face.jpg"))
	require.Equal(t, "face_retouched", defaultOutput("face"))
}
