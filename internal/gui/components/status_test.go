package components

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatPSNR(t *testing.T) {
	require.Equal(t, "PSNR: --", FormatPSNR(math.Inf(1)))
	require.Equal(t, "PSNR: --", FormatPSNR(math.NaN()))
	require.Equal(t, "PSNR: 38.25 dB", FormatPSNR(38.2512))
}
