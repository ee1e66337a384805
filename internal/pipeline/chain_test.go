package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"skin-retoucher/internal/logger"
)

func TestStepChain_DegradesAndSkips(t *testing.T) {
	var ran []string
	record := func(name string, err error) chainStep {
		return chainStep{
			name: name,
			run: func(context.Context, *regionJob) error {
				ran = append(ran, name)
				return err
			},
		}
	}
	skipped := record("skipped", nil)
	skipped.shouldRun = func(*regionJob) bool { return false }

	c := newStepChain(logger.Nop(),
		record("first", errors.New("boom")),
		skipped,
		record("last", nil),
	)
	require.NoError(t, c.Execute(context.Background(), &regionJob{}))
	require.Equal(t, []string{"first", "last"}, ran)

	timings := c.Timings()
	require.Contains(t, timings, "first")
	require.Contains(t, timings, "last")
	require.NotContains(t, timings, "skipped")
	require.Empty(t, c.Timings())
}

func TestStepChain_CancelAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	c := newStepChain(logger.Nop(), chainStep{
		name: "never",
		run: func(context.Context, *regionJob) error {
			called = true
			return nil
		},
	})
	require.ErrorIs(t, c.Execute(ctx, &regionJob{}), context.Canceled)
	require.False(t, called)
}
