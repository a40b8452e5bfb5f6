package chrono

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"vestibot/internal/components/telemetry"
)

func TestCronLogger(t *testing.T) {
	tel := &telemetry.RecordingAPI{}
	logger := cronLogger{tel: tel}

	logger.Info("schedule", "now", "2024-01-01", "entry", 1, "dangling")
	logger.Error(errors.New("boom"), "run")

	debug := tel.Reports(telemetry.KindDebug)
	require.Len(t, debug, 1)
	require.Equal(t, "cron: schedule", debug[0].Id)
	require.Equal(t, []any{"now: 2024-01-01", "entry: 1"}, debug[0].Params)

	broken := tel.Reports(telemetry.KindBroken)
	require.Len(t, broken, 1)
	require.Equal(t, "cron", broken[0].Id)
	require.EqualError(t, broken[0].Params[0].(error), "run: boom")
}

func TestStandardCron(t *testing.T) {
	cron := NewStandardCron(&telemetry.RecordingAPI{})
	defer cron.Stop(context.Background())

	require.Error(t, cron.Cron("not a schedule", func() {}))

	ran := make(chan struct{}, 1)
	err := cron.Cron("@every 1s", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled callback never ran")
	}
}
