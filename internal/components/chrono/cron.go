package chrono

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"vestibot/internal/components/telemetry"
)

// CronAPI runs callbacks on a schedule.
//
// note: fault injection point
type CronAPI interface {
	// Cron schedules callback according to schedule, which accepts the standard 5 field syntax and
	// descriptors like "@every 30m".
	Cron(schedule string, callback func()) error
}

// StandardCron is the standard implementation of CronAPI using `github.com/robfig/cron/v3`
type StandardCron struct {
	cron *cron.Cron
}

// NewStandardCron creates a StandardCron and starts its scheduler, Stop must be called to release
// it.
func NewStandardCron(tel telemetry.API) StandardCron {
	cronner := cron.New(
		cron.WithLogger(cronLogger{tel: tel}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{tel: tel})),
	)
	cronner.Start()

	return StandardCron{
		cron: cronner,
	}
}

func (s StandardCron) Cron(schedule string, callback func()) error {
	_, err := s.cron.AddFunc(schedule, callback)
	if err != nil {
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}
	return nil
}

// Stop stops scheduling new runs and waits for the running ones until ctx is done.
func (s StandardCron) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

type cronLogger struct {
	tel telemetry.API
}

func (l cronLogger) formatParams(keysAndValues []any) []any {
	params := []any{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		params = append(params, fmt.Sprintf("%v: %v", keysAndValues[i], keysAndValues[i+1]))
	}
	return params
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.tel.ReportDebug(
		fmt.Sprintf("cron: %s", msg),
		l.formatParams(keysAndValues)...,
	)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.tel.ReportBroken(
		"cron",
		append([]any{fmt.Errorf("%s: %w", msg, err)}, l.formatParams(keysAndValues)...)...,
	)
}
