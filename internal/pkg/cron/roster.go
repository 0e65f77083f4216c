package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
)

const (
	RosterRefreshJob     = "refresh_roster"
	rosterRefreshTimeout = 30 * time.Second
)

// RosterJobs keeps the face roster snapshot in step with the employee table.
type RosterJobs struct {
	refresher face.RosterRefresher
	interval  time.Duration
}

func NewRosterJobs(refresher face.RosterRefresher, interval time.Duration) *RosterJobs {
	return &RosterJobs{refresher: refresher, interval: interval}
}

func (j *RosterJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob(Job{
		Name:     RosterRefreshJob,
		Interval: j.interval,
		Timeout:  rosterRefreshTimeout,
		Fn:       j.RefreshRoster,
	})
}

func (j *RosterJobs) RefreshRoster(ctx context.Context) error {
	roster, err := j.refresher.Refresh(ctx)
	if err != nil {
		return err
	}
	slog.Debug("Cron: roster refreshed", "version", roster.Version, "entries", len(roster.Entries))
	return nil
}
