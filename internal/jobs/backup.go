// Package jobs runs periodic maintenance work for the calendar service:
// currently an iCalendar backup of the appointment store, scheduled with
// cron expressions.
package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-calendar-backend/internal/clock"
	"github.com/tbourn/go-calendar-backend/internal/domain"
	"github.com/tbourn/go-calendar-backend/internal/ics"
	"github.com/tbourn/go-calendar-backend/internal/observability"
	"github.com/tbourn/go-calendar-backend/internal/repo"
)

// Lister is the read side of the appointment store.
type Lister interface {
	List(ctx context.Context) []domain.Appointment
	Ready() bool
}

// ErrStoreNotReady is returned when a backup runs before the store loaded.
// Writing an empty export would clobber the previous backup.
var ErrStoreNotReady = errors.New("store not ready")

// BackupJob writes an iCalendar export of the store to Path, replacing the
// previous file atomically.
type BackupJob struct {
	Store Lister
	Path  string
	Name  string
	Clock clock.Clock
}

// Run performs one backup. The outcome is counted in the backups metric.
func (j *BackupJob) Run(ctx context.Context) (err error) {
	defer func() { observability.ObserveBackup(err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	if !j.Store.Ready() {
		return ErrStoreNotReady
	}
	if j.Path == "" {
		return errors.New("backup path is empty")
	}
	c := j.Clock
	if c == nil {
		c = clock.System{}
	}

	list := j.Store.List(ctx)
	data := ics.Export(list, ics.Options{
		ProductID: "-//go-calendar-backend//backup//EN",
		Name:      j.Name,
		Stamp:     c.Now(),
	})
	if err := repo.WriteFileAtomic(j.Path, data, 0o600); err != nil {
		return fmt.Errorf("write backup %s: %w", j.Path, err)
	}

	log.Info().
		Str("path", j.Path).
		Int("appointments", len(list)).
		Int("bytes", len(data)).
		Msg("calendar backup written")
	return nil
}
