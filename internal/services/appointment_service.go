// Package services – AppointmentService
//
// This file implements the AppointmentService, the single in-memory store of
// appointments and their checklist flags. It is constructed once at process
// start and handed to every consumer (HTTP handlers, backup job).
//
// Lifecycle: the service starts in a loading state in which List returns an
// empty collection and mutations fail with ErrNotReady. Load reads both
// blobs once and moves the service to ready; the transition is one-way.
//
// Persistence: every mutation updates memory first and then kicks a
// per-slot repo.SnapshotWriter. Callers never wait for durability and never
// see persistence errors; those are logged and counted. Flush is available
// for callers that do need confirmation.
//
// Observability: Create, Update and Delete are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-calendar-backend/internal/clock"
	"github.com/tbourn/go-calendar-backend/internal/domain"
	"github.com/tbourn/go-calendar-backend/internal/observability"
	"github.com/tbourn/go-calendar-backend/internal/repo"
	"github.com/tbourn/go-calendar-backend/internal/schedule"
)

// Options configures an AppointmentService. Zero values select defaults.
type Options struct {
	// TitleMaxLen caps stored titles by rune length (default 200).
	TitleMaxLen int
	// PersistDelay debounces snapshot writes.
	PersistDelay time.Duration
	// PersistTimeout bounds a single snapshot write (default 5s).
	PersistTimeout time.Duration
	// Clock supplies "now"; defaults to the system clock.
	Clock clock.Clock
	// Logger defaults to the global zerolog logger.
	Logger *zerolog.Logger
}

// AppointmentService is the authoritative appointment store.
type AppointmentService struct {
	store repo.BlobStore
	opts  Options
	log   zerolog.Logger

	mu      sync.RWMutex
	items   []domain.Appointment
	done    map[string]bool
	version uint64

	loadOnce sync.Once
	readyCh  chan struct{}

	appts     *repo.SnapshotWriter
	checklist *repo.SnapshotWriter
}

// NewAppointmentService constructs a service in the loading state.
func NewAppointmentService(store repo.BlobStore, opts Options) *AppointmentService {
	if opts.TitleMaxLen <= 0 {
		opts.TitleMaxLen = 200
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	l := log.Logger
	if opts.Logger != nil {
		l = *opts.Logger
	}
	return &AppointmentService{
		store:   store,
		opts:    opts,
		log:     l.With().Str("component", "appointment_store").Logger(),
		items:   []domain.Appointment{},
		done:    map[string]bool{},
		readyCh: make(chan struct{}),
	}
}

// ---- lifecycle ----

// Load reads the collection and checklist blobs and marks the service ready.
// Only the first call does any work. Read or decode failures are logged and
// leave the corresponding state empty; the service becomes ready regardless.
func (s *AppointmentService) Load(ctx context.Context) {
	s.loadOnce.Do(func() {
		items := s.loadAppointments(ctx)
		flags := s.loadChecklist(ctx)

		live := make(map[string]struct{}, len(items))
		for _, a := range items {
			live[a.ID] = struct{}{}
		}
		for id, v := range flags {
			if _, ok := live[id]; !ok || !v {
				delete(flags, id)
			}
		}

		s.mu.Lock()
		s.items = items
		s.done = flags
		s.version++
		s.mu.Unlock()

		wopts := repo.WriterOptions{
			Delay:    s.opts.PersistDelay,
			Timeout:  s.opts.PersistTimeout,
			OnResult: s.onWrite,
		}
		s.appts = repo.NewSnapshotWriter(s.store, repo.KeyAppointments, s.snapshotAppointments, wopts)
		s.checklist = repo.NewSnapshotWriter(s.store, repo.KeyChecklist, s.snapshotChecklist, wopts)

		observability.SetAppointments(len(items))
		s.log.Info().Int("appointments", len(items)).Int("completed", len(flags)).Msg("store ready")
		close(s.readyCh)
	})
}

func (s *AppointmentService) loadAppointments(ctx context.Context) []domain.Appointment {
	b, err := s.store.Load(ctx, repo.KeyAppointments)
	if errors.Is(err, repo.ErrNotFound) {
		observability.ObserveStoreLoad(repo.KeyAppointments, true, nil)
		return []domain.Appointment{}
	}
	if err == nil {
		var raw []domain.Appointment
		if raw, err = repo.DecodeAppointments(b); err == nil {
			observability.ObserveStoreLoad(repo.KeyAppointments, false, nil)
			return s.sanitize(raw)
		}
	}
	observability.ObserveStoreLoad(repo.KeyAppointments, false, err)
	s.log.Error().Err(err).Str("key", repo.KeyAppointments).Msg("load failed; starting empty")
	return []domain.Appointment{}
}

// sanitize fills in derivable fields and drops records that would violate
// store invariants (invalid fields, duplicate ids).
func (s *AppointmentService) sanitize(raw []domain.Appointment) []domain.Appointment {
	out := make([]domain.Appointment, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, a := range raw {
		if a.Date == "" {
			a.Date = domain.DateFromStart(a.StartTime)
		}
		a.Title = clip(normalizeTitle(a.Title), s.opts.TitleMaxLen)
		if err := ValidateAppointment(a); err != nil {
			s.log.Warn().Err(err).Str("id", a.ID).Msg("dropping invalid stored appointment")
			continue
		}
		if _, dup := seen[a.ID]; dup {
			s.log.Warn().Str("id", a.ID).Msg("dropping duplicate stored appointment")
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}

func (s *AppointmentService) loadChecklist(ctx context.Context) map[string]bool {
	b, err := s.store.Load(ctx, repo.KeyChecklist)
	if errors.Is(err, repo.ErrNotFound) {
		observability.ObserveStoreLoad(repo.KeyChecklist, true, nil)
		return map[string]bool{}
	}
	if err == nil {
		var flags map[string]bool
		if flags, err = repo.DecodeChecklist(b); err == nil {
			observability.ObserveStoreLoad(repo.KeyChecklist, false, nil)
			return flags
		}
	}
	observability.ObserveStoreLoad(repo.KeyChecklist, false, err)
	s.log.Error().Err(err).Str("key", repo.KeyChecklist).Msg("load failed; starting empty")
	return map[string]bool{}
}

// Ready reports whether Load has completed.
func (s *AppointmentService) Ready() bool {
	select {
	case <-s.readyCh:
		return true
	default:
		return false
	}
}

// WaitReady blocks until Load has completed or ctx ends.
func (s *AppointmentService) WaitReady(ctx context.Context) error {
	select {
	case <-s.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush writes any pending snapshots now and reports their failures.
func (s *AppointmentService) Flush(ctx context.Context) error {
	if !s.Ready() {
		return nil
	}
	return errors.Join(s.appts.Flush(ctx), s.checklist.Flush(ctx))
}

// Close performs final writes and stops the writers.
func (s *AppointmentService) Close(ctx context.Context) error {
	if !s.Ready() {
		return nil
	}
	return errors.Join(s.appts.Close(ctx), s.checklist.Close(ctx))
}

// Version increases on every mutation; it is suitable for weak ETags.
func (s *AppointmentService) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Now returns the configured clock's current instant.
func (s *AppointmentService) Now() time.Time { return s.opts.Clock.Now() }

// ---- queries ----

// List returns a copy of the collection in insertion order. Before Load it
// returns an empty collection.
func (s *AppointmentService) List(_ context.Context) []domain.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Appointment, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the appointment with id.
func (s *AppointmentService) Get(_ context.Context, id string) (domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	return domain.Appointment{}, ErrAppointmentNotFound
}

// CheckConflict validates candidate and returns the appointment it would
// conflict with, or nil. excludeID names the appointment being edited.
func (s *AppointmentService) CheckConflict(_ context.Context, candidate domain.Appointment, excludeID string) (*domain.Appointment, error) {
	a, err := s.prepare(candidate)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := schedule.FindConflict(a, s.items, excludeID); ok {
		return &c, nil
	}
	return nil, nil
}

// ---- mutations ----

// Create validates a, assigns an id when none is given, rejects duplicate
// ids and conflicts, and appends it. The stored record is returned.
func (s *AppointmentService) Create(ctx context.Context, a domain.Appointment) (domain.Appointment, error) {
	_, span := s.span(ctx, "Create", attribute.String("appointment.date", a.Date))
	defer span.End()

	if !s.Ready() {
		return domain.Appointment{}, ErrNotReady
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a, err := s.prepare(a)
	if err != nil {
		return fail(span, err)
	}
	span.SetAttributes(attribute.String("appointment.id", a.ID))

	s.mu.Lock()
	if s.indexOf(a.ID) >= 0 {
		s.mu.Unlock()
		return fail(span, ErrDuplicateID)
	}
	if c, ok := schedule.FindConflict(a, s.items, ""); ok {
		s.mu.Unlock()
		return fail(span, &ConflictError{Existing: c})
	}
	s.items = append(s.items, a)
	s.version++
	n := len(s.items)
	s.mu.Unlock()

	observability.SetAppointments(n)
	s.appts.Schedule()
	return a, nil
}

// Update merges patch into the appointment with id. Unknown ids return
// ErrAppointmentNotFound. The merged record is validated and checked for
// conflicts against every other appointment.
func (s *AppointmentService) Update(ctx context.Context, id string, patch domain.AppointmentPatch) (domain.Appointment, error) {
	_, span := s.span(ctx, "Update", attribute.String("appointment.id", id))
	defer span.End()

	if !s.Ready() {
		return domain.Appointment{}, ErrNotReady
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fail(span, ErrAppointmentNotFound)
	}
	if patch.Empty() {
		cur := s.items[i]
		s.mu.Unlock()
		return cur, nil
	}
	merged, err := s.prepare(patch.Apply(s.items[i]))
	if err != nil {
		s.mu.Unlock()
		return fail(span, err)
	}
	if c, ok := schedule.FindConflict(merged, s.items, id); ok {
		s.mu.Unlock()
		return fail(span, &ConflictError{Existing: c})
	}
	s.items[i] = merged
	s.version++
	s.mu.Unlock()

	s.appts.Schedule()
	return merged, nil
}

// Delete removes the appointment with id and its checklist flag. Unknown
// ids are a silent no-op, so repeated deletes are idempotent.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	_, span := s.span(ctx, "Delete", attribute.String("appointment.id", id))
	defer span.End()

	if !s.Ready() {
		return ErrNotReady
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		span.SetAttributes(attribute.Bool("appointment.found", false))
		return nil
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	_, hadFlag := s.done[id]
	delete(s.done, id)
	s.version++
	n := len(s.items)
	s.mu.Unlock()

	observability.SetAppointments(n)
	s.appts.Schedule()
	if hadFlag {
		s.checklist.Schedule()
	}
	return nil
}

// ---- checklist ----

// SetCompleted sets or clears the completion flag of an existing
// appointment.
func (s *AppointmentService) SetCompleted(_ context.Context, id string, completed bool) error {
	if !s.Ready() {
		return ErrNotReady
	}
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return ErrAppointmentNotFound
	}
	changed := s.done[id] != completed
	if completed {
		s.done[id] = true
	} else {
		delete(s.done, id)
	}
	if changed {
		s.version++
	}
	s.mu.Unlock()

	if changed {
		s.checklist.Schedule()
	}
	return nil
}

// Checklist returns the completion flags of live appointments.
func (s *AppointmentService) Checklist(_ context.Context) map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.liveFlags()
}

// ---- internals ----

// prepare normalizes the title, derives a missing date and validates.
func (s *AppointmentService) prepare(a domain.Appointment) (domain.Appointment, error) {
	a.Title = clip(normalizeTitle(a.Title), s.opts.TitleMaxLen)
	if a.Date == "" {
		a.Date = domain.DateFromStart(a.StartTime)
	}
	if a.ID == "" {
		// candidates checked before creation may not have an id yet
		probe := a
		probe.ID = "-"
		return a, ValidateAppointment(probe)
	}
	return a, ValidateAppointment(a)
}

// indexOf must be called with s.mu held.
func (s *AppointmentService) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// liveFlags must be called with s.mu held.
func (s *AppointmentService) liveFlags() map[string]bool {
	out := make(map[string]bool, len(s.done))
	for _, a := range s.items {
		if s.done[a.ID] {
			out[a.ID] = true
		}
	}
	return out
}

func (s *AppointmentService) snapshotAppointments() ([]byte, error) {
	s.mu.RLock()
	list := make([]domain.Appointment, len(s.items))
	copy(list, s.items)
	s.mu.RUnlock()
	return repo.EncodeAppointments(list)
}

func (s *AppointmentService) snapshotChecklist() ([]byte, error) {
	s.mu.RLock()
	flags := s.liveFlags()
	s.mu.RUnlock()
	return repo.EncodeChecklist(flags)
}

func (s *AppointmentService) onWrite(r repo.WriteResult) {
	observability.ObserveStoreWrite(r.Key, r.Duration, r.Err)
	if r.Err != nil {
		s.log.Error().Err(r.Err).Str("key", r.Key).Int("bytes", r.Bytes).Msg("persist failed")
		return
	}
	s.log.Debug().Str("key", r.Key).Int("bytes", r.Bytes).Dur("took", r.Duration).Msg("persisted")
}

func (s *AppointmentService) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tr := otel.Tracer("services/AppointmentService")
	return tr.Start(ctx, name, trace.WithAttributes(attrs...))
}

func fail(span trace.Span, err error) (domain.Appointment, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return domain.Appointment{}, err
}
