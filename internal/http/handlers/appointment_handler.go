// Appointment HTTP handlers.
//
// This file exposes REST endpoints for the appointment store:
//   - GET    /appointments                 (list, filtered, ETag support)
//   - GET    /appointments/grouped         (list bucketed by date)
//   - GET    /appointments/search          (rank by title match)
//   - GET    /appointments/{id}            (read one)
//   - POST   /appointments                 (create)
//   - PATCH  /appointments/{id}            (merge update)
//   - DELETE /appointments/{id}            (idempotent delete)
//   - POST   /appointments/conflicts       (dry-run conflict check)
//   - PUT    /appointments/{id}/completed  (checklist flag)
//   - GET    /checklist                    (checklist flags)
//
// Handlers are transport-thin: they parse query filters and payloads, call
// the store, and translate store errors into the error envelope.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-calendar-backend/internal/domain"
	"github.com/tbourn/go-calendar-backend/internal/schedule"
	"github.com/tbourn/go-calendar-backend/internal/search"
	"github.com/tbourn/go-calendar-backend/internal/services"
	"github.com/tbourn/go-calendar-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// AppointmentStore defines the appointment operations consumed by HTTP
// handlers. *services.AppointmentService satisfies it.
//
// Implementations must be safe for concurrent use.
type AppointmentStore interface {
	// Ready reports whether the initial load has completed.
	Ready() bool
	// Version increases on every change to appointments or flags.
	Version() uint64
	// Now returns the store's current instant.
	Now() time.Time

	List(ctx context.Context) []domain.Appointment
	Get(ctx context.Context, id string) (domain.Appointment, error)
	Create(ctx context.Context, a domain.Appointment) (domain.Appointment, error)
	Update(ctx context.Context, id string, patch domain.AppointmentPatch) (domain.Appointment, error)
	Delete(ctx context.Context, id string) error
	CheckConflict(ctx context.Context, candidate domain.Appointment, excludeID string) (*domain.Appointment, error)

	SetCompleted(ctx context.Context, id string, completed bool) error
	Checklist(ctx context.Context) map[string]bool
}

var _ AppointmentStore = (*services.AppointmentService)(nil)

//
// Handler wiring
//

// Options tunes calendar presentation.
type Options struct {
	// FirstHour and LastHour bound the day timeline (inclusive).
	FirstHour int
	LastHour  int
	// CalendarName is written into iCalendar exports.
	CalendarName string
	// SearchStopwords are ignored by title search.
	SearchStopwords []string
}

// Handlers groups HTTP endpoints for appointments, the checklist and the
// calendar views.
type Handlers struct {
	store  AppointmentStore
	opts   Options
	search []search.Option
}

// New constructs and returns a Handlers instance bound to store.
func New(store AppointmentStore, opts Options) *Handlers {
	if opts.FirstHour == 0 && opts.LastHour == 0 {
		opts.FirstHour, opts.LastHour = schedule.DefaultFirstHour, schedule.DefaultLastHour
	}
	if opts.CalendarName == "" {
		opts.CalendarName = "Appointments"
	}
	h := &Handlers{store: store, opts: opts}
	if len(opts.SearchStopwords) > 0 {
		h.search = append(h.search, search.WithStopwords(opts.SearchStopwords))
	}
	return h
}

//
// DTOs
//

// ListAppointmentsResponse wraps a filtered, sorted list.
type ListAppointmentsResponse struct {
	Appointments []domain.Appointment `json:"appointments"`
	// Count is the number of matches before any limit is applied.
	Count        int                  `json:"count"`
	Loading      bool                 `json:"loading"`
}

// GroupedAppointmentsResponse wraps per-date buckets.
type GroupedAppointmentsResponse struct {
	Groups  []schedule.DateGroup `json:"groups"`
	Loading bool                 `json:"loading"`
}

// ConflictCheckRequest is the payload of a dry-run conflict check.
type ConflictCheckRequest struct {
	Date      string `json:"date" example:"2025-03-10"`
	StartTime string `json:"startTime" example:"2025-03-10T09:15:00"`
	Duration  int    `json:"duration" example:"30"`
	Title     string `json:"title" example:"Sync"`
	// ExcludeID names the appointment being edited.
	ExcludeID string `json:"excludeId,omitempty" example:"a1"`
}

// ConflictCheckResponse reports the blocking appointment, if any.
type ConflictCheckResponse struct {
	Conflict    bool                `json:"conflict"`
	Appointment *domain.Appointment `json:"appointment,omitempty"`
}

// SetCompletedRequest sets or clears a checklist flag.
type SetCompletedRequest struct {
	Completed *bool `json:"completed" binding:"required" example:"true"`
}

// SearchResponse lists title matches, best first.
type SearchResponse struct {
	Query   string       `json:"query" example:"standup"`
	Hits    []search.Hit `json:"hits"`
	Loading bool         `json:"loading"`
}

// ChecklistResponse maps appointment ids to their completion flag.
type ChecklistResponse struct {
	Completed map[string]bool `json:"completed"`
}

//
// Helpers
//

// maxListLimit caps the limit query parameter.
const maxListLimit = 1000

// defaultSearchLimit applies when a search names no limit.
const defaultSearchLimit = 20

// today is the store's current local calendar date.
func (h *Handlers) today() string { return domain.LocalDate(h.store.Now()) }

// filtered applies the list query filters (date, month, from/to, view) and
// sorts the result. It writes a 400 and returns false on a bad filter.
func (h *Handlers) filtered(c *gin.Context) ([]domain.Appointment, bool) {
	list := h.store.List(c.Request.Context())

	if d := strings.TrimSpace(c.Query("date")); d != "" {
		if _, err := domain.ParseDate(d); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeInvalidDate, "date must be YYYY-MM-DD")
			return nil, false
		}
		list = schedule.FilterByDate(list, d)
	}
	if m := strings.TrimSpace(c.Query("month")); m != "" {
		month, err := schedule.ParseMonth(m)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeInvalidMonth, err.Error())
			return nil, false
		}
		list = month.Filter(list)
	}
	from, to := strings.TrimSpace(c.Query("from")), strings.TrimSpace(c.Query("to"))
	for _, v := range []string{from, to} {
		if v == "" {
			continue
		}
		if _, err := domain.ParseDate(v); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeInvalidDate, "from and to must be YYYY-MM-DD")
			return nil, false
		}
	}
	if from != "" || to != "" {
		list = schedule.FilterByRange(list, from, to)
	}
	view, ok := schedule.ParseView(c.Query("view"))
	if !ok {
		fail(c, http.StatusBadRequest, ErrCodeInvalidView, "view must be all, today or upcoming")
		return nil, false
	}
	list = schedule.FilterView(list, view, h.today())
	return schedule.Sort(list), true
}

// notModified sets a weak ETag derived from the store version and today's
// date, and answers 304 when the client already has it.
func (h *Handlers) notModified(c *gin.Context, scope string) bool {
	etag := fmt.Sprintf(`W/"%s:%d:%s"`, scope, h.store.Version(), h.today())
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

// storeError maps store errors onto the error envelope.
func storeError(c *gin.Context, err error) {
	var ce *services.ConflictError
	if errors.As(err, &ce) {
		conflict(c, ce.Existing, fmt.Sprintf("overlaps %q at %s", ce.Existing.Title, ce.Existing.StartTime))
		return
	}
	status, code := classify(err)
	msg := err.Error()
	switch code {
	case ErrCodeNotReady:
		msg = "appointments are still loading"
	case ErrCodeNotFound:
		msg = "appointment not found"
	}
	fail(c, status, code, msg)
}

// classify returns the HTTP status and error code for a store error.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, services.ErrNotReady):
		return http.StatusServiceUnavailable, ErrCodeNotReady
	case errors.Is(err, services.ErrAppointmentNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, services.ErrDuplicateID):
		return http.StatusConflict, ErrCodeDuplicateID
	case errors.Is(err, services.ErrDateMismatch):
		return http.StatusBadRequest, ErrCodeDateMismatch
	case errors.Is(err, services.ErrInvalidAppointment):
		return http.StatusBadRequest, ErrCodeValidation
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}

//
// Handlers
//

// ListAppointments godoc
// @ID          listAppointments
// @Summary     List appointments
// @Description Returns appointments sorted by date and start time. Filters combine. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Appointments
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"appointments:3:2025-03-10\")
// @Param       date           query   string  false "Single date"                 example(2025-03-10)
// @Param       month          query   string  false "Calendar month"              example(2025-03)
// @Param       from           query   string  false "First date (inclusive)"      example(2025-03-01)
// @Param       to             query   string  false "Last date (inclusive)"       example(2025-03-31)
// @Param       view           query   string  false "Relative view"               Enums(all, today, upcoming) default(all)
// @Param       limit          query   int     false "Maximum number of items"     minimum(1)
//
// @Success     200  {object} handlers.ListAppointmentsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad filter"
// @Router      /appointments [get]
func (h *Handlers) ListAppointments(c *gin.Context) {
	list, good := h.filtered(c)
	if !good || h.notModified(c, "appointments") {
		return
	}
	total := len(list)
	if n := utils.LimitParam(c.Query("limit"), maxListLimit); n > 0 && n < total {
		list = list[:n]
	}
	ok(c, http.StatusOK, ListAppointmentsResponse{
		Appointments: list,
		Count:        total,
		Loading:      !h.store.Ready(),
	})
}

// GroupedAppointments godoc
// @ID          groupedAppointments
// @Summary     List appointments grouped by date
// @Description Same filters as the list endpoint; buckets are in ascending date order.
// @Tags        Appointments
// @Produce     json
//
// @Param       date   query   string  false "Single date"             example(2025-03-10)
// @Param       month  query   string  false "Calendar month"          example(2025-03)
// @Param       from   query   string  false "First date (inclusive)"  example(2025-03-01)
// @Param       to     query   string  false "Last date (inclusive)"   example(2025-03-31)
// @Param       view   query   string  false "Relative view"           Enums(all, today, upcoming) default(all)
//
// @Success     200  {object} handlers.GroupedAppointmentsResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad filter"
// @Router      /appointments/grouped [get]
func (h *Handlers) GroupedAppointments(c *gin.Context) {
	list, good := h.filtered(c)
	if !good || h.notModified(c, "grouped") {
		return
	}
	ok(c, http.StatusOK, GroupedAppointmentsResponse{
		Groups:  schedule.GroupByDate(list),
		Loading: !h.store.Ready(),
	})
}

// SearchAppointments godoc
// @ID          searchAppointments
// @Summary     Search appointments by title
// @Description Ranks appointments by token overlap between the query and their titles. Query words also match title words they prefix. Ties are in chronological order.
// @Tags        Appointments
// @Produce     json
//
// @Param       q      query   string  true  "Search text"              example(standup)
// @Param       limit  query   int     false "Maximum number of hits"   minimum(1) default(20)
//
// @Success     200  {object} handlers.SearchResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing query"
// @Router      /appointments/search [get]
func (h *Handlers) SearchAppointments(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q is required")
		return
	}
	limit := utils.LimitParam(c.Query("limit"), maxListLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	ok(c, http.StatusOK, SearchResponse{
		Query:   q,
		Hits:    search.Rank(q, h.store.List(c.Request.Context()), limit, h.search...),
		Loading: !h.store.Ready(),
	})
}

// GetAppointment godoc
// @ID          getAppointment
// @Summary     Get an appointment
// @Tags        Appointments
// @Produce     json
// @Param       id   path  string  true  "Appointment ID"  example(a1)
// @Success     200  {object} domain.Appointment
// @Failure     404  {object} handlers.ErrorResponse "Appointment not found"
// @Router      /appointments/{id} [get]
func (h *Handlers) GetAppointment(c *gin.Context) {
	a, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}
	ok(c, http.StatusOK, a)
}

// CreateAppointment godoc
// @ID          createAppointment
// @Summary     Create an appointment
// @Description Validates the record, assigns an id when none is given, and rejects overlaps with existing appointments on the same date. The date is derived from startTime when omitted.
// @Tags        Appointments
// @Accept      json
// @Produce     json
//
// @Param       body  body  domain.Appointment  true  "Appointment"
//
// @Success     201  {object} domain.Appointment
// @Failure     400  {object} handlers.ErrorResponse    "Validation failed"
// @Failure     409  {object} handlers.ConflictResponse "Overlaps an existing appointment or duplicate id"
// @Failure     503  {object} handlers.ErrorResponse    "Store still loading"
// @Router      /appointments [post]
func (h *Handlers) CreateAppointment(c *gin.Context) {
	var req domain.Appointment
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	a, err := h.store.Create(c.Request.Context(), req)
	if err != nil {
		storeError(c, err)
		return
	}
	c.Header("Location", strings.TrimSuffix(c.Request.URL.Path, "/")+"/"+a.ID)
	ok(c, http.StatusCreated, a)
}

// UpdateAppointment godoc
// @ID          updateAppointment
// @Summary     Update an appointment
// @Description Merges the given fields into the stored record. A new startTime without a date moves the date with it; a new date without a startTime keeps the time of day.
// @Tags        Appointments
// @Accept      json
// @Produce     json
//
// @Param       id    path  string                   true  "Appointment ID"  example(a1)
// @Param       body  body  domain.AppointmentPatch  true  "Fields to change"
//
// @Success     200  {object} domain.Appointment
// @Failure     400  {object} handlers.ErrorResponse    "Validation failed"
// @Failure     404  {object} handlers.ErrorResponse    "Appointment not found"
// @Failure     409  {object} handlers.ConflictResponse "Overlaps an existing appointment"
// @Failure     503  {object} handlers.ErrorResponse    "Store still loading"
// @Router      /appointments/{id} [patch]
func (h *Handlers) UpdateAppointment(c *gin.Context) {
	var patch domain.AppointmentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	a, err := h.store.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		storeError(c, err)
		return
	}
	ok(c, http.StatusOK, a)
}

// DeleteAppointment godoc
// @ID          deleteAppointment
// @Summary     Delete an appointment
// @Description Removes the appointment and its checklist flag. Unknown ids also return 204.
// @Tags        Appointments
// @Param       id   path  string  true  "Appointment ID"  example(a1)
// @Success     204  {string} string "No Content"
// @Failure     503  {object} handlers.ErrorResponse "Store still loading"
// @Router      /appointments/{id} [delete]
func (h *Handlers) DeleteAppointment(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, err)
		return
	}
	noContent(c)
}

// CheckConflict godoc
// @ID          checkConflict
// @Summary     Check a candidate for conflicts
// @Description Validates the candidate and reports the existing appointment it would overlap, without saving anything.
// @Tags        Appointments
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.ConflictCheckRequest  true  "Candidate"
// @Success     200  {object} handlers.ConflictCheckResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Router      /appointments/conflicts [post]
func (h *Handlers) CheckConflict(c *gin.Context) {
	var req ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	candidate := domain.Appointment{
		ID:        req.ExcludeID,
		Date:      req.Date,
		StartTime: req.StartTime,
		Duration:  req.Duration,
		Title:     req.Title,
	}
	existing, err := h.store.CheckConflict(c.Request.Context(), candidate, req.ExcludeID)
	if err != nil {
		storeError(c, err)
		return
	}
	ok(c, http.StatusOK, ConflictCheckResponse{Conflict: existing != nil, Appointment: existing})
}

// SetCompleted godoc
// @ID          setCompleted
// @Summary     Mark an appointment done or not done
// @Tags        Checklist
// @Accept      json
// @Param       id    path  string                        true  "Appointment ID"  example(a1)
// @Param       body  body  handlers.SetCompletedRequest  true  "Flag"
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Appointment not found"
// @Failure     503  {object} handlers.ErrorResponse "Store still loading"
// @Router      /appointments/{id}/completed [put]
func (h *Handlers) SetCompleted(c *gin.Context) {
	var req SetCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "completed (bool) required")
		return
	}
	if err := h.store.SetCompleted(c.Request.Context(), c.Param("id"), *req.Completed); err != nil {
		storeError(c, err)
		return
	}
	noContent(c)
}

// Checklist godoc
// @ID          checklist
// @Summary     Checklist flags
// @Description Completion flags of live appointments. Absent ids are not completed.
// @Tags        Checklist
// @Produce     json
// @Success     200  {object} handlers.ChecklistResponse
// @Router      /checklist [get]
func (h *Handlers) Checklist(c *gin.Context) {
	if h.notModified(c, "checklist") {
		return
	}
	ok(c, http.StatusOK, ChecklistResponse{Completed: h.store.Checklist(c.Request.Context())})
}
