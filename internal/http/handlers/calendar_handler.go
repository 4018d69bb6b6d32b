// Calendar view handlers: month grid, day timeline and iCalendar export and
// import.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-calendar-backend/internal/domain"
	"github.com/tbourn/go-calendar-backend/internal/http/middleware"
	"github.com/tbourn/go-calendar-backend/internal/ics"
	"github.com/tbourn/go-calendar-backend/internal/schedule"
)

// MonthResponse describes one calendar month.
type MonthResponse struct {
	Month       string              `json:"month" example:"2025-03"`
	Prev        string              `json:"prev" example:"2025-02"`
	Next        string              `json:"next" example:"2025-04"`
	DaysInMonth int                 `json:"daysInMonth" example:"31"`
	Days        []schedule.MonthDay `json:"days"`
	Total       int                 `json:"total" example:"13"`
}

// DayResponse is the hourly timeline of one date.
type DayResponse struct {
	Date    string `json:"date" example:"2025-03-10"`
	Weekday string `json:"weekday" example:"Monday"`
	// Appointments lists every appointment of the date, including those
	// outside the timeline window.
	Appointments []domain.Appointment `json:"appointments"`
	Slots        []schedule.Slot      `json:"slots"`
	// TotalDuration is the summed duration, formatted like "1h 30m".
	TotalDuration string `json:"totalDuration" example:"1h 30m"`
	// NowOffset is the current-time indicator in minutes from the first
	// slot; omitted when now is not within the window on this date.
	NowOffset *int `json:"nowOffset,omitempty" example:"75"`
}

// ImportSkip names an imported event that was not stored and why.
type ImportSkip struct {
	ID      string `json:"id" example:"a7"`
	Code    string `json:"code" example:"conflict"`
	Message string `json:"message" example:"appointment conflicts with an existing appointment: \"Standup\" at 2025-03-10T09:00:00"`
}

// ImportResponse reports the outcome of an iCalendar import.
type ImportResponse struct {
	Imported []domain.Appointment `json:"imported"`
	Skipped  []ImportSkip         `json:"skipped"`
}

// MonthView godoc
// @ID          monthView
// @Summary     Month overview
// @Description Enumerates the days of a month with weekday names and appointment counts. "current" selects the month containing today.
// @Tags        Calendar
// @Produce     json
// @Param       month  path  string  true  "Month (YYYY-MM or current)"  example(2025-03)
// @Success     200  {object} handlers.MonthResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid month"
// @Router      /calendar/months/{month} [get]
func (h *Handlers) MonthView(c *gin.Context) {
	raw := strings.TrimSpace(c.Param("month"))
	var m schedule.Month
	if raw == "current" {
		m = schedule.MonthOf(domain.LocalWallClock(h.store.Now()))
	} else {
		var err error
		if m, err = schedule.ParseMonth(raw); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeInvalidMonth, err.Error())
			return
		}
	}

	list := h.store.List(c.Request.Context())
	days := schedule.MonthDays(m, list)
	total := 0
	for _, d := range days {
		total += d.Count
	}
	ok(c, http.StatusOK, MonthResponse{
		Month:       m.String(),
		Prev:        m.Prev().String(),
		Next:        m.Next().String(),
		DaysInMonth: len(days),
		Days:        days,
		Total:       total,
	})
}

// DayView godoc
// @ID          dayView
// @Summary     Day timeline
// @Description Hourly slots across the configured window with the appointments overlapping each hour, plus the current-time offset when the date is today. "today" selects the current date.
// @Tags        Calendar
// @Produce     json
// @Param       date  path  string  true  "Date (YYYY-MM-DD or today)"  example(2025-03-10)
// @Success     200  {object} handlers.DayResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid date"
// @Router      /calendar/days/{date} [get]
func (h *Handlers) DayView(c *gin.Context) {
	now := domain.LocalWallClock(h.store.Now())
	date := strings.TrimSpace(c.Param("date"))
	if date == "today" {
		date = domain.FormatDate(now)
	}
	day, err := domain.ParseDate(date)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidDate, "date must be YYYY-MM-DD")
		return
	}

	list := h.store.List(c.Request.Context())
	todays := schedule.Sort(schedule.FilterByDate(list, date))
	total := 0
	for _, a := range todays {
		total += a.Duration
	}
	resp := DayResponse{
		Date:          date,
		Weekday:       day.Weekday().String(),
		Appointments:  todays,
		Slots:         schedule.DayTimeline(date, list, h.opts.FirstHour, h.opts.LastHour),
		TotalDuration: schedule.FormatDuration(total),
	}
	if off, inWindow := schedule.NowOffset(now, date, h.opts.FirstHour, h.opts.LastHour); inWindow {
		resp.NowOffset = &off
	}
	ok(c, http.StatusOK, resp)
}

// ExportICS godoc
// @ID          exportICS
// @Summary     iCalendar export
// @Description Exports appointments as text/calendar. Accepts the same filters as the list endpoint.
// @Tags        Calendar
// @Produce     text/calendar
// @Param       month  query  string  false "Calendar month"  example(2025-03)
// @Param       view   query  string  false "Relative view"   Enums(all, today, upcoming) default(all)
// @Success     200  {string} string "VCALENDAR document"
// @Failure     400  {object} handlers.ErrorResponse "Bad filter"
// @Failure     503  {object} handlers.ErrorResponse "Store still loading"
// @Router      /calendar.ics [get]
func (h *Handlers) ExportICS(c *gin.Context) {
	if !h.store.Ready() {
		fail(c, http.StatusServiceUnavailable, ErrCodeNotReady, "appointments are still loading")
		return
	}
	list, good := h.filtered(c)
	if !good {
		return
	}
	body := ics.Export(list, ics.Options{
		ProductID: "-//go-calendar-backend//api//EN",
		Name:      h.opts.CalendarName,
		Stamp:     h.store.Now(),
	})
	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Data(http.StatusOK, ics.ContentType, body)
}

// ImportICS godoc
// @ID          importICS
// @Summary     iCalendar import
// @Description Restores appointments from a VCALENDAR document (for example a backup written by the export). Events are created in chronological order through the same validation and conflict checks as a regular create; events that fail are reported under skipped.
// @Tags        Calendar
// @Accept      text/calendar
// @Produce     json
// @Param       body  body  string  true  "VCALENDAR document"
// @Success     200  {object} handlers.ImportResponse
// @Failure     400  {object} handlers.ErrorResponse "Unreadable document"
// @Failure     413  {object} handlers.ErrorResponse "Body too large"
// @Failure     503  {object} handlers.ErrorResponse "Store still loading"
// @Router      /calendar.ics [post]
func (h *Handlers) ImportICS(c *gin.Context) {
	if !h.store.Ready() {
		fail(c, http.StatusServiceUnavailable, ErrCodeNotReady, "appointments are still loading")
		return
	}
	events, err := ics.Import(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "calendar exceeds the body limit")
		case errors.Is(err, ics.ErrEmpty):
			fail(c, http.StatusBadRequest, ErrCodeInvalidCalendar, "calendar body is empty")
		default:
			fail(c, http.StatusBadRequest, ErrCodeInvalidCalendar, err.Error())
		}
		return
	}

	resp := ImportResponse{Imported: []domain.Appointment{}, Skipped: []ImportSkip{}}
	for _, a := range schedule.Sort(events) {
		saved, err := h.store.Create(c.Request.Context(), a)
		if err != nil {
			_, code := classify(err)
			resp.Skipped = append(resp.Skipped, ImportSkip{ID: a.ID, Code: code, Message: err.Error()})
			continue
		}
		resp.Imported = append(resp.Imported, saved)
	}
	middleware.LoggerFrom(c).Info().
		Int("imported", len(resp.Imported)).
		Int("skipped", len(resp.Skipped)).
		Msg("calendar import")
	ok(c, http.StatusOK, resp)
}
