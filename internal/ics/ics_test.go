package ics

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-calendar-backend/internal/domain"
)

func sample() []domain.Appointment {
	return []domain.Appointment{
		{ID: "b", Date: "2025-03-10", StartTime: "2025-03-10T10:00:00", Duration: 90, Title: "Planning, Q2; draft"},
		{ID: "a", Date: "2025-03-10", StartTime: "2025-03-10T09:00:00", Duration: 30, Title: "Standup"},
		{ID: "late", Date: "2025-03-11", StartTime: "2025-03-11T23:30:00", Duration: 60, Title: "Night shift"},
	}
}

func TestExport_FloatingTimesAndOrder(t *testing.T) {
	stamp := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	out := string(Export(sample(), Options{ProductID: "-//test//calendar//EN", Name: "Work", Stamp: stamp}))

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:PUBLISH",
		"PRODID:-//test//calendar//EN",
		"X-WR-CALNAME:Work",
		"UID:a",
		"DTSTART:20250310T090000\r\n",
		"DTEND:20250310T093000\r\n",
		"DTSTAMP:20250301T120000Z",
		"SUMMARY:Standup",
		"DTEND:20250312T003000\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("export missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "UID:a") > strings.Index(out, "UID:b") {
		t.Fatalf("events should be in listing order")
	}
	if n := strings.Count(out, "BEGIN:VEVENT"); n != 3 {
		t.Fatalf("want 3 events, got %d", n)
	}
}

func TestExport_SkipsMalformedStart(t *testing.T) {
	list := []domain.Appointment{{ID: "x", Date: "2025-03-10", StartTime: "garbage", Duration: 30, Title: "x"}}
	out := string(Export(list, Options{}))
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatalf("malformed record should be skipped:\n%s", out)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	in := sample()
	got, err := Import(bytes.NewReader(Export(in, Options{Stamp: time.Now()})))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(got) != len(in) {
		t.Fatalf("want %d appointments, got %d", len(in), len(got))
	}
	byID := map[string]domain.Appointment{}
	for _, a := range got {
		byID[a.ID] = a
	}
	for _, want := range in {
		if byID[want.ID] != want {
			t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", want, byID[want.ID])
		}
	}
}

func TestImport_SkipsUnsupportedEvents(t *testing.T) {
	doc := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:allday",
		"DTSTART;VALUE=DATE:20250310",
		"DTEND;VALUE=DATE:20250311",
		"SUMMARY:Holiday",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"DTSTART:20250310T090000",
		"DTEND:20250310T100000",
		"SUMMARY:No uid",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:backwards",
		"DTSTART:20250310T100000",
		"DTEND:20250310T090000",
		"SUMMARY:Backwards",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:ok",
		"DTSTART:20250310T140000",
		"DTEND:20250310T141500",
		"SUMMARY:Call",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	got, err := Import(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	want := domain.Appointment{ID: "ok", Date: "2025-03-10", StartTime: "2025-03-10T14:00:00", Duration: 15, Title: "Call"}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("got %+v", got)
	}
}

func TestImport_Empty(t *testing.T) {
	if _, err := Import(strings.NewReader("  \n")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("want ErrEmpty, got %v", err)
	}
}
