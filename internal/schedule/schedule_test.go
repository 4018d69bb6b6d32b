package schedule

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/tbourn/go-calendar-backend/internal/domain"
)

func at(s string) time.Time {
	t, err := domain.ParseDateTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

func appt(id, start string, dur int) domain.Appointment {
	return domain.Appointment{ID: id, Date: domain.DateFromStart(start), StartTime: start, Duration: dur, Title: id}
}

func ids(list []domain.Appointment) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}

// --- overlap ---

func TestOverlaps_Table(t *testing.T) {
	cases := []struct {
		name string
		a    string
		durA int
		b    string
		durB int
		want bool
	}{
		{"back to back", "2025-03-10T10:00:00", 60, "2025-03-10T11:00:00", 30, false},
		{"partial", "2025-03-10T09:00:00", 60, "2025-03-10T09:30:00", 30, true},
		{"contained", "2025-03-10T09:00:00", 120, "2025-03-10T09:30:00", 15, true},
		{"identical", "2025-03-10T09:00:00", 30, "2025-03-10T09:00:00", 30, true},
		{"disjoint", "2025-03-10T08:00:00", 30, "2025-03-10T12:00:00", 30, false},
		{"zero duration inside", "2025-03-10T09:00:00", 60, "2025-03-10T09:30:00", 0, false},
		{"negative duration", "2025-03-10T09:00:00", -10, "2025-03-10T08:55:00", 30, false},
		{"one minute overlap", "2025-03-10T09:00:00", 31, "2025-03-10T09:30:00", 30, true},
		{"across midnight", "2025-03-10T23:30:00", 60, "2025-03-11T00:15:00", 10, true},
		{"centuries long", "2025-03-10T09:00:00", 200_000_000, "2025-03-10T10:00:00", 30, true},
		{"max int duration", "2025-03-10T09:00:00", math.MaxInt, "2025-03-10T10:00:00", 30, true},
		{"centuries long, earlier", "2025-03-10T09:00:00", 200_000_000, "2025-03-10T08:00:00", 30, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(at(tc.a), tc.durA, at(tc.b), tc.durB)
			if got != tc.want {
				t.Fatalf("Overlaps(A,B) = %v; want %v", got, tc.want)
			}
			if rev := Overlaps(at(tc.b), tc.durB, at(tc.a), tc.durA); rev != got {
				t.Fatalf("overlap not symmetric: A,B=%v B,A=%v", got, rev)
			}
		})
	}
}

func TestOverlaps_SymmetryGrid(t *testing.T) {
	base := at("2025-03-10T08:00:00")
	for i := 0; i < 12; i++ {
		for j := 0; j < 12; j++ {
			for _, d := range [][2]int{{0, 30}, {15, 15}, {45, 60}, {90, 5}} {
				sa := base.Add(time.Duration(i*15) * time.Minute)
				sb := base.Add(time.Duration(j*15) * time.Minute)
				if Overlaps(sa, d[0], sb, d[1]) != Overlaps(sb, d[1], sa, d[0]) {
					t.Fatalf("asymmetric at i=%d j=%d d=%v", i, j, d)
				}
			}
		}
	}
}

func TestAppointmentsOverlap_MalformedNeverOverlaps(t *testing.T) {
	a := appt("a", "2025-03-10T09:00:00", 60)
	b := domain.Appointment{ID: "b", Date: "2025-03-10", StartTime: "9am", Duration: 60}
	if AppointmentsOverlap(a, b) {
		t.Fatalf("malformed start must not overlap")
	}
}

// --- conflicts ---

func TestFindConflict_StandupSync(t *testing.T) {
	standup := domain.Appointment{ID: "1", Date: "2025-03-10", StartTime: "2025-03-10T09:00:00", Duration: 60, Title: "Standup"}
	sync := domain.Appointment{ID: "2", Date: "2025-03-10", StartTime: "2025-03-10T09:30:00", Duration: 30, Title: "Sync"}
	got, ok := FindConflict(sync, []domain.Appointment{standup}, "")
	if !ok || got.ID != "1" {
		t.Fatalf("expected Standup conflict, got %+v ok=%v", got, ok)
	}
}

func TestFindConflict_ExclusionsAndDates(t *testing.T) {
	existing := []domain.Appointment{
		appt("self", "2025-03-10T09:00:00", 60),
		appt("other-day", "2025-03-11T09:00:00", 60),
	}
	cand := appt("self", "2025-03-10T09:15:00", 30)
	if _, ok := FindConflict(cand, existing, ""); ok {
		t.Fatalf("candidate must not conflict with its own id")
	}
	cand.ID = ""
	if _, ok := FindConflict(cand, existing, "self"); ok {
		t.Fatalf("excludeID must be skipped")
	}
	if c, ok := FindConflict(cand, existing, ""); !ok || c.ID != "self" {
		t.Fatalf("expected conflict with self when not excluded")
	}
}

func TestFindConflict_DeterministicTieBreak(t *testing.T) {
	// Iteration order puts the later one first; the earliest start must win.
	existing := []domain.Appointment{
		appt("late", "2025-03-10T10:00:00", 60),
		appt("zz", "2025-03-10T09:00:00", 90),
		appt("aa", "2025-03-10T09:00:00", 90),
	}
	cand := appt("new", "2025-03-10T09:45:00", 60)
	got, ok := FindConflict(cand, existing, "")
	if !ok || got.ID != "aa" {
		t.Fatalf("tie-break: got %q ok=%v; want aa", got.ID, ok)
	}

	// Same answer regardless of order.
	rev := []domain.Appointment{existing[2], existing[1], existing[0]}
	if got2, _ := FindConflict(cand, rev, ""); got2.ID != got.ID {
		t.Fatalf("order dependent: %q vs %q", got2.ID, got.ID)
	}
}

// --- filters / grouping / sorting ---

func TestSort_DateThenStart(t *testing.T) {
	in := []domain.Appointment{
		appt("c", "2025-03-11T08:00:00", 30),
		appt("b", "2025-03-10T14:00:00", 30),
		appt("a", "2025-03-10T09:00:00", 30),
	}
	got := Sort(in)
	if !reflect.DeepEqual(ids(got), []string{"a", "b", "c"}) {
		t.Fatalf("Sort = %v", ids(got))
	}
	if in[0].ID != "c" {
		t.Fatalf("Sort must not mutate its input")
	}
}

func TestGroupByDate_TwoBuckets(t *testing.T) {
	in := []domain.Appointment{
		appt("x", "2025-03-11T15:00:00", 30),
		appt("y", "2025-03-10T13:00:00", 30),
		appt("z", "2025-03-11T09:00:00", 30),
	}
	groups := GroupByDate(in)
	if len(groups) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(groups))
	}
	if groups[0].Date != "2025-03-10" || !reflect.DeepEqual(ids(groups[0].Appointments), []string{"y"}) {
		t.Fatalf("bucket 0 unexpected: %+v", groups[0])
	}
	if groups[1].Date != "2025-03-11" || !reflect.DeepEqual(ids(groups[1].Appointments), []string{"z", "x"}) {
		t.Fatalf("bucket 1 unexpected: %+v", groups[1])
	}
	if g := GroupByDate(nil); g == nil || len(g) != 0 {
		t.Fatalf("empty input should yield empty, non-nil groups")
	}
}

func TestFilterByMonth_FortyAppointments(t *testing.T) {
	var list []domain.Appointment
	wantMarch := 0
	for i := 0; i < 40; i++ {
		month := 2 + i%3 // Feb, Mar, Apr
		day := 1 + i%28
		if month == 3 {
			wantMarch++
		}
		start := fmt.Sprintf("2025-%02d-%02dT%02d:00:00", month, day, 8+i%10)
		list = append(list, appt(fmt.Sprintf("a%02d", i), start, 30))
	}
	got := FilterByMonth(list, 2025, 3)
	if len(got) != wantMarch || wantMarch != 13 {
		t.Fatalf("March count = %d; want %d (13)", len(got), wantMarch)
	}
	for _, a := range got {
		if a.Date[:7] != "2025-03" {
			t.Fatalf("non-March entry %+v", a)
		}
	}
	if n := len(FilterByMonth(list, 2024, 3)); n != 0 {
		t.Fatalf("other year must not match, got %d", n)
	}
}

func TestFilterByDateAndRange(t *testing.T) {
	list := []domain.Appointment{
		appt("a", "2025-03-09T09:00:00", 30),
		appt("b", "2025-03-10T09:00:00", 30),
		appt("c", "2025-03-12T09:00:00", 30),
	}
	if got := ids(FilterByDate(list, "2025-03-10")); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("FilterByDate = %v", got)
	}
	if got := ids(FilterByRange(list, "2025-03-10", "2025-03-12")); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("FilterByRange = %v", got)
	}
	if got := ids(FilterByRange(list, "", "2025-03-09")); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("open lower bound = %v", got)
	}
}

func TestFilterView(t *testing.T) {
	list := []domain.Appointment{
		appt("past", "2025-03-09T09:00:00", 30),
		appt("today", "2025-03-10T09:00:00", 30),
		appt("future", "2025-03-12T09:00:00", 30),
	}
	if got := ids(FilterView(list, ViewToday, "2025-03-10")); !reflect.DeepEqual(got, []string{"today"}) {
		t.Fatalf("today = %v", got)
	}
	if got := ids(FilterView(list, ViewUpcoming, "2025-03-10")); !reflect.DeepEqual(got, []string{"today", "future"}) {
		t.Fatalf("upcoming = %v", got)
	}
	if got := FilterView(list, ViewAll, "2025-03-10"); len(got) != 3 {
		t.Fatalf("all = %d", len(got))
	}
	if v, ok := ParseView(" Upcoming "); !ok || v != ViewUpcoming {
		t.Fatalf("ParseView upcoming failed")
	}
	if v, ok := ParseView(""); !ok || v != ViewAll {
		t.Fatalf("ParseView empty failed")
	}
	if _, ok := ParseView("week"); ok {
		t.Fatalf("ParseView should reject unknown views")
	}
}

// --- months ---

func TestDaysIn_LeapYears(t *testing.T) {
	cases := map[string]int{"2024-02": 29, "2023-02": 28, "2000-02": 29, "1900-02": 28, "2025-01": 31, "2025-04": 30, "2025-12": 31}
	for s, want := range cases {
		m, err := ParseMonth(s)
		if err != nil {
			t.Fatalf("ParseMonth(%s): %v", s, err)
		}
		days := m.Days()
		if len(days) != want || DaysIn(m.Year, m.Month) != want {
			t.Fatalf("%s: %d days; want %d", s, len(days), want)
		}
		if days[0] != s+"-01" || days[len(days)-1] != fmt.Sprintf("%s-%02d", s, want) {
			t.Fatalf("%s: bounds %s..%s", s, days[0], days[len(days)-1])
		}
	}
}

func TestMonthNavigation_Rollover(t *testing.T) {
	dec := Month{Year: 2025, Month: time.December}
	if got := dec.Next().String(); got != "2026-01" {
		t.Fatalf("next of 2025-12 = %s", got)
	}
	jan := Month{Year: 2025, Month: time.January}
	if got := jan.Prev().String(); got != "2024-12" {
		t.Fatalf("prev of 2025-01 = %s", got)
	}
	mid := Month{Year: 2025, Month: time.June}
	if mid.Next().Prev() != mid || mid.Prev().Next() != mid {
		t.Fatalf("next/prev must be inverse")
	}
}

func TestParseMonth_Invalid(t *testing.T) {
	for _, s := range []string{"", "2025", "2025-13", "25-01", "2025-1"} {
		if _, err := ParseMonth(s); err == nil {
			t.Fatalf("ParseMonth(%q) should fail", s)
		}
	}
}

func TestMonthDays_WeekdaysAndCounts(t *testing.T) {
	list := []domain.Appointment{
		appt("a", "2025-03-10T09:00:00", 30),
		appt("b", "2025-03-10T11:00:00", 30),
		appt("c", "2025-04-01T09:00:00", 30),
	}
	days := MonthDays(Month{Year: 2025, Month: time.March}, list)
	if len(days) != 31 {
		t.Fatalf("len = %d", len(days))
	}
	if days[0].Weekday != "Saturday" { // 2025-03-01
		t.Fatalf("weekday of 2025-03-01 = %s", days[0].Weekday)
	}
	if days[9].Date != "2025-03-10" || days[9].Count != 2 || days[9].Weekday != "Monday" {
		t.Fatalf("day 10 = %+v", days[9])
	}
}

// --- display helpers ---

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{0: "0m", -5: "0m", 45: "45m", 60: "1h", 90: "1h 30m", 125: "2h 5m", 1440: "24h"}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%d) = %q; want %q", in, got, want)
		}
	}
}

func TestDayTimeline(t *testing.T) {
	list := []domain.Appointment{
		appt("long", "2025-03-10T09:30:00", 90), // 09:30-11:00
		appt("short", "2025-03-10T09:00:00", 15),
		appt("other", "2025-03-11T09:00:00", 60),
	}
	slots := DayTimeline("2025-03-10", list, DefaultFirstHour, DefaultLastHour)
	if len(slots) != 13 {
		t.Fatalf("slots = %d; want 13", len(slots))
	}
	if slots[0].Start != "2025-03-10T08:00:00" || slots[0].Label != "8 AM" || len(slots[0].Appointments) != 0 {
		t.Fatalf("8am slot = %+v", slots[0])
	}
	if got := ids(slots[1].Appointments); !reflect.DeepEqual(got, []string{"short", "long"}) {
		t.Fatalf("9am slot = %v", got)
	}
	if got := ids(slots[2].Appointments); !reflect.DeepEqual(got, []string{"long"}) {
		t.Fatalf("10am slot = %v", got)
	}
	if len(slots[3].Appointments) != 0 {
		t.Fatalf("11am slot should be empty (half-open end)")
	}
	if slots[4].Label != "12 PM" || slots[12].Label != "8 PM" {
		t.Fatalf("labels: %s %s", slots[4].Label, slots[12].Label)
	}
	if got := DayTimeline("bad", list, 8, 20); len(got) != 0 {
		t.Fatalf("bad date should give no slots")
	}
}

func TestHourLabel_Midnight(t *testing.T) {
	if HourLabel(0) != "12 AM" || HourLabel(11) != "11 AM" || HourLabel(23) != "11 PM" {
		t.Fatalf("labels: %s %s %s", HourLabel(0), HourLabel(11), HourLabel(23))
	}
}

func TestNowOffset(t *testing.T) {
	if m, ok := NowOffset(at("2025-03-10T09:45:00"), "2025-03-10", 8, 20); !ok || m != 105 {
		t.Fatalf("offset = %d ok=%v; want 105", m, ok)
	}
	if _, ok := NowOffset(at("2025-03-10T07:59:00"), "2025-03-10", 8, 20); ok {
		t.Fatalf("before window should not be ok")
	}
	if _, ok := NowOffset(at("2025-03-10T21:00:00"), "2025-03-10", 8, 20); ok {
		t.Fatalf("after window should not be ok")
	}
	if m, ok := NowOffset(at("2025-03-10T20:59:00"), "2025-03-10", 8, 20); !ok || m != 779 {
		t.Fatalf("last minute = %d ok=%v", m, ok)
	}
	if _, ok := NowOffset(at("2025-03-11T09:00:00"), "2025-03-10", 8, 20); ok {
		t.Fatalf("other day should not be ok")
	}
}
