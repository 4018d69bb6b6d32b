package search

import (
	"testing"

	"github.com/tbourn/go-calendar-backend/internal/domain"
)

// ---------- helpers ----------
func appt(id, start, title string) domain.Appointment {
	return domain.Appointment{ID: id, Date: start[:10], StartTime: start, Duration: 30, Title: title}
}

func idsOf(hits []Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Appointment.ID
	}
	return out
}

func sample() []domain.Appointment {
	return []domain.Appointment{
		appt("3", "2025-03-12T10:00:00", "Quarterly planning"),
		appt("1", "2025-03-10T09:00:00", "Team standup"),
		appt("2", "2025-03-11T09:00:00", "Standup"),
		appt("4", "2025-03-13T15:00:00", "Dentist"),
	}
}

// ---------- options ----------
func TestOptionsAndDefaults(t *testing.T) {
	def := defaultConfig()
	if def.stopwords != nil || !def.prefix {
		t.Fatalf("defaultConfig unexpected: %#v", def)
	}

	cfg := def
	WithStopwords([]string{"  The ", "", "AN"})(&cfg)
	if _, ok := cfg.stopwords["the"]; !ok {
		t.Fatalf("WithStopwords failed (missing 'the'): %#v", cfg.stopwords)
	}
	if _, ok := cfg.stopwords["an"]; !ok {
		t.Fatalf("WithStopwords failed (missing 'an'): %#v", cfg.stopwords)
	}

	cfg2 := def
	WithStopwords(nil)(&cfg2)
	if cfg2.stopwords != nil {
		t.Fatalf("empty stopwords should remain nil")
	}

	WithPrefix(false)(&cfg)
	if cfg.prefix {
		t.Fatalf("WithPrefix(false) ignored")
	}
}

// ---------- ranking ----------
func TestRank_ExactBeatsPartial_TiesChronological(t *testing.T) {
	hits := Rank("standup", sample(), 0)
	got := idsOf(hits)
	// "Standup" is a full match (1.0); "Team standup" scores 0.5
	if len(got) != 2 || got[0] != "2" || got[1] != "1" {
		t.Fatalf("order = %v", got)
	}
	if hits[0].Score != 1 || hits[1].Score != 0.5 {
		t.Fatalf("scores = %v, %v", hits[0].Score, hits[1].Score)
	}

	// equal scores keep date order
	tie := Rank("team quarterly", sample(), 0)
	if ids := idsOf(tie); len(ids) != 2 || ids[0] != "1" || ids[1] != "3" {
		t.Fatalf("tie order = %v", ids)
	}
}

func TestRank_PrefixAndCaseFolding(t *testing.T) {
	if ids := idsOf(Rank("PLAN", sample(), 0)); len(ids) != 1 || ids[0] != "3" {
		t.Fatalf("prefix match = %v", ids)
	}
	if ids := idsOf(Rank("plan", sample(), 0, WithPrefix(false))); len(ids) != 0 {
		t.Fatalf("prefix disabled should not match: %v", ids)
	}

	list := []domain.Appointment{appt("s", "2025-03-10T08:00:00", "STRASSE Begehung")}
	if ids := idsOf(Rank("straße", list, 0)); len(ids) != 1 {
		t.Fatalf("case folding failed: %v", ids)
	}
}

func TestRank_LimitStopwordsAndEmpty(t *testing.T) {
	if hits := Rank("standup", sample(), 1); len(hits) != 1 || hits[0].Appointment.ID != "2" {
		t.Fatalf("k=1 -> %v", idsOf(hits))
	}
	if hits := Rank("the", []domain.Appointment{appt("x", "2025-03-10T08:00:00", "The review")}, 0, WithStopwords([]string{"the"})); len(hits) != 0 {
		t.Fatalf("stopword-only query should match nothing: %v", idsOf(hits))
	}
	if hits := Rank("   ", sample(), 0); hits == nil || len(hits) != 0 {
		t.Fatalf("blank query -> %#v", hits)
	}
	if hits := Rank("standup", nil, 0); hits == nil || len(hits) != 0 {
		t.Fatalf("empty list -> %#v", hits)
	}
	if hits := Rank("gym", sample(), 0); len(hits) != 0 {
		t.Fatalf("no match -> %v", idsOf(hits))
	}
}
