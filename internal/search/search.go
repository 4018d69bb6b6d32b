// Package search ranks appointments by how well their titles match a free
// text query. It is stateless: every call tokenizes the titles it is given,
// so results always reflect the live collection.
//
// Scoring is Jaccard similarity between the query token set and the title
// token set: score = |Q ∩ T| / |Q ∪ T|. With prefix matching enabled a query
// token also matches any title token it prefixes ("stand" matches
// "standup"), which suits type-ahead lookups.
package search

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-calendar-backend/internal/domain"
	"github.com/tbourn/go-calendar-backend/internal/schedule"
)

// Hit is a ranked appointment with its similarity score in (0, 1].
type Hit struct {
	Appointment domain.Appointment `json:"appointment"`
	Score       float64            `json:"score" example:"0.5"`
}

// Option tunes ranking.
type Option func(*config)

type config struct {
	stopwords map[string]struct{}
	prefix    bool
}

func defaultConfig() config {
	return config{prefix: true}
}

// WithStopwords drops the given words from both query and titles.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = fold(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// WithPrefix toggles prefix matching of query tokens (default on).
func WithPrefix(on bool) Option {
	return func(c *config) { c.prefix = on }
}

// Rank returns up to k appointments whose titles share at least one token
// with query, best match first. Ties keep chronological order. k <= 0
// returns every match.
func Rank(query string, list []domain.Appointment, k int, opts ...Option) []Hit {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	q := tokenize(query, cfg.stopwords)
	if len(q) == 0 || len(list) == 0 {
		return []Hit{}
	}

	hits := make([]Hit, 0)
	for _, a := range schedule.Sort(list) {
		t := tokenize(a.Title, cfg.stopwords)
		over := overlap(q, t, cfg.prefix)
		if over == 0 {
			continue
		}
		union := len(q) + len(t) - over
		hits = append(hits, Hit{Appointment: a, Score: float64(over) / float64(union)})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k > 0 && k < len(hits) {
		hits = hits[:k]
	}
	return hits
}

// ---- helpers ----

var wordRE = regexp.MustCompile(`[\p{L}\p{N}]+`)

// fold lower-cases s with Unicode case folding after NFC composition. A
// Caser holds state, so each call builds its own.
func fold(s string) string { return cases.Fold().String(norm.NFC.String(s)) }

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(fold(s), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, skip := stop[w]; skip {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

// overlap counts query tokens that match some title token.
func overlap(q, t map[string]struct{}, prefix bool) int {
	n := 0
	for w := range q {
		if _, ok := t[w]; ok {
			n++
			continue
		}
		if !prefix {
			continue
		}
		for tw := range t {
			if strings.HasPrefix(tw, w) {
				n++
				break
			}
		}
	}
	return n
}
