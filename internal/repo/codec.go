package repo

import (
	"bytes"
	"encoding/json"

	"github.com/tbourn/go-calendar-backend/internal/domain"
)

// EncodeAppointments serializes the full collection as a JSON array of
// records. A nil or empty collection encodes as "[]".
func EncodeAppointments(list []domain.Appointment) ([]byte, error) {
	if list == nil {
		list = []domain.Appointment{}
	}
	return json.Marshal(list)
}

// DecodeAppointments parses a collection blob. Unknown fields are ignored
// and absent fields are left zero; callers validate each record. An empty
// or "null" blob decodes to an empty collection.
func DecodeAppointments(b []byte) ([]domain.Appointment, error) {
	if isBlank(b) {
		return []domain.Appointment{}, nil
	}
	var out []domain.Appointment
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Appointment{}
	}
	return out, nil
}

// EncodeChecklist serializes the completion flags as a JSON object keyed by
// appointment id.
func EncodeChecklist(flags map[string]bool) ([]byte, error) {
	if flags == nil {
		flags = map[string]bool{}
	}
	return json.Marshal(flags)
}

// DecodeChecklist parses a checklist blob. An empty or "null" blob decodes
// to an empty map.
func DecodeChecklist(b []byte) (map[string]bool, error) {
	out := map[string]bool{}
	if isBlank(b) {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]bool{}
	}
	return out, nil
}

func isBlank(b []byte) bool {
	t := bytes.TrimSpace(b)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}
