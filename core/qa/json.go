package qa

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// MarshalJSON writes CreatedDate as a DateLayout calendar day.
func (q Question) MarshalJSON() ([]byte, error) {
	type alias Question
	return json.Marshal(struct {
		alias
		CreatedDate string `json:"date"`
	}{alias(q), q.CreatedDate.UTC().Format(DateLayout)})
}

func (q *Question) UnmarshalJSON(data []byte) error {
	type alias Question
	aux := struct {
		alias
		CreatedDate string `json:"date"`
	}{alias: alias(*q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	day, err := parseDate(aux.CreatedDate)
	if err != nil {
		return err
	}
	*q = Question(aux.alias)
	q.CreatedDate = day
	return nil
}

// MarshalJSON writes CreatedDate as a DateLayout calendar day.
func (a Answer) MarshalJSON() ([]byte, error) {
	type alias Answer
	return json.Marshal(struct {
		alias
		CreatedDate string `json:"date"`
	}{alias(a), a.CreatedDate.UTC().Format(DateLayout)})
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	type alias Answer
	aux := struct {
		alias
		CreatedDate string `json:"date"`
	}{alias: alias(*a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	day, err := parseDate(aux.CreatedDate)
	if err != nil {
		return err
	}
	*a = Answer(aux.alias)
	a.CreatedDate = day
	return nil
}

// parseDate reads a DateLayout day. RFC 3339 timestamps written by earlier
// releases are still accepted and truncated to their UTC day.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid date %q: want %s", s, DateLayout)
	}
	return Day(t), nil
}
