package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Validation errors
var (
	ErrMissingValue    = errors.New("value field is required")
	ErrValueNotNumeric = errors.New("value must be a number")
	ErrEmptyPayload    = errors.New("request body cannot be empty")
	ErrInvalidJSON     = errors.New("request body is not valid JSON")
)

// Lumens is a luminosity value that accepts either a JSON number or a
// numeric string, since sensor pipelines send both.
type Lumens float64

// UnmarshalJSON coerces numbers and quoted numeric strings.
func (l *Lumens) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrValueNotNumeric
	}

	switch v := raw.(type) {
	case float64:
		*l = Lumens(v)
		return nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return ErrValueNotNumeric
		}
		*l = Lumens(f)
		return nil
	default:
		return ErrValueNotNumeric
	}
}

// LuminosityReading is one inbound webhook payload. It lives only for
// the duration of a single request.
type LuminosityReading struct {
	Value *Lumens `json:"value"`
}

// Validate checks that the reading carries a usable value.
func (r *LuminosityReading) Validate() error {
	if r.Value == nil {
		return ErrMissingValue
	}
	return nil
}

// Lumens returns the parsed luminosity value. Validate must have passed.
func (r *LuminosityReading) Lumens() float64 {
	return float64(*r.Value)
}

// ParseReading decodes a webhook body into a reading.
func ParseReading(body []byte) (*LuminosityReading, error) {
	if len(body) == 0 {
		return nil, ErrEmptyPayload
	}

	var reading LuminosityReading
	if err := json.Unmarshal(body, &reading); err != nil {
		if errors.Is(err, ErrValueNotNumeric) {
			return nil, ErrValueNotNumeric
		}
		return nil, ErrInvalidJSON
	}

	if err := reading.Validate(); err != nil {
		return nil, err
	}
	return &reading, nil
}

// AlertMessage is an outbound notification, built fresh per triggering
// event and never persisted.
type AlertMessage struct {
	To   string `json:"to"`
	Body string `json:"message"`
}
