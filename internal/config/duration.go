package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration accepts either a Go duration string ("90s") or a number of
// nanoseconds.
type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// [Duration] implements [json.Unmarshaler]
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid duration %s: %w", data, err)
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s: want a string or a number", data)
	}
	return nil
}

// UnmarshalJSON decodes on top of the current values and names the
// duration field that failed to parse.
func (s *SessionConfig) UnmarshalJSON(data []byte) error {
	type plain SessionConfig
	raw := struct {
		plain
		TTL           json.RawMessage `json:"ttl"`
		SweepInterval json.RawMessage `json:"sweep_interval"`
	}{plain: plain(*s)}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SessionConfig(raw.plain)

	for _, field := range []struct {
		name string
		raw  json.RawMessage
		dst  *Duration
	}{
		{"session.ttl", raw.TTL, &s.TTL},
		{"session.sweep_interval", raw.SweepInterval, &s.SweepInterval},
	} {
		if field.raw == nil {
			continue
		}
		if err := field.dst.UnmarshalJSON(field.raw); err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
	}
	return nil
}
