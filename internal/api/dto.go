package api

import (
	"alcyxob/fitcoach/internal/service"
	"bytes"
	"encoding/json"
	"time"
)

// OptionalTime tracks presence and value for JSON PATCH semantics:
//   - Present=false: field absent (don't change)
//   - Present=true, Value=nil: field is JSON null (clear)
//   - Present=true, Value set: new value
type OptionalTime struct {
	Present bool
	Value   *time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

func (o OptionalTime) toService() service.OptionalTime {
	return service.OptionalTime{Present: o.Present, Value: o.Value}
}
