package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString is a text field that also accepts JSON numbers and booleans.
// Recipe forms post durations and scores either as strings or as numbers,
// and older records were written both ways.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch t := v.(type) {
	case []interface{}:
		// Lists such as ingredients become comma separated text
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if text := flexText(item); text != "" {
				parts = append(parts, text)
			}
		}
		*f = FlexString(strings.Join(parts, ", "))
	default:
		*f = FlexString(flexText(t))
	}
	return nil
}

// flexText renders a decoded JSON value as text. Objects keep their compact JSON form.
func flexText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		out, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(out)
	}
}

// String returns the text value
func (f FlexString) String() string {
	return string(f)
}

// Trimmed returns the value without surrounding whitespace
func (f FlexString) Trimmed() string {
	return strings.TrimSpace(string(f))
}

// Bool interprets the value as a form checkbox
func (f FlexString) Bool() bool {
	switch strings.ToLower(f.Trimmed()) {
	case "true", "1", "on", "si", "sí":
		return true
	}
	return false
}

// Int parses the value as an integer. Decimal inputs such as "4.0" are accepted
// when they have no fractional part.
func (f FlexString) Int() (int, bool) {
	s := f.Trimmed()
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && v == float64(int(v)) {
		return int(v), true
	}
	return 0, false
}
