package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// FlexInt decodes a JSON number or a numeric string. Anything else,
// including null and malformed strings, decodes to zero without error.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		*f = FlexInt(int64(n))
		return nil
	}

	*f = 0
	return nil
}

// FlexString decodes a JSON string or number into its textual form.
// Identity numbers arrive as either depending on the endpoint.
type FlexString string

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

	*f = FlexString(string(data))
	return nil
}

var displayDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDisplayDate renders a backend timestamp as day/month/year.
// Unparseable input is returned as-is.
func FormatDisplayDate(raw string) string {
	for _, layout := range displayDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2/1/2006")
		}
	}
	return raw
}
