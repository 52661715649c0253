package cleaner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// RawOwner is the nested owner object of a source payload.
type RawOwner struct {
	Login *string
}

// RawRecord is one untrusted repository payload. Every field is optional:
// a nil pointer, slice or map means the source did not provide it (or
// provided it with the wrong type).
type RawRecord struct {
	Name            *string
	FullName        *string
	Description     *string
	HTMLURL         *string
	StargazersCount *float64
	ForksCount      *float64
	WatchersCount   *float64
	OpenIssuesCount *float64
	Language        *string
	Topics          []string
	Owner           *RawOwner
	CreatedAt       *string
	UpdatedAt       *string
	License         map[string]any
	Homepage        *string
	DefaultBranch   *string
}

// UnmarshalJSON never fails on a syntactically valid document. Values of
// the wrong type are treated as absent and a non-object document decodes
// to an empty record.
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	*r = RawRecord{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil
	}

	r.Name = jsonString(fields, "name")
	r.FullName = jsonString(fields, "full_name")
	r.Description = jsonString(fields, "description")
	r.HTMLURL = jsonString(fields, "html_url")
	r.StargazersCount = jsonCount(fields, "stargazers_count", "stars")
	r.ForksCount = jsonCount(fields, "forks_count", "forks")
	r.WatchersCount = jsonCount(fields, "watchers_count", "watchers")
	r.OpenIssuesCount = jsonCount(fields, "open_issues_count", "open_issues")
	r.Language = jsonString(fields, "language")
	r.Topics = jsonStrings(fields, "topics")
	r.CreatedAt = jsonString(fields, "created_at")
	r.UpdatedAt = jsonString(fields, "updated_at")
	r.License = jsonObject(fields, "license")
	r.Homepage = jsonString(fields, "homepage")
	r.DefaultBranch = jsonString(fields, "default_branch")

	if raw, ok := lookup(fields, "owner"); ok {
		var owner map[string]json.RawMessage
		if err := json.Unmarshal(raw, &owner); err == nil && owner != nil {
			r.Owner = &RawOwner{Login: jsonString(owner, "login")}
		}
	}
	return nil
}

// DecodeRawRecords reads either a JSON array of records or a single record.
func DecodeRawRecords(rd io.Reader) ([]RawRecord, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read raw records: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("decode raw records: empty input")
	}

	if data[0] == '[' {
		var records []RawRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode raw records: %w", err)
		}
		return records, nil
	}

	var record RawRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode raw record: %w", err)
	}
	return []RawRecord{record}, nil
}

// lookup returns the first key present with a non-null value.
func lookup(fields map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok {
			continue
		}
		if isNull(raw) {
			continue
		}
		return raw, true
	}
	return nil, false
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func jsonString(fields map[string]json.RawMessage, keys ...string) *string {
	raw, ok := lookup(fields, keys...)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

func jsonCount(fields map[string]json.RawMessage, keys ...string) *float64 {
	for _, k := range keys {
		raw, ok := lookup(fields, k)
		if !ok {
			continue
		}

		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			return &n
		}

		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if n, ok := parseCount(s); ok {
				return &n
			}
		}
	}
	return nil
}

// parseCount accepts plain and comma-grouped numbers such as "1,234".
func parseCount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func jsonStrings(fields map[string]json.RawMessage, keys ...string) []string {
	raw, ok := lookup(fields, keys...)
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if isNull(item) {
			continue
		}
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func jsonObject(fields map[string]json.RawMessage, keys ...string) map[string]any {
	raw, ok := lookup(fields, keys...)
	if !ok {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
