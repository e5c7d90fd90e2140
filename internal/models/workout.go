package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Workout is a workout definition as served by the catalog.
type Workout struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	AuthorName  string     `json:"authorName" yaml:"author_name"`
	AuthorEmail string     `json:"authorEmail" yaml:"author_email"`
	Motivation  bool       `json:"motivation" yaml:"motivation"`
	Exercises   []Exercise `json:"exercises" yaml:"exercises"`
}

// Exercise is one exercise of a workout definition. Numeric fields are kept
// as they arrive from the catalog and validated by the plan builder.
type Exercise struct {
	Name     string `json:"name" yaml:"name"`
	Reps     Count  `json:"reps" yaml:"reps"`
	Series   Count  `json:"series" yaml:"series"`
	Interval Count  `json:"interval" yaml:"interval"`
	HowTo    string `json:"howTo" yaml:"how_to"`
}

// AuthorFirstName returns the first word of the author's display name.
func (w Workout) AuthorFirstName() string {
	name := strings.TrimSpace(w.AuthorName)
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}

// Count is a numeric catalog field that may be sent as a JSON number or a
// numeric string ("10" and 10 are both accepted).
type Count string

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Count(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Count(n.String())
	return nil
}
