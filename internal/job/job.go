package job

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the lifecycle state of a job. Its value is the column label shown
// on the board and written to storage.
type Status string

const (
	StatusNeedToStart Status = "Need to Start"
	StatusInProgress  Status = "In Progress"
	StatusCompleted   Status = "Completed"
	StatusStopped     Status = "Stopped"
)

// Statuses lists every status in board column order.
var Statuses = []Status{StatusNeedToStart, StatusInProgress, StatusCompleted, StatusStopped}

// Category is the kind of work a job performs.
type Category string

const (
	CategoryReadEmails Category = "Read Emails"
	CategoryWebParsing Category = "Web Parsing"
	CategorySendEmails Category = "Send Emails"
)

var Categories = []Category{CategoryReadEmails, CategoryWebParsing, CategorySendEmails}

type Job struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Status   Status   `json:"status"`
	Category Category `json:"category,omitempty"`
}

var statusAliases = map[string]Status{
	"needtostart": StatusNeedToStart,
	"tostart":     StatusNeedToStart,
	"inprogress":  StatusInProgress,
	"completed":   StatusCompleted,
	"stopped":     StatusStopped,
}

var categoryAliases = map[string]Category{
	"reademails": CategoryReadEmails,
	"webparsing": CategoryWebParsing,
	"sendemails": CategorySendEmails,
}

// fold reduces a label to its comparison key: "To Start", "to-start" and
// "TO_START" all fold to "tostart".
func fold(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseStatus resolves a status label, accepting the form alias "To Start".
func ParseStatus(s string) (Status, bool) {
	st, ok := statusAliases[fold(s)]
	return st, ok
}

// ParseCategory resolves a category label such as "Read Emails" or "ReadEmails".
func ParseCategory(s string) (Category, bool) {
	c, ok := categoryAliases[fold(s)]
	return c, ok
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// CheckSequence returns an error for the first job whose id repeats or whose
// status is not one of Statuses.
func CheckSequence(jobs []Job) error {
	seen := make(map[int]bool, len(jobs))
	for _, j := range jobs {
		if seen[j.ID] {
			return fmt.Errorf("duplicate job id %d", j.ID)
		}
		seen[j.ID] = true
		if !j.Status.Valid() {
			return fmt.Errorf("job %d has invalid status %q", j.ID, j.Status)
		}
	}
	return nil
}

func (s Status) String() string { return string(s) }

func (c Category) String() string { return string(c) }

// UnmarshalJSON accepts any recognised label and normalizes it. An empty
// status decodes to the zero value so callers can decide how to repair it.
func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		*s = ""
		return nil
	}
	st, ok := ParseStatus(raw)
	if !ok {
		return fmt.Errorf("unknown job status %q", raw)
	}
	*s = st
	return nil
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		*c = ""
		return nil
	}
	cat, ok := ParseCategory(raw)
	if !ok {
		return fmt.Errorf("unknown job category %q", raw)
	}
	*c = cat
	return nil
}
