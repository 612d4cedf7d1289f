package job

import (
	"fmt"
	"strings"
)

const minTitleLen = 3

// Placeholder values a form submits when nothing was selected.
const (
	statusPlaceholder   = "Select status..."
	categoryPlaceholder = "Select a category"
)

const (
	FieldTitle    = "title"
	FieldCategory = "category"
	FieldStatus   = "status"
)

const (
	MsgTitleRequired    = "Job title is required."
	MsgTitleTooShort    = "Job title must be at least 3 characters long."
	MsgCategoryRequired = "Please select a category."
	MsgStatusRequired   = "Please select a job status."
	MsgTitleEmpty       = "Job Title cannot be empty."
	MsgJobCategory      = "Please select a job category."
)

// Candidate is the raw form input for creating or editing a job.
type Candidate struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

// ValidationError reports a single user-correctable problem with a candidate.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

func blank(s, placeholder string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == placeholder
}

// formStatus accepts only the statuses a create form offers. Stopped is
// reachable only by dragging.
func formStatus(s string) (Status, bool) {
	st, ok := ParseStatus(s)
	if !ok || st == StatusStopped {
		return "", false
	}
	return st, true
}

// ValidateCreate checks a create-form candidate and returns the normalized job
// with a zero ID. Errors are reported in priority order: empty title, short
// title, missing category, bad status. An unselected status is not an error
// and defaults to StatusNeedToStart.
func ValidateCreate(c Candidate) (Job, error) {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return Job{}, invalid(FieldTitle, MsgTitleRequired)
	}
	if len([]rune(title)) < minTitleLen {
		return Job{}, invalid(FieldTitle, MsgTitleTooShort)
	}
	if blank(c.Category, categoryPlaceholder) {
		return Job{}, invalid(FieldCategory, MsgCategoryRequired)
	}
	cat, ok := ParseCategory(c.Category)
	if !ok {
		return Job{}, invalid(FieldCategory, MsgCategoryRequired)
	}

	status := StatusNeedToStart
	if !blank(c.Status, statusPlaceholder) {
		st, ok := formStatus(c.Status)
		if !ok {
			return Job{}, invalid(FieldStatus, MsgStatusRequired)
		}
		status = st
	}
	return Job{Title: title, Status: status, Category: cat}, nil
}

// ValidateEdit applies an edit candidate to current. Only the title is
// required; an empty category or status keeps the current value. Like the
// create form, edit cannot select Stopped.
func ValidateEdit(current Job, c Candidate) (Job, error) {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return Job{}, invalid(FieldTitle, MsgTitleEmpty)
	}
	next := current
	next.Title = title
	if !blank(c.Status, statusPlaceholder) {
		st, ok := formStatus(c.Status)
		if !ok {
			return Job{}, invalid(FieldStatus, MsgStatusRequired)
		}
		next.Status = st
	}
	if !blank(c.Category, categoryPlaceholder) {
		cat, ok := ParseCategory(c.Category)
		if !ok {
			return Job{}, invalid(FieldCategory, MsgCategoryRequired)
		}
		next.Category = cat
	}
	return next, nil
}

// ValidateDirect is the legacy add path. The title only has to be non-empty,
// but the category is still required and the status follows the create form.
func ValidateDirect(c Candidate) (Job, error) {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return Job{}, invalid(FieldTitle, MsgTitleEmpty)
	}
	cat, ok := ParseCategory(c.Category)
	if !ok {
		return Job{}, invalid(FieldCategory, MsgJobCategory)
	}
	status := StatusNeedToStart
	if !blank(c.Status, statusPlaceholder) {
		st, ok := formStatus(c.Status)
		if !ok {
			return Job{}, invalid(FieldStatus, MsgStatusRequired)
		}
		status = st
	}
	return Job{Title: title, Status: status, Category: cat}, nil
}
