package course

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound indicates no course has the requested code.
	ErrNotFound = errors.New("course not found")
	// ErrDuplicate indicates the course code is already taken.
	ErrDuplicate = errors.New("course already exists")
	// ErrMissingFields rejects creates lacking a field and patches carrying none.
	ErrMissingFields = errors.New("missing required parameters")
	// ErrInvalidSCU rejects non-positive credit units.
	ErrInvalidSCU = errors.New("scu must be a positive integer")
)

// Course is one entry in the course catalogue. Codes are stored uppercase.
type Course struct {
	ID          string
	Code        string
	Name        string
	Description string
	SCU         int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Patch carries the fields of a partial update; nil means unchanged.
type Patch struct {
	Code        *string
	Name        *string
	Description *string
	SCU         *int
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Code == nil && p.Name == nil && p.Description == nil && p.SCU == nil
}

// NormalizeCode maps a course code to its stored form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
