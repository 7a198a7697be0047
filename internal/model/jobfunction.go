package model

import (
	"fmt"
	"strings"
)

// JobFunction is the closed category set assigned by the title classifier.
// Values mirror the job_function enum in PostgreSQL. FunctionUnclassified is
// the sentinel for "the classifier could not or did not assign a category" —
// a valid stored state, not an error.
type JobFunction string

const (
	FunctionSales        JobFunction = "sales"
	FunctionLabor        JobFunction = "labor"
	FunctionProduction   JobFunction = "production"
	FunctionManagement   JobFunction = "management"
	FunctionUnclassified JobFunction = ""
)

// ParseJobFunction converts a raw token to a JobFunction. The token is
// case-folded and trimmed first — the classifier backend answers in all
// caps while the stored representation is lowercase.
func ParseJobFunction(s string) (JobFunction, error) {
	f := JobFunction(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FunctionSales, FunctionLabor, FunctionProduction, FunctionManagement:
		return f, nil
	}
	return FunctionUnclassified, fmt.Errorf("unknown job function %q", s)
}

// ValidPostalCode reports whether s is an exactly-five-digit US ZIP code.
// Manual posting creation rejects anything else; externally ingested
// postings simply omit the field when no clean ZIP was found.
func ValidPostalCode(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
