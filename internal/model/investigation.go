package model

import "time"

// InvestigationStatus is the workflow state of a case.
type InvestigationStatus string

// Investigation workflow states. The manager accepts any explicit status-set
// request; it does not enforce transition adjacency (manual override is
// allowed by design).
const (
	StatusOpen       InvestigationStatus = "open"
	StatusInProgress InvestigationStatus = "in_progress"
	StatusCompleted  InvestigationStatus = "completed"
	StatusClosed     InvestigationStatus = "closed"
)

// ValidStatus reports whether s is a known investigation status.
func ValidStatus(s InvestigationStatus) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusClosed:
		return true
	}
	return false
}

// Investigation is a forensic case file. All investigation-scoped data is
// visible and mutable only by the owning user.
type Investigation struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ID          string
	CaseNumber  string
	Title       string
	Allegations string
	OwnerRef    string
	Status      InvestigationStatus
}
