package models

// OutcomeKind classifies one poll of the inspection service.
type OutcomeKind string

const (
	// OutcomePending - inspection still running, or the answer was not conclusive
	OutcomePending OutcomeKind = "pending"
	// OutcomeFinished - inspection completed successfully
	OutcomeFinished OutcomeKind = "finished"
	// OutcomeError - inspection completed with an error
	OutcomeError OutcomeKind = "error"
)

// InspectionOutcome is the interpreted result of a status query.
type InspectionOutcome struct {
	Kind   OutcomeKind
	Reason string
}
