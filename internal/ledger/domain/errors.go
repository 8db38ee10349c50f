package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateAccountCode is returned when registering an account
	// whose code already exists.
	ErrDuplicateAccountCode = errors.New("account code already exists")

	// ErrUnknownAccount is returned when an account code or id does not
	// resolve to a registered account.
	ErrUnknownAccount = errors.New("unknown account")

	// ErrUnknownCategory is returned when a (productType, category)
	// pair has no active mapping.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrInactiveAccount is returned when classification resolves to a
	// deactivated account.
	ErrInactiveAccount = errors.New("account is inactive")

	// ErrUnbalancedEntry is returned when a plan's debits and credits
	// do not match. Nothing is ever written for an unbalanced plan.
	ErrUnbalancedEntry = errors.New("entry debits and credits do not balance")

	// ErrDuplicatePosting is returned when an entry for the same
	// (refType, refID) already exists. Callers treat it as "already
	// applied", not as a failure.
	ErrDuplicatePosting = errors.New("posting already recorded for reference")
)

// ValidationError describes a malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Integrity finding kinds produced by the audit scan and the report
// engine's self-checks.
const (
	IssueUnbalancedEntry  = "unbalanced_entry"
	IssueOrphanedLine     = "orphaned_line"
	IssueDuplicateRef     = "duplicate_reference"
	IssueNegativeHeld     = "negative_restricted_balance"
	IssueTrialImbalance   = "trial_balance_mismatch"
	IssueCashFlowMismatch = "cash_flow_mismatch"
)

// IntegrityIssue is a structural anomaly found in posted data. Issues
// are reported alongside results, never auto-corrected.
type IntegrityIssue struct {
	Kind        string `json:"kind"`
	EntryID     int64  `json:"entry_id,omitempty"`
	AccountCode string `json:"account_code,omitempty"`
	Detail      string `json:"detail"`
}

func (i IntegrityIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Kind, i.Detail)
}
