// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "fmt"

// IssueKind classifies what layer of checking produced a validation issue.
type IssueKind string

const (
	// IssueSchema marks a violation of the document's structural grammar.
	IssueSchema IssueKind = "schema"
	// IssueSemantic marks a violation of naming, reference, or graph rules.
	IssueSemantic IssueKind = "semantic"
	// IssueType marks a static type-checking failure.
	IssueType IssueKind = "type"
	// IssueEntity marks a failed registry lookup during completion.
	IssueEntity IssueKind = "entity"
)

// Severity ranks how a validation issue affects execution: errors gate a
// run, warnings do not.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is one problem found while validating or completing a description.
// Checks accumulate issues instead of failing fast, so a caller can report
// every problem in a single pass.
type Issue struct {
	Kind     IssueKind
	Severity Severity
	Message  string
}

// Errorf builds an error-severity issue.
func Errorf(kind IssueKind, format string, args ...any) Issue {
	return Issue{Kind: kind, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning-severity issue.
func Warnf(kind IssueKind, format string, args ...any) Issue {
	return Issue{Kind: kind, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// String renders the issue as "SEVERITY [kind] message".
func (i Issue) String() string {
	return fmt.Sprintf("%s [%s] %s", i.Severity, i.Kind, i.Message)
}

// HasErrors reports whether any issue in the slice is error severity.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
