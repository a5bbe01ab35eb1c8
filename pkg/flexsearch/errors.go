package flexsearch

import (
	"errors"
	"fmt"
)

// BuildError represents an error detected while building a statement.
//
// Build errors include:
//   - Invalid type: a model type has no storage name
//   - Missing alias: joins or distinct selection on an unaliased table
//   - Clause order: AND/OR without an open WHERE or HAVING chain
//   - Duplicate parameter: two bindings share one placeholder name
//
// All build errors are fatal to the statement being built. There is no
// recovery; the caller must fix the construction call.
type BuildError struct {
	// Code identifies the error category.
	Code BuildErrorCode

	// Message is a human-readable description.
	Message string

	// Detail names the offending element (type, table, parameter).
	Detail string
}

// BuildErrorCode categorizes build errors.
type BuildErrorCode string

const (
	// ErrCodeInvalidType indicates a model type could not be resolved to a table name.
	ErrCodeInvalidType BuildErrorCode = "INVALID_TYPE"

	// ErrCodeMissingAlias indicates joins or distinct selection on a table without alias.
	ErrCodeMissingAlias BuildErrorCode = "MISSING_ALIAS"

	// ErrCodeClauseOrder indicates a clause combinator was used out of sequence.
	ErrCodeClauseOrder BuildErrorCode = "CLAUSE_ORDER"

	// ErrCodeUnbalancedParens indicates brace flags that do not pair up.
	ErrCodeUnbalancedParens BuildErrorCode = "UNBALANCED_PARENS"

	// ErrCodeDuplicateParam indicates two distinct bindings with the same name.
	ErrCodeDuplicateParam BuildErrorCode = "DUPLICATE_PARAM"

	// ErrCodeNoSelect indicates Build was called before Select.
	ErrCodeNoSelect BuildErrorCode = "NO_SELECT"

	// ErrCodeUnsupported indicates a construct has no form in the target dialect.
	ErrCodeUnsupported BuildErrorCode = "UNSUPPORTED"
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidType returns the error reported when typeName has no storage name.
// Resolvers outside this package use it so callers can match with IsInvalidType.
func NewInvalidType(typeName string) *BuildError {
	return &BuildError{
		Code:    ErrCodeInvalidType,
		Message: "type has no resolvable table name",
		Detail:  typeName,
	}
}

func missingAlias(table, reason string) *BuildError {
	return &BuildError{Code: ErrCodeMissingAlias, Message: reason, Detail: table}
}

func clauseOrder(msg string) *BuildError {
	return &BuildError{Code: ErrCodeClauseOrder, Message: msg}
}

// IsInvalidType returns true if the error is an unresolvable type error.
// Uses errors.As to handle wrapped errors.
func IsInvalidType(err error) bool {
	return hasCode(err, ErrCodeInvalidType)
}

// IsMissingAlias returns true if the error is a missing alias error.
func IsMissingAlias(err error) bool {
	return hasCode(err, ErrCodeMissingAlias)
}

// IsClauseOrder returns true if the error is a clause ordering error.
func IsClauseOrder(err error) bool {
	return hasCode(err, ErrCodeClauseOrder)
}

// IsDuplicateParam returns true if the error is a parameter collision.
func IsDuplicateParam(err error) bool {
	return hasCode(err, ErrCodeDuplicateParam)
}

// ErrorCode extracts the build error code, or "" if err is not a BuildError.
func ErrorCode(err error) BuildErrorCode {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

func hasCode(err error, code BuildErrorCode) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
