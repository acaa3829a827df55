package gviz

import "fmt"

// Reason is the closed set of wire-level error reasons a query response
// can carry, matching the protocol's fixed reason vocabulary.
type Reason string

const (
	ReasonAccessDenied               Reason = "access_denied"
	ReasonUserNotAuthenticated       Reason = "user_not_authenticated"
	ReasonUnsupportedQueryOperation  Reason = "unsupported_query_operation"
	ReasonInvalidQuery               Reason = "invalid_query"
	ReasonInvalidRequest             Reason = "invalid_request"
	ReasonInternalError              Reason = "internal_error"
	ReasonNotSupported               Reason = "not_supported"
	ReasonDataTruncated              Reason = "data_truncated"
	ReasonNotModified                Reason = "not_modified"
	ReasonTimeout                    Reason = "timeout"
	ReasonIllegalFormattingPatterns  Reason = "illegal_formatting_patterns"
	ReasonOther                      Reason = "other"
)

// Message is the closed set of detail-message codes nested under
// ReasonInvalidQuery, one per validator rule in spec §4.2/§7.
type Message string

const (
	MsgNoColumn                  Message = "NO_COLUMN"
	MsgAvgSumOnlyNumeric         Message = "AVG_SUM_ONLY_NUMERIC"
	MsgInvalidAggType            Message = "INVALID_AGG_TYPE"
	MsgParseError                Message = "PARSE_ERROR"
	MsgCannotBeInGroupBy         Message = "CANNOT_BE_IN_GROUP_BY"
	MsgCannotBeInPivot           Message = "CANNOT_BE_IN_PIVOT"
	MsgCannotBeInWhere           Message = "CANNOT_BE_IN_WHERE"
	MsgSelectWithAndWithoutAgg   Message = "SELECT_WITH_AND_WITHOUT_AGG"
	MsgColAggNotInSelect         Message = "COL_AGG_NOT_IN_SELECT"
	MsgCannotGroupWithoutAgg     Message = "CANNOT_GROUP_WITHOUT_AGG"
	MsgCannotPivotWithoutAgg     Message = "CANNOT_PIVOT_WITHOUT_AGG"
	MsgAggInSelectNoPivot        Message = "AGG_IN_SELECT_NO_PIVOT"
	MsgFormatColNotInSelect      Message = "FORMAT_COL_NOT_IN_SELECT"
	MsgLabelColNotInSelect       Message = "LABEL_COL_NOT_IN_SELECT"
	MsgAddColToGroupByOrAgg      Message = "ADD_COL_TO_GROUP_BY_OR_AGG"
	MsgAggInOrderNotInSelect     Message = "AGG_IN_ORDER_NOT_IN_SELECT"
	MsgNoAggInOrderWhenPivot     Message = "NO_AGG_IN_ORDER_WHEN_PIVOT"
	MsgColInOrderMustBeInSelect  Message = "COL_IN_ORDER_MUST_BE_IN_SELECT"
	MsgNoColInGroupAndPivot      Message = "NO_COL_IN_GROUP_AND_PIVOT"
	MsgInvalidOffset             Message = "INVALID_OFFSET"
	MsgInvalidSkipping           Message = "INVALID_SKIPPING"
	MsgColumnOnlyOnce            Message = "COLUMN_ONLY_ONCE"
)

// QueryError is the error type returned by every validate/split/engine
// operation that can fail in a protocol-visible way. It carries the wire
// reason, an optional detail message code, and a human description.
type QueryError struct {
	Reason  Reason
	Message Message
	Detail  string
	column  string
	cause   error
}

func (e *QueryError) Error() string {
	if e.column != "" {
		return fmt.Sprintf("%s: %s (column %q)", e.Reason, e.Detail, e.column)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func (e *QueryError) Unwrap() error { return e.cause }

// WithColumn attaches the offending column id and returns e for chaining.
func (e *QueryError) WithColumn(id string) *QueryError {
	e.column = id
	return e
}

// WithCause attaches an underlying cause and returns e for chaining.
func (e *QueryError) WithCause(err error) *QueryError {
	e.cause = err
	return e
}

// newError builds a QueryError for reason r with detail formatted per
// format/args.
func newError(r Reason, msg Message, format string, args ...interface{}) *QueryError {
	return &QueryError{Reason: r, Message: msg, Detail: fmt.Sprintf(format, args...)}
}

// NewInvalidQueryError builds a ReasonInvalidQuery error carrying message code msg.
func NewInvalidQueryError(msg Message, format string, args ...interface{}) *QueryError {
	return newError(ReasonInvalidQuery, msg, format, args...)
}

// NewUnsupportedOperationError builds a ReasonUnsupportedQueryOperation error.
func NewUnsupportedOperationError(format string, args ...interface{}) *QueryError {
	return newError(ReasonUnsupportedQueryOperation, "", format, args...)
}

// NewInvalidRequestError builds a ReasonInvalidRequest error.
func NewInvalidRequestError(format string, args ...interface{}) *QueryError {
	return newError(ReasonInvalidRequest, "", format, args...)
}

// NewInternalError builds a ReasonInternalError error wrapping cause.
func NewInternalError(cause error) *QueryError {
	return newError(ReasonInternalError, "", "internal error").WithCause(cause)
}

// NewAccessDeniedError builds a ReasonAccessDenied error.
func NewAccessDeniedError(format string, args ...interface{}) *QueryError {
	return newError(ReasonAccessDenied, "", format, args...)
}

// NewUserNotAuthenticatedError builds a ReasonUserNotAuthenticated error.
func NewUserNotAuthenticatedError() *QueryError {
	return newError(ReasonUserNotAuthenticated, "", "authentication required")
}

// NewNotSupportedError builds a ReasonNotSupported error.
func NewNotSupportedError(format string, args ...interface{}) *QueryError {
	return newError(ReasonNotSupported, "", format, args...)
}

// NewTimeoutError builds a ReasonTimeout error wrapping cause.
func NewTimeoutError(cause error) *QueryError {
	return newError(ReasonTimeout, "", "query execution timed out").WithCause(cause)
}

// NewIllegalFormattingPatternsError builds a ReasonIllegalFormattingPatterns error.
func NewIllegalFormattingPatternsError(format string, args ...interface{}) *QueryError {
	return newError(ReasonIllegalFormattingPatterns, "", format, args...)
}

// IsReason reports whether err is a *QueryError with the given reason.
func IsReason(err error, r Reason) bool {
	qe, ok := err.(*QueryError)
	return ok && qe.Reason == r
}
