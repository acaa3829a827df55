package factory

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/lychee-technology/gviz"
)

func TestClassifyPgErrorSyntaxIsInvalidQuery(t *testing.T) {
	err := classifyPgError(&pgconn.PgError{Code: "42703", Message: "column \"x\" does not exist"})
	assert.Equal(t, gviz.ReasonInvalidQuery, err.Reason)
}

func TestClassifyPgErrorQueryCanceledIsTimeout(t *testing.T) {
	err := classifyPgError(&pgconn.PgError{Code: "57014", Message: "canceling statement due to timeout"})
	assert.Equal(t, gviz.ReasonTimeout, err.Reason)
}

func TestClassifyPgErrorOtherIsInternal(t *testing.T) {
	err := classifyPgError(&pgconn.PgError{Code: "40001", Message: "serialization failure"})
	assert.Equal(t, gviz.ReasonInternalError, err.Reason)
}

func TestClassifyPgErrorNonPgErrorIsInternal(t *testing.T) {
	err := classifyPgError(errors.New("connection refused"))
	assert.Equal(t, gviz.ReasonInternalError, err.Reason)
}
