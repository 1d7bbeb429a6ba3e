package errors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deepdelve/crawler-core/internal/errors"
)

func TestValidationBuilderEmpty(t *testing.T) {
	vb := errors.NewValidationBuilder()
	assert.NoError(t, vb.Build())
}

func TestValidationBuilderFields(t *testing.T) {
	vb := errors.NewValidationBuilder()
	vb.RequiredField("Repo")
	vb.InvalidField("TickInterval", "must be positive")

	err := vb.Build()
	assert.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "Repo")
	assert.Contains(t, err.Error(), "TickInterval")
}

func TestValidationErrorToError(t *testing.T) {
	ve := errors.NewValidationError()
	assert.Nil(t, ve.ToError())

	ve.AddFieldErrorf("slot", "unknown slot %q", "tail")
	err := ve.ToError()
	assert.NotNil(t, err)
	assert.Equal(t, errors.CodeInvalidArgument, err.Code)
	assert.NotNil(t, err.Meta["validation_errors"])
}
