package errors_test

import (
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingColumnsError(t *testing.T) {
	err := apperrors.NewMissingColumnsError([]string{"Ticket ID", "Requested Date"})

	assert.ErrorIs(t, err, apperrors.ErrMissingColumns)
	assert.Equal(t, "missing required columns: Ticket ID, Requested Date", err.Error())

	wrapped := fmt.Errorf("normalize: %w", err)
	var mc *apperrors.MissingColumnsError
	require.True(t, errors.As(wrapped, &mc))
	assert.Equal(t, []string{"Ticket ID", "Requested Date"}, mc.Columns)
}

func TestWrapStore(t *testing.T) {
	assert.NoError(t, apperrors.WrapStore("clear", nil))

	cause := errors.New("connection refused")
	err := apperrors.WrapStore("replace", cause)

	assert.ErrorIs(t, err, apperrors.ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store replace: connection refused", err.Error())

	t.Run("does not double wrap", func(t *testing.T) {
		again := apperrors.WrapStore("outer", err)
		assert.Same(t, err, again)
	})
}

func TestValidationErrors(t *testing.T) {
	v := apperrors.NewValidationErrors()
	assert.False(t, v.HasErrors())

	v.Add("from", "Must be a date")
	v.Add("from", "Must not be after to")

	assert.True(t, v.HasErrors())
	assert.Len(t, v.Errors["from"], 2)
	assert.Equal(t, "validation failed: 1 field(s) have errors", v.Error())
}
