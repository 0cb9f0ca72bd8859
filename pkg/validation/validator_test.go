package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Skill       string `json:"skill" validate:"required,max=10"`
	Proficiency string `json:"proficiency,omitempty" validate:"omitempty,oneof=beginner expert"`
	Untagged    int    `validate:"min=1"`
}

func TestValidate(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(sample{Skill: "sql", Proficiency: "expert", Untagged: 1}))

	err := v.Validate(sample{Proficiency: "guru"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required", verr.Fields["skill"])
	assert.Equal(t, "must be one of: beginner expert", verr.Fields["proficiency"])
	assert.Equal(t, "must be at least 1", verr.Fields["Untagged"])
}

func TestErrorMessageIsSorted(t *testing.T) {
	err := &Error{Fields: map[string]string{"b": "is invalid", "a": "is required"}}
	assert.Equal(t, "validation failed: a is required; b is invalid", err.Error())
}
