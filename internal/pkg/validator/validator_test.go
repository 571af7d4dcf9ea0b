package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Username string `validate:"required"`
	Role     string `validate:"required,oneof=admin viewer"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(sample{Username: "a", Role: "viewer"}))
	assert.Equal(t, map[string]string{"Username": "required", "Role": "oneof"},
		Validate(sample{Role: "root"}))
}

func TestVar(t *testing.T) {
	assert.True(t, Var("High", "oneof=Low Normal High Urgent"))
	assert.False(t, Var("Highest", "oneof=Low Normal High Urgent"))
}
