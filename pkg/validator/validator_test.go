package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	Endpoint string `validate:"required,url"`
	Auth     string `validate:"required"`
}

func TestValidate(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&payload{Endpoint: "https://push.example.com/x", Auth: "key"}))

	err := v.Validate(&payload{Auth: "key"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Endpoint is required")

	err = v.Validate(&payload{Endpoint: "not a url", Auth: "key"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Endpoint must be a valid URL")

	err = v.Validate(&payload{Endpoint: "https://push.example.com/x"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Auth is required")
}
