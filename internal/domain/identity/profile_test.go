package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("+79161234567"))
	assert.Error(t, ValidatePhone("89161234567"))
	assert.Error(t, ValidatePhone("+7916123456"))
	assert.Error(t, ValidatePhone("+791612345678"))
	assert.Error(t, ValidatePhone("+7916123456a"))
}

func TestProfileCanLogin(t *testing.T) {
	p := &Profile{Status: StatusActive, PasswordHash: "x"}
	assert.True(t, p.CanLogin())

	assert.False(t, (&Profile{Status: StatusPending, PasswordHash: "x"}).CanLogin())
	assert.False(t, (&Profile{Status: StatusActive}).CanLogin())
}
