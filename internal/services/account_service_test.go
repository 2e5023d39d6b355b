package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"ticket-marketplace/internal/status"
)

func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "secret1!", true},
		{"valid with space special", "pass word9?", true},
		{"too short", "a1!", false},
		{"no digit", "password!", false},
		{"no special", "password1", false},
		{"letters only", "passwords", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPasswordPolicy(tt.password, 8)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Equal(t, status.KindValidation, status.From(err).Kind)
			}
		})
	}
}

func TestRoleCollection(t *testing.T) {
	assert.Equal(t, "users", RoleCollection("user"))
	assert.Equal(t, "organizers", RoleCollection("organizer"))
	assert.Equal(t, "admins", RoleCollection("admin"))
}

// Two registrations racing past the email pre-check lose at the unique
// index; those errors must surface as the duplicate-email conflict, not
// as an internal failure.
func TestIsUniqueEmailViolation(t *testing.T) {
	assert.False(t, isUniqueEmailViolation(nil))
	assert.False(t, isUniqueEmailViolation(errors.New("disk I/O error")))
	assert.True(t, isUniqueEmailViolation(errors.New("UNIQUE constraint failed: accounts.email")))
	assert.True(t, isUniqueEmailViolation(errors.New("email: Value must be unique.")))
	assert.True(t, isUniqueEmailViolation(errors.New("email: The email is invalid or already in use.")))
}
