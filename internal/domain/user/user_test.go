package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"abc12", false},
		{"abcdef", false},
		{"123456", false},
		{"ABCDE1", false},
		{"abcde1", true},
		{"Admin123!", true},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, shared.ErrInvalidInput)
			}
		})
	}
}

func TestNewUser_NormalizesEmail(t *testing.T) {
	u := NewUser("id-1", "  Admin@Example.COM ", "Ada", "Admin", "hash", time.Now(), RoleAdministrator)

	assert.Equal(t, "admin@example.com", u.Email)
	assert.True(t, u.HasRole(RoleAdministrator))
	assert.False(t, u.HasRole(RoleRegularUser))
	assert.Equal(t, "Ada Admin", u.FullName())
}
