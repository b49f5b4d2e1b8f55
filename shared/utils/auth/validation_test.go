package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"user", false},
		{"user@localhost", false},
		{"user@example.c", false},
		{"@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsEmail(tt.in), tt.in)
	}
}

func TestIsUsername(t *testing.T) {
	assert.True(t, IsUsername("superadmin"))
	assert.True(t, IsUsername("user01"))
	assert.False(t, IsUsername("User"))
	assert.False(t, IsUsername("user_01"))
	assert.False(t, IsUsername(""))
}
