package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Service_IsAdmin(t *testing.T) {
	service := NewService(42)

	assert.True(t, service.IsAdmin(42))
	assert.False(t, service.IsAdmin(43))
	assert.False(t, service.IsAdmin(0))
	assert.Equal(t, int64(42), service.AdminID())
}

func Test_Service_IsAdminUnconfigured(t *testing.T) {
	service := NewService(0)

	assert.False(t, service.IsAdmin(0))
}

func Test_NormalizeLocale(t *testing.T) {
	testCases := []struct {
		code     string
		fallback string
		expected string
	}{
		{code: "en", fallback: "es", expected: "en"},
		{code: "en-GB", fallback: "es", expected: "en"},
		{code: "es-ES", fallback: "en", expected: "es"},
		{code: "ca", fallback: "en", expected: "es"},
		{code: "uk", fallback: "es", expected: "es"},
		{code: "", fallback: "en", expected: "en"},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeLocale(tc.code, tc.fallback))
		})
	}
}

func Test_User_DisplayName(t *testing.T) {
	last := "Pérez"
	username := "ana"

	assert.Equal(t, "Ana Pérez", (&User{FirstName: "Ana", LastName: &last}).DisplayName())
	assert.Equal(t, "Ana", (&User{FirstName: "Ana"}).DisplayName())
	assert.Equal(t, "@ana", (&User{Username: &username}).DisplayName())
	assert.Equal(t, "User", (&User{}).DisplayName())
}
