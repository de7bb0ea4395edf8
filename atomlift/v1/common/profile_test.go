package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayNameFallback(t *testing.T) {
	tests := []struct {
		name string
		rec  UserRecord
		want string
	}{
		{"full name wins", UserRecord{"full_name": "Asha Rao", "first_name": "A", "last_name": "R"}, "Asha Rao"},
		{"first and last", UserRecord{"first_name": "Asha", "last_name": "Rao"}, "Asha Rao"},
		{"first only", UserRecord{"first_name": "Asha", "username": "arao"}, "Asha"},
		{"username", UserRecord{"username": "arao", "email": "asha@example.com"}, "arao"},
		{"email local part", UserRecord{"email": "asha@example.com"}, "asha"},
		{"default", UserRecord{}, DefaultDisplayName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeProfile(tt.rec).DisplayName())
		})
	}
}

func TestNormalizeProfileMobileKeys(t *testing.T) {
	assert.Equal(t, "9876543210", NormalizeProfile(UserRecord{"phone_number": "9876543210", "mobile": "1"}).Mobile)
	assert.Equal(t, "9123456789", NormalizeProfile(UserRecord{"phone_number": "", "mobile": "9123456789"}).Mobile)
	assert.Equal(t, "9000000001", NormalizeProfile(UserRecord{"phone": float64(9000000001)}).Mobile)
}

func TestNormalizeProfileID(t *testing.T) {
	p := NormalizeProfile(UserRecord{"id": float64(17), "email": "tech@example.com"})
	assert.Equal(t, int64(17), p.ID)
	assert.Equal(t, "tech@example.com", p.Email)
}
