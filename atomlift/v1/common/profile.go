package common

import (
	"encoding/json"
	"strconv"
	"strings"

	"technuob.com/atomlift/utils"
)

const DefaultDisplayName = "User"

// UserRecord is the user object exactly as the backend sent it. Its keys vary across backend versions.
type UserRecord map[string]any

// UserProfile is the normalised view of a UserRecord. Build it with NormalizeProfile.
type UserProfile struct {
	ID        int64
	Email     string
	Username  string
	FirstName string
	LastName  string
	FullName  string
	Mobile    string
}

// NormalizeProfile maps a loosely-typed user record onto UserProfile. Phone numbers are looked up
// under phone_number, mobile and phone, in that order.
func NormalizeProfile(rec UserRecord) UserProfile {
	return UserProfile{
		ID:        rec.Int("id"),
		Email:     rec.String("email"),
		Username:  rec.String("username"),
		FirstName: rec.String("first_name"),
		LastName:  rec.String("last_name"),
		FullName:  rec.String("full_name"),
		Mobile:    utils.FirstNonEmpty(rec.String("phone_number"), rec.String("mobile"), rec.String("phone")),
	}
}

// DisplayName falls back through full name, first+last, first, username and the email local part.
func (p UserProfile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.FirstName != "" && p.LastName != "" {
		return strings.TrimSpace(p.FirstName + " " + p.LastName)
	}
	if p.FirstName != "" {
		return p.FirstName
	}
	if p.Username != "" {
		return p.Username
	}
	if local, _, _ := strings.Cut(p.Email, "@"); local != "" {
		return local
	}
	return DefaultDisplayName
}

// String returns the value under key as trimmed text. Numbers are formatted without exponent.
func (r UserRecord) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

func (r UserRecord) Int(key string) int64 {
	switch v := r[key].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n
	}
	return 0
}

func (r UserRecord) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}
