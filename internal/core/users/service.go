package users

import "strings"

// User is the requester of a command as seen by the dispatcher.
type User struct {
	TelegramID int64   `json:"telegram_id"`
	Username   *string `json:"username"`
	FirstName  string  `json:"first_name"`
	LastName   *string `json:"last_name"`
	Locale     string  `json:"locale"`
}

// Service answers authorization questions for the single configured administrator.
type Service struct {
	adminID int64
}

func NewService(adminID int64) *Service {
	return &Service{adminID: adminID}
}

// IsAdmin reports whether telegramID is the configured administrator.
func (s *Service) IsAdmin(telegramID int64) bool {
	return s.adminID > 0 && telegramID == s.adminID
}

// AdminID returns the configured administrator identity.
func (s *Service) AdminID() int64 {
	return s.adminID
}

// NormalizeLocale converts Telegram language codes to a supported locale,
// using fallback for anything unknown.
func NormalizeLocale(languageCode, fallback string) string {
	code := strings.ToLower(strings.TrimSpace(languageCode))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	switch code {
	case "en":
		return "en"
	case "es", "ca", "gl", "eu":
		return "es"
	default:
		return fallback
	}
}

// DisplayName picks the friendliest available name for the user.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		if u.LastName != nil && *u.LastName != "" {
			return u.FirstName + " " + *u.LastName
		}
		return u.FirstName
	}
	if u.Username != nil && *u.Username != "" {
		return "@" + *u.Username
	}
	return "User"
}
