package telegram

import (
	"github.com/PocketPalCo/catalog-bot/internal/core/users"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NewUserFromAPI maps a Telegram Bot API user to the dispatcher's requester
func NewUserFromAPI(tgUser *tgbotapi.User, defaultLocale string) *users.User {
	var username *string
	if tgUser.UserName != "" {
		username = &tgUser.UserName
	}

	var lastName *string
	if tgUser.LastName != "" {
		lastName = &tgUser.LastName
	}

	return &users.User{
		TelegramID: tgUser.ID,
		Username:   username,
		FirstName:  tgUser.FirstName,
		LastName:   lastName,
		Locale:     users.NormalizeLocale(tgUser.LanguageCode, defaultLocale),
	}
}
