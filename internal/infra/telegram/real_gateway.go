package telegram

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.MessagingGateway = (*RealGateway)(nil)

// RealGateway implements adapter.MessagingGateway over tgbotapi.
type RealGateway struct {
	bot *tgbotapi.BotAPI
	log *zerolog.Logger
}

func NewRealGateway(token string, logger *zerolog.Logger) (*RealGateway, error) {
	if token == "" {
		return nil, errors.New("bot token is empty")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	compLog := logger.With().Str("component", "TelegramGateway").Logger()
	return &RealGateway{bot: bot, log: &compLog}, nil
}

func (g *RealGateway) SendMessage(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := g.bot.Send(msg)
	return err
}

// RestrictAll toggles the default send permission for the whole chat.
// Telegram has no expiry on chat-wide permissions; the policy clock reverses
// the change when the lock's own expiry passes, so until is unused here.
func (g *RealGateway) RestrictAll(ctx context.Context, chatID int64, allowSend bool, until *time.Time) error {
	perms := chatPermissions(allowSend)
	cfg := tgbotapi.SetChatPermissionsConfig{
		ChatConfig:  tgbotapi.ChatConfig{ChatID: chatID},
		Permissions: &perms,
	}
	_, err := g.bot.Request(cfg)
	return err
}

func (g *RealGateway) RestrictMember(ctx context.Context, chatID, userID int64, allowSend bool, until *time.Time) error {
	perms := chatPermissions(allowSend)
	cfg := tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: chatID,
			UserID: userID,
		},
		Permissions: &perms,
	}
	if until != nil {
		cfg.UntilDate = until.Unix()
	}
	_, err := g.bot.Request(cfg)
	return err
}

func (g *RealGateway) ListAdmins(ctx context.Context, chatID int64) ([]int64, error) {
	members, err := g.bot.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if m.User != nil {
			ids = append(ids, m.User.ID)
		}
	}
	return ids, nil
}

func chatPermissions(allowSend bool) tgbotapi.ChatPermissions {
	return tgbotapi.ChatPermissions{
		CanSendMessages:       allowSend,
		CanSendMediaMessages:  allowSend,
		CanSendPolls:          allowSend,
		CanSendOtherMessages:  allowSend,
		CanAddWebPagePreviews: allowSend,
		CanInviteUsers:        true,
	}
}
