package adapter

import (
	"context"
	"time"
)

// MessagingGateway is everything the policy engine needs from the chat
// platform. Calls may fail (bot demoted, chat gone); callers log and carry
// on, the persisted state already records intent.
type MessagingGateway interface {
	SendMessage(ctx context.Context, chatID int64, text string) error

	// RestrictAll toggles the whole group's send permission. A nil until
	// means the restriction holds until reversed.
	RestrictAll(ctx context.Context, chatID int64, allowSend bool, until *time.Time) error

	// RestrictMember toggles one member's send permission.
	RestrictMember(ctx context.Context, chatID, userID int64, allowSend bool, until *time.Time) error

	// ListAdmins returns the user ids currently holding admin rights.
	ListAdmins(ctx context.Context, chatID int64) ([]int64, error)
}
