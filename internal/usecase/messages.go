package usecase

// User-facing notice texts sent by the policy engine itself. Command replies
// are composed in the application layer.
const (
	msgLockExpired = "🔓 The timed lock has expired. The group is open again."

	msgNightLockStart = "🌙 Night mode is on. The group is locked until morning."
	msgNightLockEnd   = "☀️ Good morning! Night mode is over and the group is open."
	msgNightLockWarn  = "🌙 Night mode starts in 15 minutes. An admin can skip tonight with /nightlock tonight."

	msgSubscriptionExpiring = "⏳ Your subscription ends in less than %d days. Renew to keep the bot active."
	msgSubscriptionExpired  = "❌ The subscription for this group has expired. The bot is signing off, thanks for having us!"
)
