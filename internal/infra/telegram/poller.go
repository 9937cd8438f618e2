package telegram

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/application"
	redisinfra "telegram-group-guardian/internal/infra/redis"
)

const (
	commandRateLimit  = 5
	commandRateWindow = 10 * time.Second
)

// Poller pulls updates and routes group commands to the facade with a small
// worker pool, the same shape as a long-poll bot front.
type Poller struct {
	gateway *RealGateway
	facade  *application.BotFacade
	limiter *redisinfra.RateLimiter
	workers int
	log     *zerolog.Logger
}

func NewPoller(gateway *RealGateway, facade *application.BotFacade, limiter *redisinfra.RateLimiter, workers int, logger *zerolog.Logger) *Poller {
	if workers <= 0 {
		workers = 5
	}
	compLog := logger.With().Str("component", "TelegramPoller").Logger()
	return &Poller{
		gateway: gateway,
		facade:  facade,
		limiter: limiter,
		workers: workers,
		log:     &compLog,
	}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := p.gateway.bot.GetUpdatesChan(u)

	var wg sync.WaitGroup
	work := make(chan tgbotapi.Update, 100)

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case update, ok := <-work:
					if !ok {
						return
					}
					p.handleUpdate(ctx, update)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for {
			select {
			case update := <-updates:
				select {
				case work <- update:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	<-ctx.Done()
	p.gateway.bot.StopReceivingUpdates()
	wg.Wait()
	return ctx.Err()
}

func (p *Poller) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return
	}
	if !msg.Chat.IsGroup() && !msg.Chat.IsSuperGroup() {
		p.reply(ctx, msg, "This bot only works inside groups.")
		return
	}

	command := msg.Command()
	if p.limiter != nil {
		key := redisinfra.UserCommandKey(msg.From.ID, command)
		if ok, err := p.limiter.Allow(ctx, key, commandRateLimit, commandRateWindow); err != nil {
			p.log.Warn().Err(err).Msg("rate limiter unavailable; allowing command")
		} else if !ok {
			return
		}
	}

	reply, err := p.dispatch(ctx, msg, command)
	if err != nil {
		p.log.Error().Err(err).Str("command", command).Int64("chat_id", msg.Chat.ID).Msg("command failed")
		reply = "Something went wrong, please try again."
	}
	if reply != "" {
		p.reply(ctx, msg, reply)
	}
}

func (p *Poller) dispatch(ctx context.Context, msg *tgbotapi.Message, command string) (string, error) {
	chatID := msg.Chat.ID
	fromID := msg.From.ID
	args := strings.Fields(msg.CommandArguments())

	switch command {
	case "start":
		return p.facade.RegisterGroup(ctx, chatID, msg.Chat.Title)

	case "warn":
		target := replyTarget(msg)
		if target == nil {
			return "Reply to the offender's message with /warn.", nil
		}
		return p.facade.WarnUser(ctx, chatID, fromID, target.ID, displayName(target))

	case "unwarn":
		target := replyTarget(msg)
		if target == nil {
			return "Reply to the user's message with /unwarn [amount].", nil
		}
		amount := 1
		if len(args) > 0 {
			if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
				amount = n
			}
		}
		return p.facade.ForgiveUser(ctx, chatID, fromID, target.ID, amount)

	case "warns":
		target := msg.From
		if t := replyTarget(msg); t != nil {
			target = t
		}
		return p.facade.WarnCount(ctx, chatID, target.ID)

	case "lock":
		duration := ""
		if len(args) > 0 {
			duration = args[0]
		}
		return p.facade.LockGroup(ctx, chatID, fromID, duration)

	case "unlock":
		return p.facade.UnlockGroup(ctx, chatID, fromID)

	case "nightlock":
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		return p.facade.NightLock(ctx, chatID, fromID, arg)

	case "status":
		return p.facade.Status(ctx, chatID)
	}
	return "", nil
}

func (p *Poller) reply(ctx context.Context, msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	if _, err := p.gateway.bot.Send(out); err != nil {
		p.log.Warn().Err(err).Int64("chat_id", msg.Chat.ID).Msg("reply failed")
	}
}

func replyTarget(msg *tgbotapi.Message) *tgbotapi.User {
	if msg.ReplyToMessage == nil || msg.ReplyToMessage.From == nil {
		return nil
	}
	return msg.ReplyToMessage.From
}

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return "@" + u.UserName
	}
	return u.FirstName
}
