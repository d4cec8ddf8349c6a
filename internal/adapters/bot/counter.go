package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tg-attendance-bot/internal/infra/metrics"
)

// MemberCountClient реализует domain.MemberCounter поверх Bot API.
type MemberCountClient struct {
	bot *tgbotapi.BotAPI
}

// NewMemberCountClient создаёт клиент живого счёта участников.
func NewMemberCountClient(bot *tgbotapi.BotAPI) *MemberCountClient {
	return &MemberCountClient{bot: bot}
}

// LiveMemberCount возвращает текущее число участников чата по данным Telegram.
func (c *MemberCountClient) LiveMemberCount(ctx context.Context, chatID int64) (int, error) {
	start := time.Now()
	count, err := c.bot.GetChatMembersCount(tgbotapi.ChatMemberCountConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	metrics.ObserveNetworkRequest("telegram_bot", "get_chat_member_count", chatID, start, err)
	if err != nil {
		return 0, fmt.Errorf("получение числа участников: %w", err)
	}
	return count, nil
}
