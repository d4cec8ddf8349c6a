package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"tg-attendance-bot/internal/adapters/telegram"
	"tg-attendance-bot/internal/domain"
	"tg-attendance-bot/internal/infra/metrics"
	"tg-attendance-bot/internal/usecase/attendance"
	"tg-attendance-bot/internal/usecase/report"
)

const welcomeText = "🙏 स्वागत है! कृपया हर दिन अपने आंगनवाड़ी की फ़ोटो इस समूह में भेजें।"

// Handler обрабатывает входящие апдейты и доставляет отчёты.
type Handler struct {
	bot     *tgbotapi.BotAPI
	log     zerolog.Logger
	policy  *attendance.Policy
	state   *attendance.Store
	reports *report.Service

	awardsLag   time.Duration
	awardPacing time.Duration
	commandLag  time.Duration
}

// NewHandler создаёт обработчик.
func NewHandler(bot *tgbotapi.BotAPI, log zerolog.Logger, policy *attendance.Policy, state *attendance.Store, reports *report.Service, awardsLag, awardPacing, commandLag time.Duration) *Handler {
	return &Handler{
		bot:         bot,
		log:         log,
		policy:      policy,
		state:       state,
		reports:     reports,
		awardsLag:   awardsLag,
		awardPacing: awardPacing,
		commandLag:  commandLag,
	}
}

// Run читает апдейты long polling до отмены контекста.
func (h *Handler) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message", "chat_member"}
	updates := h.bot.GetUpdatesChan(u)

	h.log.Info().Msg("бот запущен, ждём апдейты")
	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return
		case upd := <-updates:
			h.HandleUpdate(ctx, upd)
		}
	}
}

// HandleUpdate обрабатывает один апдейт до конца.
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.ChatMember != nil {
		h.handleMemberUpdate(upd.ChatMember)
		return
	}
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	if msg.IsCommand() {
		h.handleCommand(ctx, msg)
		return
	}
	if len(msg.Photo) > 0 {
		h.handlePhoto(msg)
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	// /id работает в любом чате, иначе новую группу невозможно подключить.
	if msg.Command() == "id" {
		h.send(chatID, fmt.Sprintf("chat_id: %d", chatID), false)
		return
	}
	if !h.policy.Allowed(chatID) {
		return
	}

	switch msg.Command() {
	case "start":
		h.send(chatID, welcomeText, false)
	case "members":
		count, approximate := h.reports.MemberCount(ctx, chatID)
		text := fmt.Sprintf("👥 Group members right now: %d", count)
		if approximate {
			text += " (अनुमानित)"
		}
		h.send(chatID, text, false)
	case "report":
		h.postSummary(ctx, chatID, "command")
		if !h.wait(ctx, h.commandLag) {
			return
		}
		h.postAwards(chatID)
	case "pending":
		h.send(chatID, report.FormatPending(h.reports.PendingNames(chatID)), false)
	}
}

// handleMemberUpdate пополняет ростер из изменений членства. Интересны
// только статусы member и administrator.
func (h *Handler) handleMemberUpdate(upd *tgbotapi.ChatMemberUpdated) {
	ev := memberEventFrom(upd)
	if !h.policy.Allowed(ev.ChatID) {
		return
	}
	if ev.Status != domain.MemberStatusMember && ev.Status != domain.MemberStatusAdmin {
		return
	}
	h.state.Observe(ev.ChatID, ev.UserID, ev.Name)
	h.log.Debug().Int64("chat", ev.ChatID).Int64("user", ev.UserID).Msg("пользователь добавлен в ростер")
}

func (h *Handler) handlePhoto(msg *tgbotapi.Message) {
	if !msg.Chat.IsGroup() && !msg.Chat.IsSuperGroup() {
		return
	}
	if !h.policy.Allowed(msg.Chat.ID) {
		return
	}
	if msg.From == nil {
		return
	}

	ev := photoEventFrom(msg)
	outcome, streak := h.state.RecordPhoto(ev)
	metrics.IncSubmission(outcome.String())
	h.log.Debug().
		Int64("chat", ev.ChatID).
		Int64("user", ev.UserID).
		Str("outcome", outcome.String()).
		Int("streak", streak).
		Msg("фото обработано")

	// Уведомляем только о первой фотографии дня, повторы молчат.
	if outcome != domain.OutcomeRecorded {
		return
	}
	h.send(ev.ChatID, report.FormatConfirmation(ev.Name), false)
}

// OnScheduledTick выполняет плановый прогон: сводка, пауза, награды.
func (h *Handler) OnScheduledTick(ctx context.Context, chatID int64) {
	h.postSummary(ctx, chatID, "schedule")
	if !h.wait(ctx, h.awardsLag) {
		return
	}
	h.postAwards(chatID)
}

func (h *Handler) postSummary(ctx context.Context, chatID int64, cause string) {
	summary := h.reports.BuildSummary(ctx, chatID)
	h.send(chatID, report.FormatSummary(summary), false)
	metrics.IncReportSent(cause)
}

// postAwards отправляет объявления по порядку с паузой между ними, чтобы не
// упереться в лимиты Telegram. Ошибка отправки не прерывает остальные.
func (h *Handler) postAwards(chatID int64) {
	for i, award := range h.reports.BuildAwards(chatID) {
		if i > 0 {
			time.Sleep(h.awardPacing)
		}
		h.send(chatID, report.FormatAward(award), true)
		metrics.AwardsSentTotal.Inc()
	}
}

func (h *Handler) send(chatID int64, text string, emphasis bool) {
	for _, part := range telegram.SplitMessage(text) {
		msg := tgbotapi.NewMessage(chatID, part)
		if emphasis {
			msg.ParseMode = tgbotapi.ModeMarkdown
		}
		start := time.Now()
		_, err := h.bot.Send(msg)
		metrics.ObserveNetworkRequest("telegram_bot", "send_message", chatID, start, err)
		if err != nil {
			metrics.BotSendErrors.Inc()
			h.log.Error().Err(err).Int64("chat", chatID).Msg("не удалось отправить сообщение")
			return
		}
	}
}

// wait ждёт указанную паузу, прерываясь по отмене контекста.
func (h *Handler) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func photoEventFrom(msg *tgbotapi.Message) domain.PhotoEvent {
	name := msg.From.FirstName
	if name == "" {
		name = domain.FallbackName
	}
	return domain.PhotoEvent{
		ChatID:       msg.Chat.ID,
		UserID:       msg.From.ID,
		Name:         name,
		MediaGroupID: msg.MediaGroupID,
		At:           msg.Time(),
	}
}

func memberEventFrom(upd *tgbotapi.ChatMemberUpdated) domain.MemberEvent {
	member := upd.NewChatMember
	name := domain.FallbackName
	var userID int64
	if member.User != nil {
		userID = member.User.ID
		if member.User.FirstName != "" {
			name = member.User.FirstName
		}
	}
	status := domain.MemberStatusOther
	switch member.Status {
	case "member":
		status = domain.MemberStatusMember
	case "administrator":
		status = domain.MemberStatusAdmin
	}
	return domain.MemberEvent{
		ChatID: upd.Chat.ID,
		UserID: userID,
		Name:   name,
		Status: status,
	}
}
