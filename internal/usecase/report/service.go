package report

import (
	"context"

	"github.com/rs/zerolog"

	"tg-attendance-bot/internal/domain"
	"tg-attendance-bot/internal/infra/metrics"
	"tg-attendance-bot/internal/usecase/attendance"
)

// leaderboardSize — сколько позиций попадает в сводку и в награды.
const leaderboardSize = 5

var awardBadges = [leaderboardSize]string{"🥇", "🥈", "🥉", "🎖️", "🏅"}

// Service строит сводки и наградные объявления по состоянию посещаемости.
type Service struct {
	state   *attendance.Store
	counter domain.MemberCounter
	log     zerolog.Logger
}

// NewService создаёт генератор отчётов.
func NewService(state *attendance.Store, counter domain.MemberCounter, log zerolog.Logger) *Service {
	return &Service{state: state, counter: counter, log: log}
}

// MemberCount возвращает число участников чата: живой счёт из Telegram, а при
// его недоступности — размер локального ростера с пометкой о приближении.
// Единая точка для сводки, /members и /pending.
func (s *Service) MemberCount(ctx context.Context, chatID int64) (int, bool) {
	total, err := s.counter.LiveMemberCount(ctx, chatID)
	if err == nil {
		return total, false
	}
	s.log.Warn().Err(err).Int64("chat", chatID).Msg("живой счёт участников недоступен, используем ростер")
	metrics.MemberCountFallbacks.Inc()
	return s.state.RosterSize(chatID), true
}

// BuildSummary собирает сводку по чату на текущий момент.
func (s *Service) BuildSummary(ctx context.Context, chatID int64) domain.SummaryReport {
	total, approximate := s.MemberCount(ctx, chatID)
	submitted := s.state.TodayCount(chatID)

	pending := total - submitted
	if pending < 0 {
		pending = 0
	}

	return domain.SummaryReport{
		ChatID:       chatID,
		GeneratedAt:  s.state.Now(),
		TotalMembers: total,
		Approximate:  approximate,
		Submitted:    submitted,
		Pending:      pending,
		Leaderboard:  s.state.TopStreaks(chatID, leaderboardSize),
	}
}

// BuildAwards возвращает упорядоченные наградные объявления. Пустой результат
// означает, что активных серий нет и награждать некого. Паузы между
// отправками — забота вызывающей стороны, поэтому возвращается весь список.
func (s *Service) BuildAwards(chatID int64) []domain.Award {
	top := s.state.TopStreaks(chatID, leaderboardSize)
	awards := make([]domain.Award, 0, len(top))
	for i, entry := range top {
		awards = append(awards, domain.Award{
			Rank:   i + 1,
			Badge:  awardBadges[i],
			UserID: entry.UserID,
			Name:   entry.Name,
			Streak: entry.Streak,
		})
	}
	return awards
}

// PendingNames возвращает известных пользователей без сегодняшней отметки.
func (s *Service) PendingNames(chatID int64) []string {
	return s.state.PendingNames(chatID)
}
