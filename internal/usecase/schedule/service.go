package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tg-attendance-bot/internal/domain"
)

// ErrInvalidTime возвращается, если время отчёта задано не в формате ЧЧ:ММ.
var ErrInvalidTime = errors.New("invalid report time")

// Service сопоставляет настенное время с настроенными моментами отчётов и
// дёргает обработчик тика для каждого разрешённого чата. Вся логика отчёта
// живёт за интерфейсом domain.TickHandler, здесь только часы.
type Service struct {
	times   map[string]struct{}
	loc     *time.Location
	chats   []int64
	handler domain.TickHandler
	log     zerolog.Logger

	lastFired string
}

// NewService создаёт раннер расписания. Времена задаются строками ЧЧ:ММ.
func NewService(times []string, loc *time.Location, chats []int64, handler domain.TickHandler, log zerolog.Logger) (*Service, error) {
	parsed := make(map[string]struct{}, len(times))
	for _, raw := range times {
		candidate := strings.TrimSpace(raw)
		tm, err := time.Parse("15:04", candidate)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
		}
		parsed[tm.Format("15:04")] = struct{}{}
	}
	return &Service{
		times:   parsed,
		loc:     loc,
		chats:   chats,
		handler: handler,
		log:     log,
	}, nil
}

// Tick проверяет, наступил ли один из настроенных моментов, и запускает
// обработку для каждого чата в отдельной горутине, чтобы зависший чат не
// задерживал остальные. Повторный вызов в ту же минуту ничего не делает.
func (s *Service) Tick(ctx context.Context, now time.Time) {
	local := now.In(s.loc)
	if _, ok := s.times[local.Format("15:04")]; !ok {
		return
	}
	key := local.Format("2006-01-02 15:04")
	if key == s.lastFired {
		return
	}
	s.lastFired = key

	s.log.Info().Str("at", key).Int("chats", len(s.chats)).Msg("срабатывание расписания")
	for _, chatID := range s.chats {
		go s.handler.OnScheduledTick(ctx, chatID)
	}
}

// Run крутит минутный тикер до отмены контекста. В режиме настройки список
// чатов пуст и расписание просто молчит.
func (s *Service) Run(ctx context.Context) {
	if len(s.chats) == 0 {
		s.log.Info().Msg("расписание не запущено: чаты не настроены")
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Tick(ctx, now)
		}
	}
}
