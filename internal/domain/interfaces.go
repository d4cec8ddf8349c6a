package domain

import "context"

// MemberCounter возвращает живое число участников чата из Telegram.
type MemberCounter interface {
	LiveMemberCount(ctx context.Context, chatID int64) (int, error)
}

// TickHandler реагирует на срабатывание расписания для конкретного чата.
// Таймерами владеет внешний раннер, ядро только принимает вызовы.
type TickHandler interface {
	OnScheduledTick(ctx context.Context, chatID int64)
}
