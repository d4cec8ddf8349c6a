package domain

import "time"

// DateKey — календарный день в формате ГГГГ-ММ-ДД в часовом поясе бота.
type DateKey string

// Submission — первая принятая фотография пользователя за день.
type Submission struct {
	UserID int64
	Name   string
	Time   string
}

// StreakEntry — позиция пользователя в таблице серий.
type StreakEntry struct {
	UserID int64
	Name   string
	Streak int
}

// SummaryReport — сводка по чату на момент запроса. Никогда не сохраняется,
// строится заново при каждом обращении.
type SummaryReport struct {
	ChatID       int64
	GeneratedAt  time.Time
	TotalMembers int
	// Approximate означает, что счёт участников взят из локального ростера,
	// потому что живой счёт из Telegram получить не удалось.
	Approximate bool
	Submitted   int
	Pending     int
	Leaderboard []StreakEntry
}

// Award — одно наградное объявление для участника из топ-5.
type Award struct {
	Rank   int
	Badge  string
	UserID int64
	Name   string
	Streak int
}
