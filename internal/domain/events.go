package domain

import "time"

// FallbackName подставляется, если у пользователя нет имени.
const FallbackName = "User"

// MemberStatus — статус участника из обновления chat_member.
type MemberStatus string

const (
	MemberStatusMember MemberStatus = "member"
	MemberStatusAdmin  MemberStatus = "administrator"
	MemberStatusOther  MemberStatus = "other"
)

// PhotoEvent — узкое представление входящего фото-сообщения. Адаптер
// транспорта заполняет его из апдейта, чтобы ядро не зависело от формы
// объектов библиотеки.
type PhotoEvent struct {
	ChatID       int64
	UserID       int64
	Name         string
	MediaGroupID string
	At           time.Time
}

// MemberEvent — изменение членства в чате.
type MemberEvent struct {
	ChatID int64
	UserID int64
	Name   string
	Status MemberStatus
}

// Outcome — результат обработки фото-события.
type Outcome int

const (
	// OutcomeRecorded — фото засчитано как отметка за сегодня.
	OutcomeRecorded Outcome = iota
	// OutcomeAlreadySubmitted — пользователь уже отмечался сегодня.
	OutcomeAlreadySubmitted
	// OutcomeDuplicateAlbum — фото из уже засчитанного альбома.
	OutcomeDuplicateAlbum
)

// String возвращает метку результата для логов и метрик.
func (o Outcome) String() string {
	switch o {
	case OutcomeRecorded:
		return "recorded"
	case OutcomeAlreadySubmitted:
		return "already_submitted"
	case OutcomeDuplicateAlbum:
		return "duplicate_album"
	default:
		return "unknown"
	}
}
