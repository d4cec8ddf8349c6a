package attendance

import (
	"testing"
	"time"

	"tg-attendance-bot/internal/domain"
)

const testChat int64 = -100123

func newTestStore(t *testing.T, now time.Time) *Store {
	t.Helper()
	s := NewStore(time.UTC)
	s.now = func() time.Time { return now }
	return s
}

func photoAt(userID int64, name string, at time.Time) domain.PhotoEvent {
	return domain.PhotoEvent{ChatID: testChat, UserID: userID, Name: name, At: at}
}

func mustRecord(t *testing.T, s *Store, ev domain.PhotoEvent, want domain.Outcome) int {
	t.Helper()
	outcome, streak := s.RecordPhoto(ev)
	if outcome != want {
		t.Fatalf("ожидали исход %s, получили %s", want, outcome)
	}
	return streak
}

func TestRecordPhotoFirstOfDay(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	s := newTestStore(t, now)

	streak := mustRecord(t, s, photoAt(7, "Asha", now), domain.OutcomeRecorded)
	if streak != 1 {
		t.Fatalf("первая отметка должна дать серию 1, получили %d", streak)
	}
	if got := s.TodayCount(testChat); got != 1 {
		t.Fatalf("ожидали 1 отметку за сегодня, получили %d", got)
	}
	if got := s.RosterSize(testChat); got != 1 {
		t.Fatalf("отметка должна добавить пользователя в ростер, размер %d", got)
	}
}

func TestRecordPhotoSecondSameDayIsNoop(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	s := newTestStore(t, now)

	mustRecord(t, s, photoAt(7, "Asha", now), domain.OutcomeRecorded)
	streak := mustRecord(t, s, photoAt(7, "Asha", now.Add(2*time.Hour)), domain.OutcomeAlreadySubmitted)

	if streak != 1 {
		t.Fatalf("повтор не должен менять серию, получили %d", streak)
	}
	if got := s.TodayCount(testChat); got != 1 {
		t.Fatalf("повтор не должен создавать отметку, счёт %d", got)
	}
	if got := s.RosterSize(testChat); got != 1 {
		t.Fatalf("повтор не должен менять ростер, размер %d", got)
	}
}

func TestStreakIncrementsOnConsecutiveDays(t *testing.T) {
	day1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, day1)

	mustRecord(t, s, photoAt(7, "Asha", day1), domain.OutcomeRecorded)
	streak := mustRecord(t, s, photoAt(7, "Asha", day1.AddDate(0, 0, 1)), domain.OutcomeRecorded)
	if streak != 2 {
		t.Fatalf("отметка на следующий день должна дать серию 2, получили %d", streak)
	}
	streak = mustRecord(t, s, photoAt(7, "Asha", day1.AddDate(0, 0, 2)), domain.OutcomeRecorded)
	if streak != 3 {
		t.Fatalf("третий день подряд должен дать серию 3, получили %d", streak)
	}
}

func TestStreakResetsAfterSkippedDay(t *testing.T) {
	day1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, day1)

	mustRecord(t, s, photoAt(7, "Asha", day1), domain.OutcomeRecorded)
	// День 2 пропущен, отметка в день 3 начинает серию заново.
	streak := mustRecord(t, s, photoAt(7, "Asha", day1.AddDate(0, 0, 2)), domain.OutcomeRecorded)
	if streak != 1 {
		t.Fatalf("после пропуска серия должна сброситься к 1, получили %d", streak)
	}
}

func TestAlbumCollapsesToOneSubmission(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	ev := photoAt(7, "Asha", now)
	ev.MediaGroupID = "album-1"
	mustRecord(t, s, ev, domain.OutcomeRecorded)

	for i := 0; i < 3; i++ {
		mustRecord(t, s, ev, domain.OutcomeDuplicateAlbum)
	}
	if got := s.TodayCount(testChat); got != 1 {
		t.Fatalf("альбом должен дать ровно одну отметку, получили %d", got)
	}
}

func TestAlbumAfterSinglePhotoStillMarked(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	mustRecord(t, s, photoAt(7, "Asha", now), domain.OutcomeRecorded)

	// Первое фото альбома помечает группу до проверки дневного дубля,
	// остальные фото того же альбома отваливаются раньше хранилища.
	ev := photoAt(7, "Asha", now.Add(time.Hour))
	ev.MediaGroupID = "album-1"
	mustRecord(t, s, ev, domain.OutcomeAlreadySubmitted)
	mustRecord(t, s, ev, domain.OutcomeDuplicateAlbum)
}

func TestAlbumKeysPurgedOnDayRollover(t *testing.T) {
	day1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, day1)

	ev := photoAt(7, "Asha", day1)
	ev.MediaGroupID = "album-1"
	mustRecord(t, s, ev, domain.OutcomeRecorded)

	ev2 := photoAt(8, "Binu", day1.AddDate(0, 0, 1))
	ev2.MediaGroupID = "album-2"
	mustRecord(t, s, ev2, domain.OutcomeRecorded)

	if len(s.albums) != 1 {
		t.Fatalf("ключи прошлых дней должны удаляться, осталось дней: %d", len(s.albums))
	}
	if _, ok := s.albums[domain.DateKey("2025-06-02")]; !ok {
		t.Fatal("набор альбомов должен содержать только текущий день")
	}
}

func TestChatsAreIsolated(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	mustRecord(t, s, photoAt(7, "Asha", now), domain.OutcomeRecorded)

	other := domain.PhotoEvent{ChatID: -100999, UserID: 7, Name: "Asha", At: now}
	if outcome, _ := s.RecordPhoto(other); outcome != domain.OutcomeRecorded {
		t.Fatalf("отметка в другом чате независима, получили %s", outcome)
	}
	if got := s.TodayCount(testChat); got != 1 {
		t.Fatalf("состояние чатов перемешалось: %d", got)
	}
}

func TestObserveOverwritesName(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	s.Observe(testChat, 7, "Asha")
	s.Observe(testChat, 7, "Asha Devi")
	mustRecord(t, s, photoAt(7, "Asha Devi", now), domain.OutcomeRecorded)

	top := s.TopStreaks(testChat, 5)
	if len(top) != 1 || top[0].Name != "Asha Devi" {
		t.Fatalf("ожидали последнее имя в ростере, получили %+v", top)
	}
}

func TestObserveFallbackName(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	s.Observe(testChat, 7, "")
	names := s.PendingNames(testChat)
	if len(names) != 1 || names[0] != domain.FallbackName {
		t.Fatalf("пустое имя должно заменяться заглушкой, получили %v", names)
	}
}

func TestPendingNamesExcludesSubmitted(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	s.Observe(testChat, 1, "Asha")
	s.Observe(testChat, 2, "Binu")
	s.Observe(testChat, 3, "Charu")
	mustRecord(t, s, photoAt(2, "Binu", now), domain.OutcomeRecorded)

	names := s.PendingNames(testChat)
	if len(names) != 2 {
		t.Fatalf("ожидали 2 пендинга, получили %v", names)
	}
	if names[0] != "Asha" || names[1] != "Charu" {
		t.Fatalf("ожидали [Asha Charu], получили %v", names)
	}
}

func TestTopStreaksOrderingAndExclusion(t *testing.T) {
	day1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	now := day1.AddDate(0, 0, 1)
	s := newTestStore(t, now)

	// Серия 2 у пользователя 5, серия 1 у пользователя 3, ноль у 9.
	mustRecord(t, s, photoAt(5, "Lata", day1), domain.OutcomeRecorded)
	mustRecord(t, s, photoAt(5, "Lata", now), domain.OutcomeRecorded)
	mustRecord(t, s, photoAt(3, "Meena", now), domain.OutcomeRecorded)
	s.Observe(testChat, 9, "Nitu")

	top := s.TopStreaks(testChat, 5)
	if len(top) != 2 {
		t.Fatalf("нулевые серии должны исключаться, получили %+v", top)
	}
	if top[0].UserID != 5 || top[0].Streak != 2 {
		t.Fatalf("первое место неверно: %+v", top[0])
	}
	if top[1].UserID != 3 || top[1].Streak != 1 {
		t.Fatalf("второе место неверно: %+v", top[1])
	}
}

func TestTopStreaksTieBreakByUserID(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	mustRecord(t, s, photoAt(22, "B", now), domain.OutcomeRecorded)
	mustRecord(t, s, photoAt(11, "A", now), domain.OutcomeRecorded)
	mustRecord(t, s, photoAt(33, "C", now), domain.OutcomeRecorded)

	top := s.TopStreaks(testChat, 5)
	if top[0].UserID != 11 || top[1].UserID != 22 || top[2].UserID != 33 {
		t.Fatalf("при равных сериях порядок по идентификатору: %+v", top)
	}
}

func TestTopStreaksTruncatesToLimit(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	for id := int64(1); id <= 7; id++ {
		mustRecord(t, s, photoAt(id, "User", now), domain.OutcomeRecorded)
	}
	if got := len(s.TopStreaks(testChat, 5)); got != 5 {
		t.Fatalf("ожидали 5 позиций, получили %d", got)
	}
}
