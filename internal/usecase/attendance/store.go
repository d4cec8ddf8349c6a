package attendance

import (
	"sort"
	"sync"
	"time"

	"tg-attendance-bot/internal/domain"
)

const dateLayout = "2006-01-02"

type albumKey struct {
	chatID       int64
	mediaGroupID string
}

// Store хранит всё состояние посещаемости процесса: отметки за день, серии,
// ростер известных пользователей и дедупликацию альбомов. Создаётся один раз
// на старте и передаётся по ссылке; после рестарта состояние пустое.
//
// Обработчик апдейтов и раннер расписания работают в разных горутинах,
// поэтому каждая операция берёт мьютекс.
type Store struct {
	mu  sync.Mutex
	loc *time.Location
	now func() time.Time

	// submissions[chatID][date][userID] — первая фотография за день.
	submissions map[int64]map[domain.DateKey]map[int64]domain.Submission
	// streaks[chatID][userID] — длина текущей серии в днях.
	streaks map[int64]map[int64]int
	// lastDate[chatID][userID] — дата последней засчитанной отметки.
	lastDate map[int64]map[int64]domain.DateKey
	// roster[chatID][userID] — имя каждого когда-либо замеченного пользователя.
	roster map[int64]map[int64]string
	// albums — уже засчитанные альбомы, ключи живут только в пределах дня.
	albums map[domain.DateKey]map[albumKey]struct{}
}

// NewStore создаёт пустое состояние в указанном часовом поясе.
func NewStore(loc *time.Location) *Store {
	return &Store{
		loc:         loc,
		now:         time.Now,
		submissions: make(map[int64]map[domain.DateKey]map[int64]domain.Submission),
		streaks:     make(map[int64]map[int64]int),
		lastDate:    make(map[int64]map[int64]domain.DateKey),
		roster:      make(map[int64]map[int64]string),
		albums:      make(map[domain.DateKey]map[albumKey]struct{}),
	}
}

// Now возвращает текущее время в часовом поясе бота.
func (s *Store) Now() time.Time {
	return s.now().In(s.loc)
}

// Today возвращает ключ текущего календарного дня.
func (s *Store) Today() domain.DateKey {
	return s.dateOf(s.now())
}

func (s *Store) dateOf(t time.Time) domain.DateKey {
	return domain.DateKey(t.In(s.loc).Format(dateLayout))
}

// RecordPhoto обрабатывает фото-событие и возвращает исход вместе с текущей
// длиной серии пользователя. Отметка создаётся только при OutcomeRecorded:
// первая фотография дня побеждает, остальные молча игнорируются, альбом
// считается одной отметкой.
func (s *Store) RecordPhoto(ev domain.PhotoEvent) (domain.Outcome, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := s.dateOf(ev.At)

	if ev.MediaGroupID != "" {
		key := albumKey{chatID: ev.ChatID, mediaGroupID: ev.MediaGroupID}
		seen := s.albumsFor(date)
		if _, ok := seen[key]; ok {
			return domain.OutcomeDuplicateAlbum, s.streak(ev.ChatID, ev.UserID)
		}
		seen[key] = struct{}{}
	}

	byDate, ok := s.submissions[ev.ChatID]
	if !ok {
		byDate = make(map[domain.DateKey]map[int64]domain.Submission)
		s.submissions[ev.ChatID] = byDate
	}
	today, ok := byDate[date]
	if !ok {
		today = make(map[int64]domain.Submission)
		byDate[date] = today
	}
	if _, ok := today[ev.UserID]; ok {
		return domain.OutcomeAlreadySubmitted, s.streak(ev.ChatID, ev.UserID)
	}

	name := ev.Name
	if name == "" {
		name = domain.FallbackName
	}
	today[ev.UserID] = domain.Submission{
		UserID: ev.UserID,
		Name:   name,
		Time:   ev.At.In(s.loc).Format("15:04"),
	}
	s.observe(ev.ChatID, ev.UserID, name)

	return domain.OutcomeRecorded, s.updateStreak(ev.ChatID, ev.UserID, date, ev.At)
}

// albumsFor возвращает набор альбомов текущего дня, выбрасывая ключи всех
// прошедших дней, чтобы набор не рос бесконечно.
func (s *Store) albumsFor(date domain.DateKey) map[albumKey]struct{} {
	for d := range s.albums {
		if d != date {
			delete(s.albums, d)
		}
	}
	seen, ok := s.albums[date]
	if !ok {
		seen = make(map[albumKey]struct{})
		s.albums[date] = seen
	}
	return seen
}

// updateStreak пересчитывает серию после новой отметки. Вызывается не более
// одного раза на (чат, пользователь, день): дубликаты отсеяны выше.
func (s *Store) updateStreak(chatID, userID int64, date domain.DateKey, at time.Time) int {
	prev := s.lastDate[chatID][userID]
	yesterday := s.dateOf(at.AddDate(0, 0, -1))

	if _, ok := s.streaks[chatID]; !ok {
		s.streaks[chatID] = make(map[int64]int)
	}
	if prev == yesterday {
		s.streaks[chatID][userID]++
	} else {
		s.streaks[chatID][userID] = 1
	}

	if _, ok := s.lastDate[chatID]; !ok {
		s.lastDate[chatID] = make(map[int64]domain.DateKey)
	}
	s.lastDate[chatID][userID] = date

	return s.streaks[chatID][userID]
}

func (s *Store) streak(chatID, userID int64) int {
	return s.streaks[chatID][userID]
}

// Observe запоминает пользователя чата; имя перезаписывается последним
// наблюдением. Ростер никогда не чистится.
func (s *Store) Observe(chatID, userID int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observe(chatID, userID, name)
}

func (s *Store) observe(chatID, userID int64, name string) {
	if name == "" {
		name = domain.FallbackName
	}
	if _, ok := s.roster[chatID]; !ok {
		s.roster[chatID] = make(map[int64]string)
	}
	s.roster[chatID][userID] = name
}

// TodayCount возвращает число отметившихся сегодня.
func (s *Store) TodayCount(chatID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.submissions[chatID][s.dateOf(s.now())])
}

// RosterSize возвращает число известных пользователей чата.
func (s *Store) RosterSize(chatID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.roster[chatID])
}

// PendingNames возвращает имена известных пользователей без сегодняшней
// отметки, отсортированные по идентификатору для воспроизводимого вывода.
func (s *Store) PendingNames(chatID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.submissions[chatID][s.dateOf(s.now())]
	ids := make([]int64, 0, len(s.roster[chatID]))
	for id := range s.roster[chatID] {
		if _, ok := today[id]; ok {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, s.roster[chatID][id])
	}
	return names
}

// TopStreaks возвращает до limit лучших серий чата: по убыванию длины,
// при равенстве — по возрастанию идентификатора. Нулевые серии исключаются.
func (s *Store) TopStreaks(chatID int64, limit int) []domain.StreakEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]domain.StreakEntry, 0, len(s.roster[chatID]))
	for id, name := range s.roster[chatID] {
		streak := s.streaks[chatID][id]
		if streak <= 0 {
			continue
		}
		entries = append(entries, domain.StreakEntry{UserID: id, Name: name, Streak: streak})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Streak != entries[j].Streak {
			return entries[i].Streak > entries[j].Streak
		}
		return entries[i].UserID < entries[j].UserID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
