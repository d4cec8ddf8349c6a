package attendance

// Policy решает, разрешено ли чату пользоваться ботом. Пустой список
// включает режим настройки: бот отвечает в любом чате, чтобы оператор мог
// узнать идентификаторы групп через /id.
type Policy struct {
	allowed map[int64]struct{}
	chats   []int64
}

// NewPolicy создаёт политику доступа по списку разрешённых чатов.
func NewPolicy(chatIDs []int64) *Policy {
	p := &Policy{allowed: make(map[int64]struct{}, len(chatIDs))}
	for _, id := range chatIDs {
		if _, ok := p.allowed[id]; ok {
			continue
		}
		p.allowed[id] = struct{}{}
		p.chats = append(p.chats, id)
	}
	return p
}

// Allowed сообщает, разрешён ли чат.
func (p *Policy) Allowed(chatID int64) bool {
	if len(p.allowed) == 0 {
		return true
	}
	_, ok := p.allowed[chatID]
	return ok
}

// SetupMode истинен, когда список чатов не настроен.
func (p *Policy) SetupMode() bool {
	return len(p.allowed) == 0
}

// Chats возвращает разрешённые чаты в порядке конфигурации.
func (p *Policy) Chats() []int64 {
	return p.chats
}
