package report

import (
	"fmt"
	"strings"

	"tg-attendance-bot/internal/domain"
)

const emptyLeaderboard = "अभी कोई डेटा उपलब्ध नहीं है।"

// FormatSummary формирует текст сводки для отправки в чат.
func FormatSummary(r domain.SummaryReport) string {
	total := fmt.Sprintf("%d", r.TotalMembers)
	if r.Approximate {
		total += " (अनुमानित)"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 %s समूह रिपोर्ट:\n\n", r.GeneratedAt.Format("03:04 PM")))
	b.WriteString(fmt.Sprintf("👥 कुल सदस्य: %s\n", total))
	b.WriteString(fmt.Sprintf("✅ आज रिपोर्ट भेजी: %d\n", r.Submitted))
	b.WriteString(fmt.Sprintf("⏳ रिपोर्ट नहीं भेजी: %d\n\n", r.Pending))
	b.WriteString("🏆 लगातार रिपोर्टिंग करने वाले:\n")
	b.WriteString(formatLeaderboard(r.Leaderboard))
	return b.String()
}

func formatLeaderboard(entries []domain.StreakEntry) string {
	if len(entries) == 0 {
		return emptyLeaderboard
	}
	lines := make([]string, 0, len(entries))
	for i, entry := range entries {
		lines = append(lines, fmt.Sprintf("%d. %s – %d दिन", i+1, entry.Name, entry.Streak))
	}
	return strings.Join(lines, "\n")
}

// FormatAward формирует текст наградного объявления. Имя выделяется
// Markdown-эмфазой, поэтому экранируется.
func FormatAward(a domain.Award) string {
	return fmt.Sprintf("%s *%s*, आप आज #%d स्थान पर हैं — %d दिनों की शानदार रिपोर्टिंग के साथ! 🎉👏",
		a.Badge, escapeMarkdown(a.Name), a.Rank, a.Streak)
}

// FormatConfirmation формирует подтверждение принятой фотографии.
func FormatConfirmation(name string) string {
	return fmt.Sprintf("✅ %s, आपकी आज की फ़ोटो दर्ज कर ली गई है। बहुत अच्छे!", name)
}

// FormatPending формирует ответ на команду /pending: счётчик и превью имён.
func FormatPending(names []string) string {
	if len(names) == 0 {
		return "✅ आज किसी की रिपोर्ट पेंडिंग नहीं है."
	}
	preview := names
	suffix := ""
	if len(preview) > 20 {
		preview = preview[:20]
		suffix = "…"
	}
	return fmt.Sprintf("⏳ आज पेंडिंग: %d\n%s%s", len(names), strings.Join(preview, ", "), suffix)
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer("*", "\\*", "_", "\\_", "`", "\\`", "[", "\\[")
	return replacer.Replace(s)
}
