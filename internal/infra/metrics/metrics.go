package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "submissions_total",
		Help: "Обработанные фото-события по исходу",
	}, []string{"outcome"})

	ReportsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reports_sent_total",
		Help: "Отправленные сводки по причине (команда или расписание)",
	}, []string{"cause"})

	AwardsSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "awards_sent_total",
		Help: "Отправленные наградные объявления",
	})

	BotSendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_send_errors_total",
		Help: "Ошибки отправки сообщений ботом",
	})

	MemberCountFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "member_count_fallbacks_total",
		Help: "Сводки, построенные на локальном ростере вместо живого счёта",
	})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		SubmissionsTotal,
		ReportsSentTotal,
		AwardsSentTotal,
		BotSendErrors,
		MemberCountFallbacks,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation string, target int64, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	label := strconv.FormatInt(target, 10)
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, label, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, label, status).Inc()
}

// IncSubmission увеличивает счётчик фото-событий для исхода.
func IncSubmission(outcome string) {
	SubmissionsTotal.WithLabelValues(outcome).Inc()
}

// IncReportSent увеличивает счётчик отправленных сводок.
func IncReportSent(cause string) {
	ReportsSentTotal.WithLabelValues(cause).Inc()
}
