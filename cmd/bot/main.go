package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"tg-attendance-bot/internal/adapters/bot"
	"tg-attendance-bot/internal/domain"
	"tg-attendance-bot/internal/infra/config"
	infrahttp "tg-attendance-bot/internal/infra/http"
	"tg-attendance-bot/internal/infra/log"
	"tg-attendance-bot/internal/infra/metrics"
	"tg-attendance-bot/internal/usecase/attendance"
	"tg-attendance-bot/internal/usecase/report"
	"tg-attendance-bot/internal/usecase/schedule"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := log.NewLogger(cfg.AppEnv)

	loc, err := time.LoadLocation(cfg.TZ)
	if err != nil {
		logger.Fatal().Err(err).Str("tz", cfg.TZ).Msg("неизвестный часовой пояс")
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("не удалось создать бота")
	}

	allowed := cfg.AllowedChats()
	logger.Info().
		Str("token_fingerprint", tokenFingerprint(cfg.Telegram.Token)).
		Ints64("allowed_chats", allowed).
		Bool("setup_mode", len(allowed) == 0).
		Msg("конфигурация загружена")

	policy := attendance.NewPolicy(allowed)
	state := attendance.NewStore(loc)
	counter := bot.NewMemberCountClient(botAPI)
	reports := report.NewService(state, counter, logger)
	handler := bot.NewHandler(botAPI, logger, policy, state, reports,
		cfg.Report.AwardsLag, cfg.Report.AwardPacing, cfg.Report.CommandLag)

	scheduler, err := schedule.NewService(cfg.Report.Times, loc, allowed, handler, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("некорректное расписание отчётов")
	}

	srv := infrahttp.NewServer(logger)
	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logger.Error().Err(err).Msg("служебный HTTP сервер остановлен")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	go handler.Run(ctx)
	go scheduler.Run(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	logger.Info().Msg("остановка бота")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}

func tokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])[:12]
}

var _ domain.MemberCounter = (*bot.MemberCountClient)(nil)
var _ domain.TickHandler = (*bot.Handler)(nil)
