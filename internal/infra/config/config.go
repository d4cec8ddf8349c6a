package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию бота.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	TZ     string `envconfig:"TZ" default:"Asia/Kolkata"`
	Port   int    `envconfig:"PORT" default:"8080"`

	Telegram struct {
		Token string `envconfig:"TG_BOT_TOKEN"`
	} `envconfig:""`

	Chats struct {
		// AllowedIDs — список разрешённых чатов через запятую.
		AllowedIDs []int64 `envconfig:"ALLOWED_CHAT_IDS"`
		// AllowedID — одиночный чат; 0 означает режим настройки,
		// в котором бот отвечает в любом чате.
		AllowedID int64 `envconfig:"ALLOWED_CHAT_ID" default:"0"`
	} `envconfig:""`

	Report struct {
		// Times — локальные времена ежедневных отчётов в формате ЧЧ:ММ.
		Times       []string      `envconfig:"REPORT_TIMES" default:"10:00,14:00,18:00"`
		AwardsLag   time.Duration `envconfig:"AWARDS_LAG" default:"2m"`
		AwardPacing time.Duration `envconfig:"AWARD_PACING" default:"500ms"`
		CommandLag  time.Duration `envconfig:"REPORT_COMMAND_LAG" default:"1s"`
	} `envconfig:""`
}

// AllowedChats сводит оба варианта конфигурации к единому списку.
// Пустой список означает режим настройки.
func (c AppConfig) AllowedChats() []int64 {
	if len(c.Chats.AllowedIDs) > 0 {
		return c.Chats.AllowedIDs
	}
	if c.Chats.AllowedID != 0 {
		return []int64{c.Chats.AllowedID}
	}
	return nil
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
