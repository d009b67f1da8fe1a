package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса (config.toml)
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Redis     RedisConfig     `toml:"redis"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Kafka     KafkaConfig     `toml:"kafka"`
	Booking   BookingConfig   `toml:"booking"`
	Admin     AdminConfig     `toml:"admin"`
	Reminders RemindersConfig `toml:"reminders"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RateLimitConfig ограничение частоты публичных запросов.
// При включенном Redis используется общий fixed window, иначе локальный token bucket.
type RateLimitConfig struct {
	Enabled           bool   `toml:"enabled"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
	Burst             int    `toml:"burst"`
	KeyPrefix         string `toml:"key_prefix"`
	FailOpen          bool   `toml:"fail_open"`
}

type KafkaConfig struct {
	Brokers string `toml:"brokers"` // через запятую, пусто = уведомления только в лог
	Topic   string `toml:"topic"`
}

// BookingConfig значения бизнес-настроек по умолчанию.
// Значения из таблицы system_settings имеют приоритет.
type BookingConfig struct {
	Timezone            string `toml:"timezone"`
	DefaultLanguage     string `toml:"default_language"`
	CancelDeadlineHours int    `toml:"cancel_deadline_hours"`
	BookingRangeDays    int    `toml:"booking_range_days"`
	ReminderEnabled     bool   `toml:"reminder_enabled"`
	BaseURL             string `toml:"base_url"`
}

type AdminConfig struct {
	Token string `toml:"token"`
}

type RemindersConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"`
}

// Load читает .env (если есть), затем TOML файл с подстановкой ${VAR} из окружения
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	return Parse(string(raw))
}

// Parse разбирает содержимое TOML и применяет значения по умолчанию
func Parse(data string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.Decode(os.ExpandEnv(data), cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "reservation-system",
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 120,
			Burst:             20,
			KeyPrefix:         "rl:reservation",
			FailOpen:          true,
		},
		Kafka: KafkaConfig{Topic: "reservation.notifications"},
		Booking: BookingConfig{
			Timezone:            "Asia/Tokyo",
			DefaultLanguage:     "ja",
			CancelDeadlineHours: 24,
			BookingRangeDays:    90,
			ReminderEnabled:     true,
			BaseURL:             "http://localhost:3000",
		},
		Reminders: RemindersConfig{
			Enabled:  true,
			Schedule: "0 18 * * *",
		},
	}
}

func (c *Config) validate() error {
	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		return fmt.Errorf("config: invalid booking.timezone %q: %w", c.Booking.Timezone, err)
	}
	if c.Booking.CancelDeadlineHours < 0 {
		return errors.New("config: booking.cancel_deadline_hours must be non-negative")
	}
	if c.Booking.BookingRangeDays < 0 {
		return errors.New("config: booking.booking_range_days must be non-negative")
	}
	if c.Server.HTTPPort <= 0 {
		return errors.New("config: server.http_port must be positive")
	}
	c.Booking.BaseURL = strings.TrimRight(c.Booking.BaseURL, "/")
	return nil
}
