package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Security SecurityConfig
	Bot      BotConfig
	Logging  LoggingConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port     int
	Host     string
	UseHTTPS bool
	CertFile string
	KeyFile  string
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// SecurityConfig - настройки безопасности
type SecurityConfig struct {
	// APITokenHash - bcrypt-хеш токена для аутентификации API.
	// Пустое значение отключает аутентификацию (для локальной разработки).
	APITokenHash string

	SessionTimeout int
}

// BotConfig - настройки цикла мониторинга
type BotConfig struct {
	// Цикл оценки рисков
	TickInterval time.Duration // период опроса мониторов
	ErrorBackoff time.Duration // пауза после сбоя тика

	// Алерты
	AlertCooldown      time.Duration // минимальный интервал между алертами по монитору
	GlobalVarThreshold float64       // глобальный порог VaR

	// Таймауты операций
	EvaluateTimeout time.Duration // таймаут оценки риска одного монитора
	ExecuteTimeout  time.Duration // таймаут исполнения хеджа

	// Retry логика для исполнения хеджей
	MaxRetries   int
	RetryBackoff time.Duration

	// Симулятор рыночных данных
	MarketSeed        int64   // зерно генератора (0 = от времени)
	MarketFailureRate float64 // доля искусственных отказов данных [0, 1]

	// Размер буфера уведомлений
	NotificationBuffer int
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:     getEnvAsInt("SERVER_PORT", 8080),
			Host:     getEnv("SERVER_HOST", "0.0.0.0"),
			UseHTTPS: getEnvAsBool("USE_HTTPS", false),
			CertFile: getEnv("CERT_FILE", ""),
			KeyFile:  getEnv("KEY_FILE", ""),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "hedgebot"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Security: SecurityConfig{
			APITokenHash:   getEnv("API_TOKEN_HASH", ""),
			SessionTimeout: getEnvAsInt("SESSION_TIMEOUT", 3600),
		},
		Bot: BotConfig{
			TickInterval: getEnvAsDuration("TICK_INTERVAL", 10*time.Second),
			ErrorBackoff: getEnvAsDuration("ERROR_BACKOFF", 30*time.Second),

			AlertCooldown:      getEnvAsDuration("ALERT_COOLDOWN", 300*time.Second),
			GlobalVarThreshold: getEnvAsFloat("GLOBAL_VAR_THRESHOLD", 0.05),

			EvaluateTimeout: getEnvAsDuration("EVALUATE_TIMEOUT", 5*time.Second),
			ExecuteTimeout:  getEnvAsDuration("EXECUTE_TIMEOUT", 5*time.Second),

			MaxRetries:   getEnvAsInt("MAX_RETRIES", 2),
			RetryBackoff: getEnvAsDuration("RETRY_BACKOFF", 100*time.Millisecond),

			MarketSeed:        int64(getEnvAsInt("MARKET_SEED", 0)),
			MarketFailureRate: getEnvAsFloat("MARKET_FAILURE_RATE", 0),

			NotificationBuffer: getEnvAsInt("NOTIFICATION_BUFFER", 256),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Валидация критичных параметров безопасности
	if err := cfg.validateSecurity(); err != nil {
		return nil, err
	}

	// Валидация числовых диапазонов
	if err := cfg.validateRanges(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateSecurity проверяет параметры безопасности
func (c *Config) validateSecurity() error {
	// API_TOKEN_HASH опционален, но если задан - это должен быть bcrypt-хеш
	if h := c.Security.APITokenHash; h != "" {
		if len(h) < 59 || h[0] != '$' {
			return fmt.Errorf("API_TOKEN_HASH must be a bcrypt hash")
		}
	}

	return nil
}

// validateRanges проверяет числовые диапазоны параметров
func (c *Config) validateRanges() error {
	// Валидация портов
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT must be between 1 and 65535, got %d", c.Database.Port)
	}

	// Валидация периодов цикла
	if c.Bot.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive, got %v", c.Bot.TickInterval)
	}

	if c.Bot.ErrorBackoff <= 0 {
		return fmt.Errorf("ERROR_BACKOFF must be positive, got %v", c.Bot.ErrorBackoff)
	}

	if c.Bot.AlertCooldown < 0 {
		return fmt.Errorf("ALERT_COOLDOWN cannot be negative, got %v", c.Bot.AlertCooldown)
	}

	// Валидация порога VaR
	if c.Bot.GlobalVarThreshold <= 0 || c.Bot.GlobalVarThreshold > 1 {
		return fmt.Errorf("GLOBAL_VAR_THRESHOLD must be in (0, 1], got %v", c.Bot.GlobalVarThreshold)
	}

	// Валидация retry параметров
	if c.Bot.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES cannot be negative, got %d", c.Bot.MaxRetries)
	}

	if c.Bot.MaxRetries > 10 {
		return fmt.Errorf("MAX_RETRIES should not exceed 10, got %d", c.Bot.MaxRetries)
	}

	// Валидация таймаутов (должны быть положительными)
	if c.Bot.EvaluateTimeout <= 0 {
		return fmt.Errorf("EVALUATE_TIMEOUT must be positive, got %v", c.Bot.EvaluateTimeout)
	}

	if c.Bot.ExecuteTimeout <= 0 {
		return fmt.Errorf("EXECUTE_TIMEOUT must be positive, got %v", c.Bot.ExecuteTimeout)
	}

	// Валидация доли отказов симулятора
	if c.Bot.MarketFailureRate < 0 || c.Bot.MarketFailureRate > 1 {
		return fmt.Errorf("MARKET_FAILURE_RATE must be in [0, 1], got %v", c.Bot.MarketFailureRate)
	}

	// Валидация буфера уведомлений
	if c.Bot.NotificationBuffer < 1 {
		return fmt.Errorf("NOTIFICATION_BUFFER must be at least 1, got %d", c.Bot.NotificationBuffer)
	}

	// Валидация SessionTimeout
	if c.Security.SessionTimeout < 60 {
		return fmt.Errorf("SESSION_TIMEOUT must be at least 60 seconds, got %d", c.Security.SessionTimeout)
	}

	return nil
}

// DSN возвращает строку подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// DSNWithoutPassword возвращает строку подключения без пароля (для логирования)
func (d DatabaseConfig) DSNWithoutPassword() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Name, d.SSLMode)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
