package utils

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger.go - настройка логирования
//
// Назначение:
// Инициализация и настройка структурированного логирования на базе zap.
//
// Функции:
// - InitLogger: создать и настроить logger
//   * Выбор формата (json, text)
//   * Уровни: debug, info, warn, error, fatal
//   * Вывод в файл или stderr
// - Глобальный логгер: InitGlobalLogger / GetGlobalLogger / L
// - Доменные конструкторы полей: Asset, SubscriberID, Delta, VaR, ...

// LogConfig - параметры инициализации логгера
type LogConfig struct {
	// Level - минимальный уровень: debug, info, warn, error, fatal
	Level string

	// Format - формат вывода: "json" или "text"
	Format string

	// Output - путь к файлу лога; пусто = stderr
	Output string

	// Development - режим разработки (caller, stacktrace на warn)
	Development bool
}

// Logger оборачивает zap.Logger и его sugared-вариант
type Logger struct {
	*zap.Logger
	sugar *zap.SugaredLogger
}

// parseLevel разбирает строковый уровень логирования.
// Нераспознанный уровень трактуется как info.
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// InitLogger создаёт и настраивает логгер.
//
// При недоступном файле вывода происходит fallback на stderr,
// функция никогда не паникует и не возвращает nil.
func InitLogger(cfg LogConfig) *Logger {
	level := parseLevel(cfg.Level)

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if strings.ToLower(cfg.Format) == "json" {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	var sink zapcore.WriteSyncer = zapcore.AddSync(os.Stderr)
	if cfg.Output != "" {
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			sink = zapcore.AddSync(file)
		}
		// При ошибке остаёмся на stderr
	}

	core := zapcore.NewCore(encoder, sink, level)

	opts := []zap.Option{}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddCaller())
	}

	zl := zap.New(core, opts...)
	return &Logger{
		Logger: zl,
		sugar:  zl.Sugar(),
	}
}

// Sugar возвращает sugared-логгер для printf-стиля
func (l *Logger) Sugar() *zap.SugaredLogger {
	return l.sugar
}

// With возвращает дочерний логгер с дополнительными полями
func (l *Logger) With(fields ...zap.Field) *Logger {
	child := l.Logger.With(fields...)
	return &Logger{
		Logger: child,
		sugar:  child.Sugar(),
	}
}

// WithComponent возвращает логгер с полем component
func (l *Logger) WithComponent(name string) *Logger {
	return l.With(Component(name))
}

// WithAsset возвращает логгер с полем asset
func (l *Logger) WithAsset(asset string) *Logger {
	return l.With(Asset(asset))
}

// WithSubscriber возвращает логгер с полем subscriber_id
func (l *Logger) WithSubscriber(id string) *Logger {
	return l.With(SubscriberID(id))
}

// ============================================================
// Глобальный логгер
// ============================================================

var (
	globalMu     sync.Mutex
	globalLogger *Logger
)

// InitGlobalLogger инициализирует глобальный логгер из конфигурации
func InitGlobalLogger(cfg LogConfig) *Logger {
	logger := InitLogger(cfg)
	SetGlobalLogger(logger)
	return logger
}

// SetGlobalLogger устанавливает глобальный логгер
func SetGlobalLogger(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// GetGlobalLogger возвращает глобальный логгер, создавая его
// с настройками по умолчанию при первом обращении
func GetGlobalLogger() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = InitLogger(LogConfig{})
	}
	return globalLogger
}

// L - короткий алиас для GetGlobalLogger
func L() *Logger {
	return GetGlobalLogger()
}

// Debug логирует через глобальный логгер
func Debug(msg string, fields ...zap.Field) {
	GetGlobalLogger().Logger.Debug(msg, fields...)
}

// Info логирует через глобальный логгер
func Info(msg string, fields ...zap.Field) {
	GetGlobalLogger().Logger.Info(msg, fields...)
}

// Warn логирует через глобальный логгер
func Warn(msg string, fields ...zap.Field) {
	GetGlobalLogger().Logger.Warn(msg, fields...)
}

// Error логирует через глобальный логгер
func Error(msg string, fields ...zap.Field) {
	GetGlobalLogger().Logger.Error(msg, fields...)
}

// Debugf логирует в printf-стиле
func Debugf(template string, args ...interface{}) {
	GetGlobalLogger().sugar.Debugf(template, args...)
}

// Infof логирует в printf-стиле
func Infof(template string, args ...interface{}) {
	GetGlobalLogger().sugar.Infof(template, args...)
}

// Warnf логирует в printf-стиле
func Warnf(template string, args ...interface{}) {
	GetGlobalLogger().sugar.Warnf(template, args...)
}

// Errorf логирует в printf-стиле
func Errorf(template string, args ...interface{}) {
	GetGlobalLogger().sugar.Errorf(template, args...)
}

// fieldsToInterface конвертирует zap.Field в пары ключ-значение
// для sugared-логгера
func fieldsToInterface(fields []zap.Field) []interface{} {
	result := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		var value interface{}
		switch {
		case f.Interface != nil:
			value = f.Interface
		case f.String != "":
			value = f.String
		default:
			value = f.Integer
		}
		result = append(result, f.Key, value)
	}
	return result
}

// ============================================================
// Доменные конструкторы полей
// ============================================================

// Asset - поле с тикером актива
func Asset(asset string) zap.Field {
	return zap.String("asset", asset)
}

// SubscriberID - поле с идентификатором подписчика
func SubscriberID(id string) zap.Field {
	return zap.String("subscriber_id", id)
}

// Delta - поле с дельтой позиции
func Delta(delta float64) zap.Field {
	return zap.Float64("delta", delta)
}

// VaR - поле со значением value-at-risk
func VaR(v float64) zap.Field {
	return zap.Float64("var", v)
}

// HedgeSize - поле с размером хеджа
func HedgeSize(size float64) zap.Field {
	return zap.Float64("hedge_size", size)
}

// Price - поле с ценой
func Price(price float64) zap.Field {
	return zap.Float64("price", price)
}

// PositionSize - поле с размером позиции
func PositionSize(size float64) zap.Field {
	return zap.Float64("position_size", size)
}

// Strategy - поле со стратегией хеджирования
func Strategy(strategy string) zap.Field {
	return zap.String("strategy", strategy)
}

// State - поле с состоянием монитора
func State(state string) zap.Field {
	return zap.String("state", state)
}

// Latency - поле с задержкой в миллисекундах
func Latency(ms float64) zap.Field {
	return zap.Float64("latency_ms", ms)
}

// RequestID - поле с идентификатором запроса
func RequestID(id string) zap.Field {
	return zap.String("request_id", id)
}

// Component - поле с именем компонента
func Component(name string) zap.Field {
	return zap.String("component", name)
}

// ============================================================
// Переэкспорт стандартных конструкторов zap
// ============================================================

// String - алиас zap.String
func String(key, value string) zap.Field {
	return zap.String(key, value)
}

// Int - алиас zap.Int
func Int(key string, value int) zap.Field {
	return zap.Int(key, value)
}

// Int64 - алиас zap.Int64
func Int64(key string, value int64) zap.Field {
	return zap.Int64(key, value)
}

// Float64 - алиас zap.Float64
func Float64(key string, value float64) zap.Field {
	return zap.Float64(key, value)
}

// Bool - алиас zap.Bool
func Bool(key string, value bool) zap.Field {
	return zap.Bool(key, value)
}

// Err - алиас zap.Error
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Any - алиас zap.Any
func Any(key string, value interface{}) zap.Field {
	return zap.Any(key, value)
}
