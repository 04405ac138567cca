package bot

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"hedgebot/internal/marketdata"
	"hedgebot/internal/models"
)

// Config - конфигурация цикла мониторинга рисков
type Config struct {
	// Интервал между тиками мониторинга
	TickInterval time.Duration

	// Минимальная пауза между алертами одного монитора.
	// Повторный алерт уходит только когда прошло СТРОГО больше
	// этого времени с предыдущего.
	AlertCooldown time.Duration

	// Пауза после сбоя на уровне тика перед следующей попыткой
	ErrorBackoff time.Duration

	// Глобальный порог VaR: превышение триггерит алерт независимо
	// от персонального порога по delta
	GlobalVarThreshold float64

	// Таймаут на одну оценку риска
	EvaluateTimeout time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		TickInterval:       10 * time.Second,
		AlertCooldown:      300 * time.Second,
		ErrorBackoff:       30 * time.Second,
		GlobalVarThreshold: 0.05,
		EvaluateTimeout:    5 * time.Second,
	}
}

// Engine - цикл периодического мониторинга рисков
//
// Один фоновый goroutine обходит все активные мониторы каждые
// TickInterval. Для каждого монитора: оценка риска → сохранение
// снимка → решение об алерте → опциональный авто-хедж.
//
// Гарантии:
// - ошибка по одному монитору не мешает обработке остальных
// - сбой на уровне тика (включая panic) логируется, цикл делает
//   паузу ErrorBackoff и продолжает работу
// - остановка кооперативная: ctx проверяется в начале каждого тика
type Engine struct {
	registry *MonitorRegistry
	model    RiskModel
	executor *HedgeExecutor
	notifier Notifier
	tracker  *SnapshotTracker
	logger   *zap.Logger
	cfg      Config

	// Переопределяется в тестах для управления временем
	now func() time.Time
}

// NewEngine создает цикл мониторинга
func NewEngine(
	registry *MonitorRegistry,
	model RiskModel,
	executor *HedgeExecutor,
	notifier Notifier,
	tracker *SnapshotTracker,
	logger *zap.Logger,
	cfg Config,
) *Engine {
	return &Engine{
		registry: registry,
		model:    model,
		executor: executor,
		notifier: notifier,
		tracker:  tracker,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Run запускает цикл мониторинга. Блокирует до отмены ctx.
//
// Должен запускаться в отдельной горутине: go engine.Run(ctx)
func (e *Engine) Run(ctx context.Context) {
	e.logger.Info("risk monitoring loop started",
		zap.Duration("tick_interval", e.cfg.TickInterval),
		zap.Duration("alert_cooldown", e.cfg.AlertCooldown),
		zap.Float64("global_var_threshold", e.cfg.GlobalVarThreshold),
	)

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("risk monitoring loop stopped")
			return
		case <-ticker.C:
			if !e.safeTick(ctx) {
				// Сбой тика: пауза перед следующей попыткой
				select {
				case <-ctx.Done():
					e.logger.Info("risk monitoring loop stopped")
					return
				case <-time.After(e.cfg.ErrorBackoff):
				}
			}
		}
	}
}

// safeTick выполняет тик с изоляцией паники.
// Возвращает false если тик завершился сбоем.
func (e *Engine) safeTick(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			RecordLoopFailure()
			e.logger.Error("monitoring tick panicked",
				zap.Any("panic", r),
				zap.Duration("backoff", e.cfg.ErrorBackoff),
			)
			ok = false
		}
	}()

	e.runTick(ctx)
	return true
}

// runTick обрабатывает все активные мониторы один раз
func (e *Engine) runTick(ctx context.Context) {
	start := e.now()

	// Стабильная копия: изменения реестра во время обхода не видны
	monitors := e.registry.SnapshotAll()

	for i := range monitors {
		select {
		case <-ctx.Done():
			return
		default:
		}

		e.checkMonitor(ctx, &monitors[i])
	}

	RecordTickDuration(float64(e.now().Sub(start).Milliseconds()))
}

// checkMonitor обрабатывает один монитор: оценка, алерт, авто-хедж.
// Любая ошибка логируется и не влияет на остальные мониторы.
func (e *Engine) checkMonitor(ctx context.Context, m *models.Monitor) {
	evalCtx, cancel := context.WithTimeout(ctx, e.cfg.EvaluateTimeout)
	defer cancel()

	evalStart := e.now()
	snap, err := e.model.Evaluate(evalCtx, m.Asset, m.PositionSize)
	RecordEvaluation(m.Asset, float64(e.now().Sub(evalStart).Milliseconds()))

	if err != nil {
		if errors.Is(err, marketdata.ErrDataUnavailable) {
			RecordDataUnavailable(m.Asset)
			e.logger.Debug("market data unavailable, skipping evaluation",
				zap.String("subscriber", m.SubscriberID),
				zap.String("asset", m.Asset),
			)
		} else {
			e.logger.Warn("risk evaluation failed",
				zap.String("subscriber", m.SubscriberID),
				zap.String("asset", m.Asset),
				zap.Error(err),
			)
		}
		return
	}

	e.tracker.Update(snap)

	// Решение об алерте: строгие сравнения, равенство порогу не триггерит
	deltaBreach := math.Abs(snap.Delta) > m.RiskThreshold
	varBreach := snap.VaR > e.cfg.GlobalVarThreshold

	if deltaBreach || varBreach {
		e.maybeAlert(ctx, m, snap, deltaBreach)
	}
}

// maybeAlert отправляет алерт с учетом cooldown-окна.
//
// Авто-хедж привязан к отправленному алерту: тик, на котором алерт
// подавлен cooldown-ом (или условия алерта нет вовсе), хедж не
// исполняет. Иначе монитор в cooldown-окне хеджировался бы каждые
// TickInterval без дедупликации.
func (e *Engine) maybeAlert(ctx context.Context, m *models.Monitor, snap models.RiskSnapshot, deltaBreach bool) {
	now := e.now()

	// Cooldown: повторный алерт только СТРОГО после истечения окна
	if m.LastAlertAt != nil && now.Sub(*m.LastAlertAt) <= e.cfg.AlertCooldown {
		RecordAlertSuppressed()
		return
	}

	recommended := RecommendedHedge(&snap, m.PositionSize)

	alert := Alert{
		SubscriberID:     m.SubscriberID,
		Asset:            m.Asset,
		Snapshot:         snap,
		RiskThreshold:    m.RiskThreshold,
		RecommendedHedge: recommended,
		At:               now,
	}

	// Ошибка доставки не прерывает мониторинг
	if err := e.notifier.SendAlert(alert); err != nil {
		e.logger.Warn("alert delivery failed",
			zap.String("subscriber", m.SubscriberID),
			zap.Error(err),
		)
	}

	reason := "var"
	if deltaBreach {
		reason = "delta"
	}
	RecordAlert(m.Asset, reason)

	if err := e.registry.MarkAlerted(m.SubscriberID, now); err != nil {
		// Монитор могли остановить между снимком и алертом
		e.logger.Debug("mark alerted failed",
			zap.String("subscriber", m.SubscriberID),
			zap.Error(err),
		)
		return
	}

	e.logger.Info("risk alert sent",
		zap.String("subscriber", m.SubscriberID),
		zap.String("asset", m.Asset),
		zap.Float64("delta", snap.Delta),
		zap.Float64("var", snap.VaR),
		zap.Float64("recommended_hedge", recommended),
	)

	if m.HedgeConfigured() && math.Abs(snap.Delta) > m.HedgeThreshold {
		e.autoHedge(ctx, m, snap)
	}
}

// autoHedge исполняет автоматический хедж по настроенной стратегии
func (e *Engine) autoHedge(ctx context.Context, m *models.Monitor, snap models.RiskSnapshot) {
	size := RecommendedHedge(&snap, m.PositionSize)
	if size <= 0 {
		return
	}

	exec, err := e.executor.Execute(ctx, m.Asset, size)
	RecordHedgeExecution(m.Asset, "auto", exec.Status)

	if err != nil {
		e.logger.Warn("auto-hedge execution failed",
			zap.String("subscriber", m.SubscriberID),
			zap.String("asset", m.Asset),
			zap.String("strategy", m.HedgeStrategy),
			zap.Error(err),
		)
		if sendErr := e.notifier.SendStatus(m.SubscriberID,
			"Auto-hedge failed for "+m.Asset+": market data unavailable"); sendErr != nil {
			e.logger.Warn("status delivery failed", zap.Error(sendErr))
		}
		return
	}

	if recErr := e.registry.RecordHedge(m.SubscriberID, size); recErr != nil {
		e.logger.Debug("record hedge failed",
			zap.String("subscriber", m.SubscriberID),
			zap.Error(recErr),
		)
	}

	e.logger.Info("auto-hedge executed",
		zap.String("subscriber", m.SubscriberID),
		zap.String("asset", m.Asset),
		zap.String("strategy", m.HedgeStrategy),
		zap.Float64("size", size),
		zap.Float64("price", exec.Price),
	)

	if err := e.notifier.SendStatus(m.SubscriberID,
		"Auto-hedge executed for "+m.Asset); err != nil {
		e.logger.Warn("status delivery failed", zap.Error(err))
	}
}
