package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hedgebot/internal/bot"
	"hedgebot/internal/models"
)

// MonitorStatus - текущий статус монитора для выдачи подписчику
type MonitorStatus struct {
	Monitor          models.Monitor       `json:"monitor"`
	StateText        string               `json:"state_text"`
	LastRisk         *models.RiskSnapshot `json:"last_risk,omitempty"`
	RecommendedHedge float64              `json:"recommended_hedge"`
}

// MonitorService предоставляет бизнес-логику управления мониторами рисков.
//
// Отвечает за:
// - Запуск и остановку мониторинга позиций
// - Настройку авто-хеджирования
// - Выдачу статуса с последним риск-снимком
// - Ручное исполнение хеджей
//
// Персистентность best-effort: записи об исполнениях и уведомления
// дублируются в БД, но сбой записи не прерывает операцию - мониторинг
// важнее журнала.
type MonitorService struct {
	registry *bot.MonitorRegistry
	executor *bot.HedgeExecutor
	tracker  *bot.SnapshotTracker

	hedgeRepo       HedgeRepositoryInterface
	notificationSvc NotificationServiceInterface
	logger          *zap.Logger
}

// NewMonitorService создает новый экземпляр MonitorService
func NewMonitorService(
	registry *bot.MonitorRegistry,
	executor *bot.HedgeExecutor,
	tracker *bot.SnapshotTracker,
	logger *zap.Logger,
) *MonitorService {
	return &MonitorService{
		registry: registry,
		executor: executor,
		tracker:  tracker,
		logger:   logger,
	}
}

// SetHedgeRepository подключает БД-журнал исполнений (опционально)
func (s *MonitorService) SetHedgeRepository(repo HedgeRepositoryInterface) {
	s.hedgeRepo = repo
}

// SetNotificationService подключает сервис уведомлений (опционально)
func (s *MonitorService) SetNotificationService(svc NotificationServiceInterface) {
	s.notificationSvc = svc
}

// StartMonitoring запускает мониторинг позиции подписчика.
//
// Повторный запуск для того же подписчика заменяет монитор целиком.
func (s *MonitorService) StartMonitoring(subscriberID, asset string, positionSize, riskThreshold float64) (models.Monitor, error) {
	m, err := s.registry.Start(subscriberID, asset, positionSize, riskThreshold)
	if err != nil {
		return models.Monitor{}, err
	}

	s.logger.Info("monitoring started",
		zap.String("subscriber_id", subscriberID),
		zap.String("asset", asset),
		zap.Float64("position_size", positionSize),
		zap.Float64("risk_threshold", riskThreshold),
	)

	s.notify(&models.Notification{
		Type:         models.NotificationTypeMonitorStart,
		Severity:     models.SeverityInfo,
		SubscriberID: subscriberID,
		Message:      fmt.Sprintf("Monitoring started for %s", asset),
		Meta: map[string]interface{}{
			"asset":          asset,
			"position_size":  positionSize,
			"risk_threshold": riskThreshold,
		},
	})

	return *m, nil
}

// ConfigureHedge настраивает авто-хеджирование для подписчика
func (s *MonitorService) ConfigureHedge(subscriberID, strategy string, threshold float64) (models.Monitor, error) {
	m, err := s.registry.ConfigureHedge(subscriberID, strategy, threshold)
	if err != nil {
		return models.Monitor{}, err
	}

	s.logger.Info("hedge configured",
		zap.String("subscriber_id", subscriberID),
		zap.String("strategy", strategy),
		zap.Float64("hedge_threshold", threshold),
	)

	return *m, nil
}

// GetStatus возвращает статус монитора с последним риск-снимком.
//
// Снимок может отсутствовать, если цикл мониторинга еще не успел
// оценить актив после запуска.
func (s *MonitorService) GetStatus(subscriberID string) (*MonitorStatus, error) {
	m, err := s.registry.Get(subscriberID)
	if err != nil {
		return nil, err
	}

	status := &MonitorStatus{
		Monitor:   *m,
		StateText: bot.StateInfo(m.State),
	}

	if snap, ok := s.tracker.Get(m.Asset); ok {
		status.LastRisk = &snap
		status.RecommendedHedge = bot.RecommendedHedge(&snap, m.PositionSize)
	}

	return status, nil
}

// ListMonitors возвращает все активные мониторы
func (s *MonitorService) ListMonitors() []models.Monitor {
	return s.registry.SnapshotAll()
}

// StopMonitoring останавливает мониторинг подписчика.
//
// История хеджей и последние риск-снимки по активу сохраняются.
func (s *MonitorService) StopMonitoring(subscriberID string) error {
	m, err := s.registry.Get(subscriberID)
	if err != nil {
		return err
	}

	if err := s.registry.Stop(subscriberID); err != nil {
		return err
	}

	s.logger.Info("monitoring stopped",
		zap.String("subscriber_id", subscriberID),
		zap.String("asset", m.Asset),
	)

	s.notify(&models.Notification{
		Type:         models.NotificationTypeMonitorStop,
		Severity:     models.SeverityInfo,
		SubscriberID: subscriberID,
		Message:      fmt.Sprintf("Monitoring stopped for %s", m.Asset),
		Meta:         map[string]interface{}{"asset": m.Asset},
	})

	return nil
}

// ManualHedge исполняет хедж по запросу, вне цикла авто-хеджирования.
//
// Активного монитора по активу не требуется: хедж пишется в историю
// в любом случае. Если мониторы по активу есть, их hedge_status
// обновляется как при авто-хедже.
func (s *MonitorService) ManualHedge(ctx context.Context, asset string, size float64) (models.HedgeExecution, error) {
	exec, err := s.executor.Execute(ctx, asset, size)
	if err == nil || exec.Status == models.HedgeExecutionFailed {
		// Запись существует (filled или failed) - фиксируем метрику и журнал
		bot.RecordHedgeExecution(asset, "manual", exec.Status)
		s.persistExecution(&exec)
	}
	if err != nil {
		return exec, err
	}

	// Обновляем hedge_status мониторов по этому активу
	for _, m := range s.registry.SnapshotAll() {
		if m.Asset != asset {
			continue
		}
		if rerr := s.registry.RecordHedge(m.SubscriberID, size); rerr != nil {
			// Монитор мог быть остановлен между снимком и обновлением
			continue
		}
	}

	s.notify(&models.Notification{
		Type:     models.NotificationTypeHedgeExecuted,
		Severity: models.SeverityInfo,
		Message:  fmt.Sprintf("Manual hedge executed: %s size %.6f @ %.2f", asset, exec.Size, exec.Price),
		Meta: map[string]interface{}{
			"asset": asset,
			"size":  exec.Size,
			"price": exec.Price,
			"mode":  "manual",
		},
	})

	return exec, nil
}

// persistExecution дублирует запись об исполнении в БД (best-effort)
func (s *MonitorService) persistExecution(exec *models.HedgeExecution) {
	if s.hedgeRepo == nil {
		return
	}

	record := *exec
	if err := s.hedgeRepo.Create(&record); err != nil {
		s.logger.Warn("failed to persist hedge execution",
			zap.String("asset", exec.Asset),
			zap.Error(err),
		)
	}
}

// notify отправляет уведомление (best-effort)
func (s *MonitorService) notify(n *models.Notification) {
	if s.notificationSvc == nil {
		return
	}

	n.Timestamp = time.Now().UTC()
	if err := s.notificationSvc.CreateNotification(n); err != nil {
		s.logger.Warn("failed to create notification",
			zap.String("type", n.Type),
			zap.Error(err),
		)
	}
}
