package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"hedgebot/internal/bot"
	"hedgebot/internal/models"
	"hedgebot/pkg/utils"
)

// HedgeHistory - история хеджей по активу за период со сводкой
type HedgeHistory struct {
	Summary    models.HedgeHistorySummary `json:"summary"`
	Executions []models.HedgeExecution    `json:"executions"`
}

// HistoryService предоставляет выборку истории исполнений хеджей.
//
// Источник правды - in-memory история исполнителя (текущая сессия).
// Если за период в памяти ничего нет, сервис обращается к БД-журналу:
// история переживает рестарт процесса.
type HistoryService struct {
	executor  *bot.HedgeExecutor
	hedgeRepo HedgeRepositoryInterface
	logger    *zap.Logger

	now func() time.Time // для тестов
}

// NewHistoryService создает новый экземпляр HistoryService
func NewHistoryService(executor *bot.HedgeExecutor, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		executor: executor,
		logger:   logger,
		now:      time.Now,
	}
}

// SetHedgeRepository подключает БД-журнал исполнений (опционально)
func (s *HistoryService) SetHedgeRepository(repo HedgeRepositoryInterface) {
	s.hedgeRepo = repo
}

// GetHistory возвращает историю хеджей по активу за таймфрейм.
//
// Таймфрейм задается строкой вида "24h" или "7d"; пустая строка
// означает последние 24 часа. Неизвестный формат - ошибка аргумента.
// Пустая история не ошибка: возвращается сводка с нулевыми счетчиками.
func (s *HistoryService) GetHistory(asset, timeframe string) (*HedgeHistory, error) {
	asset = strings.TrimSpace(strings.ToUpper(asset))
	if asset == "" {
		return nil, fmt.Errorf("%w: asset is required", bot.ErrInvalidArgument)
	}

	window, err := utils.ParseTimeframe(timeframe)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timeframe %q", bot.ErrInvalidArgument, timeframe)
	}

	label := strings.TrimSpace(strings.ToLower(timeframe))
	if label == "" {
		label = "24h"
	}

	since := s.now().Add(-window)
	execs := s.executor.HistorySince(asset, since)

	if len(execs) == 0 && s.hedgeRepo != nil {
		persisted, repoErr := s.hedgeRepo.GetByAssetSince(asset, since)
		if repoErr != nil {
			s.logger.Warn("failed to load hedge history from storage",
				zap.String("asset", asset),
				zap.Error(repoErr),
			)
		} else {
			for _, p := range persisted {
				execs = append(execs, *p)
			}
		}
	}

	history := &HedgeHistory{
		Summary: models.HedgeHistorySummary{
			Asset:     asset,
			Timeframe: label,
		},
		Executions: execs,
	}

	for _, e := range execs {
		history.Summary.Count++
		switch e.Status {
		case models.HedgeExecutionFilled:
			history.Summary.FilledCount++
			history.Summary.TotalSize += e.Size
		case models.HedgeExecutionFailed:
			history.Summary.FailedCount++
		}
	}

	return history, nil
}
