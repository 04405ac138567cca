package service

// RiskService - бизнес-логика оценки рисков
//
// ВАЖНО: Оценка рисков реализована в пакете bot, а не в service.
// См. internal/bot/riskmodel.go и internal/bot/engine.go:
//
// - StochasticModel: стохастическая риск-модель
//   - Evaluate: расчет греков (delta, gamma, theta, vega) и VaR по активу
//   - детерминирована при фиксированном seed (воспроизводимые тесты)
//
// - Engine: цикл периодического мониторинга
//   - обход активных мониторов каждые TickInterval
//   - решение об алерте (персональный порог delta + глобальный порог VaR)
//   - авто-хедж при превышении hedge_threshold
//
// Архитектурное решение:
// Оценка риска работает как часть цикла мониторинга (bot package), а не как
// отдельный сервис, потому что:
// 1. Требует прямого доступа к MonitorRegistry и SnapshotTracker
// 2. Должна выполняться на каждом тике без сетевых запросов к БД
// 3. Интегрирована с HedgeExecutor для авто-хеджирования
// 4. Использует in-memory кэш снимков из SnapshotTracker
//
// Сервисный слой получает результаты оценки через SnapshotTracker
// (см. MonitorService.GetStatus) и историю хеджей через HedgeExecutor
// (см. HistoryService.GetHistory).
