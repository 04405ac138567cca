package middleware

import (
	"net/http"

	"hedgebot/pkg/ratelimit"
	"hedgebot/pkg/utils"
)

// Категории запросов для rate limiting
const (
	categoryRead  = "read"
	categoryWrite = "write"
)

// NewRateLimit - middleware для ограничения частоты API запросов
//
// Назначение:
// Защищает цикл мониторинга от шторма запросов. Лимиты раздельные:
// чтение (статусы, история, уведомления) дешевое и получает высокий
// лимит, запись (запуск мониторинга, хеджи) - низкий.
//
// Превышение лимита возвращает 429 Too Many Requests без ожидания:
// клиент сам решает когда повторить.
func NewRateLimit(readRate, writeRate float64) func(http.Handler) http.Handler {
	limiters := ratelimit.NewMultiLimiter()
	limiters.Add(categoryRead, readRate, readRate*2)
	limiters.Add(categoryWrite, writeRate, writeRate*2)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			category := categoryRead
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
				category = categoryWrite
			}

			if !limiters.Allow(category) {
				utils.Warn("rate limit exceeded",
					utils.String("method", r.Method),
					utils.String("path", r.URL.Path),
					utils.String("remote_addr", r.RemoteAddr),
				)
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
