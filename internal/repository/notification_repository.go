package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hedgebot/internal/models"
)

// Ошибки репозитория уведомлений
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// NotificationRepository - работа с таблицей notifications
//
// Назначение: Data Access Layer для журнала уведомлений
//
// Типы уведомлений:
// - RISK_ALERT, HEDGE_EXECUTED, HEDGE_FAILED, MONITOR_START, MONITOR_STOP, ERROR, STATUS
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository создает новый экземпляр репозитория
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create создает новое уведомление
//
// Meta сериализуется в JSONB; nil-мета сохраняется как NULL.
func (r *NotificationRepository) Create(n *models.Notification) error {
	query := `
		INSERT INTO notifications (timestamp, type, severity, subscriber_id, message, meta)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	var meta interface{}
	if n.Meta != nil {
		data, err := json.Marshal(n.Meta)
		if err != nil {
			return fmt.Errorf("marshal notification meta: %w", err)
		}
		meta = data
	}

	err := r.db.QueryRow(
		query,
		n.Timestamp,
		n.Type,
		n.Severity,
		n.SubscriberID,
		n.Message,
		meta,
	).Scan(&n.ID)

	if err != nil {
		return err
	}

	return nil
}

// GetRecent возвращает последние N уведомлений
func (r *NotificationRepository) GetRecent(limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, timestamp, type, severity, subscriber_id, message, meta
		FROM notifications
		ORDER BY timestamp DESC
		LIMIT $1`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// GetByTypes возвращает последние уведомления указанных типов
func (r *NotificationRepository) GetByTypes(types []string, limit int) ([]*models.Notification, error) {
	if len(types) == 0 {
		return r.GetRecent(limit)
	}

	// Строим список плейсхолдеров $1, $2, ... для IN
	placeholders := make([]string, len(types))
	args := make([]interface{}, 0, len(types)+1)
	for i, t := range types {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, t)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT id, timestamp, type, severity, subscriber_id, message, meta
		FROM notifications
		WHERE type IN (%s)
		ORDER BY timestamp DESC
		LIMIT $%d`, strings.Join(placeholders, ", "), len(types)+1)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// GetBySubscriber возвращает последние уведомления подписчика
func (r *NotificationRepository) GetBySubscriber(subscriberID string, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, timestamp, type, severity, subscriber_id, message, meta
		FROM notifications
		WHERE subscriber_id = $1
		ORDER BY timestamp DESC
		LIMIT $2`

	rows, err := r.db.Query(query, subscriberID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// DeleteAll очищает журнал уведомлений
func (r *NotificationRepository) DeleteAll() error {
	query := `DELETE FROM notifications`

	_, err := r.db.Exec(query)
	return err
}

// DeleteOlderThan удаляет уведомления старше указанной даты
func (r *NotificationRepository) DeleteOlderThan(timestamp time.Time) (int64, error) {
	query := `DELETE FROM notifications WHERE timestamp < $1`

	result, err := r.db.Exec(query, timestamp)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// Count возвращает общее количество уведомлений
func (r *NotificationRepository) Count() (int, error) {
	query := `SELECT COUNT(*) FROM notifications`

	var count int
	err := r.db.QueryRow(query).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// scanNotifications читает уведомления из rows, разбирая JSONB-мету
func scanNotifications(rows *sql.Rows) ([]*models.Notification, error) {
	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		var meta sql.NullString

		err := rows.Scan(
			&n.ID,
			&n.Timestamp,
			&n.Type,
			&n.Severity,
			&n.SubscriberID,
			&n.Message,
			&meta,
		)
		if err != nil {
			return nil, err
		}

		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &n.Meta); err != nil {
				return nil, fmt.Errorf("unmarshal notification meta: %w", err)
			}
		}

		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}
