package repository

import (
	"database/sql"
	"errors"
	"time"

	"hedgebot/internal/models"
)

// Ошибки репозитория хеджей
var (
	ErrHedgeNotFound = errors.New("hedge execution not found")
)

// HedgeRepository - работа с таблицей hedge_executions
type HedgeRepository struct {
	db *sql.DB
}

// NewHedgeRepository создает новый экземпляр репозитория
func NewHedgeRepository(db *sql.DB) *HedgeRepository {
	return &HedgeRepository{db: db}
}

// Create создает запись об исполнении хеджа
func (r *HedgeRepository) Create(exec *models.HedgeExecution) error {
	query := `
		INSERT INTO hedge_executions (asset, size, price, status, error_message, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	if exec.ExecutedAt.IsZero() {
		exec.ExecutedAt = time.Now()
	}

	err := r.db.QueryRow(
		query,
		exec.Asset,
		exec.Size,
		exec.Price,
		exec.Status,
		exec.ErrorMessage,
		exec.ExecutedAt,
	).Scan(&exec.ID)

	if err != nil {
		return err
	}

	return nil
}

// GetByID возвращает исполнение по ID
func (r *HedgeRepository) GetByID(id int) (*models.HedgeExecution, error) {
	query := `
		SELECT id, asset, size, price, status, error_message, executed_at
		FROM hedge_executions
		WHERE id = $1`

	exec := &models.HedgeExecution{}
	err := r.db.QueryRow(query, id).Scan(
		&exec.ID,
		&exec.Asset,
		&exec.Size,
		&exec.Price,
		&exec.Status,
		&exec.ErrorMessage,
		&exec.ExecutedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHedgeNotFound
		}
		return nil, err
	}

	return exec, nil
}

// GetByAsset возвращает все исполнения по активу
func (r *HedgeRepository) GetByAsset(asset string) ([]*models.HedgeExecution, error) {
	query := `
		SELECT id, asset, size, price, status, error_message, executed_at
		FROM hedge_executions
		WHERE asset = $1
		ORDER BY executed_at DESC`

	rows, err := r.db.Query(query, asset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var execs []*models.HedgeExecution
	for rows.Next() {
		exec := &models.HedgeExecution{}
		err := rows.Scan(
			&exec.ID,
			&exec.Asset,
			&exec.Size,
			&exec.Price,
			&exec.Status,
			&exec.ErrorMessage,
			&exec.ExecutedAt,
		)
		if err != nil {
			return nil, err
		}
		execs = append(execs, exec)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return execs, nil
}

// GetByAssetSince возвращает исполнения по активу начиная с указанного момента
func (r *HedgeRepository) GetByAssetSince(asset string, since time.Time) ([]*models.HedgeExecution, error) {
	query := `
		SELECT id, asset, size, price, status, error_message, executed_at
		FROM hedge_executions
		WHERE asset = $1 AND executed_at >= $2
		ORDER BY executed_at DESC`

	rows, err := r.db.Query(query, asset, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var execs []*models.HedgeExecution
	for rows.Next() {
		exec := &models.HedgeExecution{}
		err := rows.Scan(
			&exec.ID,
			&exec.Asset,
			&exec.Size,
			&exec.Price,
			&exec.Status,
			&exec.ErrorMessage,
			&exec.ExecutedAt,
		)
		if err != nil {
			return nil, err
		}
		execs = append(execs, exec)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return execs, nil
}

// GetRecent возвращает последние N исполнений
func (r *HedgeRepository) GetRecent(limit int) ([]*models.HedgeExecution, error) {
	query := `
		SELECT id, asset, size, price, status, error_message, executed_at
		FROM hedge_executions
		ORDER BY executed_at DESC
		LIMIT $1`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var execs []*models.HedgeExecution
	for rows.Next() {
		exec := &models.HedgeExecution{}
		err := rows.Scan(
			&exec.ID,
			&exec.Asset,
			&exec.Size,
			&exec.Price,
			&exec.Status,
			&exec.ErrorMessage,
			&exec.ExecutedAt,
		)
		if err != nil {
			return nil, err
		}
		execs = append(execs, exec)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return execs, nil
}

// CountByAsset возвращает количество исполнений по активу
func (r *HedgeRepository) CountByAsset(asset string) (int, error) {
	query := `SELECT COUNT(*) FROM hedge_executions WHERE asset = $1`

	var count int
	err := r.db.QueryRow(query, asset).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// CountByStatus возвращает количество исполнений с определенным статусом
func (r *HedgeRepository) CountByStatus(status string) (int, error) {
	query := `SELECT COUNT(*) FROM hedge_executions WHERE status = $1`

	var count int
	err := r.db.QueryRow(query, status).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// DeleteOlderThan удаляет исполнения старше указанной даты
func (r *HedgeRepository) DeleteOlderThan(timestamp time.Time) (int64, error) {
	query := `DELETE FROM hedge_executions WHERE executed_at < $1`

	result, err := r.db.Exec(query, timestamp)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
