// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jianzhi/jianzhi/pkg/model"
)

// UnavailableTimeRepository 不可用时间仓储
type UnavailableTimeRepository struct {
	db DB
}

// NewUnavailableTimeRepository 创建不可用时间仓储
func NewUnavailableTimeRepository(db DB) *UnavailableTimeRepository {
	return &UnavailableTimeRepository{db: db}
}

// Create 创建不可用时间记录
func (r *UnavailableTimeRepository) Create(ctx context.Context, rec *model.UnavailableTime) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Recurrence == "" {
		rec.Recurrence = model.RecurrenceNone
	}
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	query := `
		INSERT INTO unavailable_times (
			id, user_id, name, date, start_time, end_time, recurrence, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.Name, rec.Date, rec.StartTime, rec.EndTime,
		string(rec.Recurrence), rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建不可用时间失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取不可用时间记录
func (r *UnavailableTimeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.UnavailableTime, error) {
	query := `
		SELECT id, user_id, name, date, start_time, end_time, recurrence, created_at, updated_at
		FROM unavailable_times
		WHERE id = $1 AND deleted_at IS NULL
	`

	rec, err := scanUnavailableTime(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询不可用时间失败: %w", err)
	}

	return rec, nil
}

// ListByUser 查询用户的全部不可用时间记录
func (r *UnavailableTimeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.UnavailableTime, error) {
	query := `
		SELECT id, user_id, name, date, start_time, end_time, recurrence, created_at, updated_at
		FROM unavailable_times
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY date ASC, start_time ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("查询不可用时间列表失败: %w", err)
	}
	defer rows.Close()

	var records []*model.UnavailableTime
	for rows.Next() {
		rec, err := scanUnavailableTime(rows)
		if err != nil {
			return nil, fmt.Errorf("扫描不可用时间失败: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Delete 软删除不可用时间记录
func (r *UnavailableTimeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE unavailable_times SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除不可用时间失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("不可用时间记录不存在")
	}

	return nil
}

// scanUnavailableTime 扫描单行不可用时间记录
func scanUnavailableTime(s Scanner) (*model.UnavailableTime, error) {
	rec := &model.UnavailableTime{}
	var recurrence string

	err := s.Scan(
		&rec.ID, &rec.UserID, &rec.Name, &rec.Date, &rec.StartTime, &rec.EndTime,
		&recurrence, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Recurrence = model.Recurrence(recurrence)
	return rec, nil
}
