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

// PartTimeShiftRepository 排班结果仓储
//
// 排班提案采用"先清空后重写"的契约：ReplaceForUser 删除用户已有的
// 全部记录后逐条写入新提案。接口契约本身不要求事务性，这里的
// Postgres 实现把整个序列放进一个事务，整体重试因而天然幂等。
type PartTimeShiftRepository struct {
	db DB
	tx TxRunner
}

// NewPartTimeShiftRepository 创建排班结果仓储
func NewPartTimeShiftRepository(db DB, tx TxRunner) *PartTimeShiftRepository {
	return &PartTimeShiftRepository{db: db, tx: tx}
}

// ListByUser 查询用户的全部排班记录（按日期与开始时间升序）
func (r *PartTimeShiftRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.PartTimeShift, error) {
	query := `
		SELECT id, user_id, name, date, start_time, end_time, weekday, recurrence, color, created_at
		FROM part_time_shifts
		WHERE user_id = $1
		ORDER BY date ASC, start_time ASC
	`
	return r.queryShifts(ctx, query, userID)
}

// ListByUserMonth 查询用户某个月份的排班记录
func (r *PartTimeShiftRepository) ListByUserMonth(ctx context.Context, userID uuid.UUID, month string) ([]*model.PartTimeShift, error) {
	query := `
		SELECT id, user_id, name, date, start_time, end_time, weekday, recurrence, color, created_at
		FROM part_time_shifts
		WHERE user_id = $1 AND date LIKE $2
		ORDER BY date ASC, start_time ASC
	`
	return r.queryShifts(ctx, query, userID, month+"-%")
}

// DeleteAllByUser 删除用户的全部排班记录
func (r *PartTimeShiftRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM part_time_shifts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("清空排班记录失败: %w", err)
	}
	return nil
}

// ReplaceForUser 先清空用户的排班记录，再逐条写入新提案
func (r *PartTimeShiftRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, shifts []*model.PartTimeShift) error {
	return r.tx.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM part_time_shifts WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("清空排班记录失败: %w", err)
		}

		query := `
			INSERT INTO part_time_shifts (
				id, user_id, name, date, start_time, end_time, weekday, recurrence, color, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		for _, s := range shifts {
			if s.ID == uuid.Nil {
				s.ID = uuid.New()
			}
			if s.CreatedAt.IsZero() {
				s.CreatedAt = time.Now()
			}
			if _, err := tx.ExecContext(ctx, query,
				s.ID, userID, s.Name, s.Date, s.StartTime, s.EndTime,
				s.Weekday, string(s.Recurrence), s.Color, s.CreatedAt,
			); err != nil {
				return fmt.Errorf("写入排班记录失败: %w", err)
			}
		}
		return nil
	})
}

// queryShifts 执行查询并扫描结果
func (r *PartTimeShiftRepository) queryShifts(ctx context.Context, query string, args ...interface{}) ([]*model.PartTimeShift, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询排班记录失败: %w", err)
	}
	defer rows.Close()

	var shifts []*model.PartTimeShift
	for rows.Next() {
		s := &model.PartTimeShift{}
		var recurrence string
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Name, &s.Date, &s.StartTime, &s.EndTime,
			&s.Weekday, &recurrence, &s.Color, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描排班记录失败: %w", err)
		}
		s.Recurrence = model.Recurrence(recurrence)
		shifts = append(shifts, s)
	}

	return shifts, rows.Err()
}
