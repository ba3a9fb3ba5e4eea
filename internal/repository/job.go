// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jianzhi/jianzhi/pkg/model"
	"github.com/lib/pq"
)

// JobRepository 工作定义仓储
type JobRepository struct {
	db DB
}

// NewJobRepository 创建工作定义仓储
func NewJobRepository(db DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create 创建工作定义
func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `
		INSERT INTO jobs (
			id, user_id, name, store_open_time, store_close_time,
			hourly_wage, night_wage, holiday_pay, weekly_holiday, monthly_holidays,
			color, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.UserID, job.Name, job.StoreOpenTime, job.StoreCloseTime,
		job.HourlyWage, job.NightWage, job.HolidayPay,
		pq.Array(job.WeeklyHoliday), pq.Array(job.MonthlyHolidays),
		job.Color, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建工作定义失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取工作定义
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	query := jobSelectColumns + ` FROM jobs WHERE id = $1 AND deleted_at IS NULL`

	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询工作定义失败: %w", err)
	}

	return job, nil
}

// ListByUser 查询用户的全部工作定义
func (r *JobRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Job, error) {
	query := jobSelectColumns + `
		FROM jobs
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("查询工作定义列表失败: %w", err)
	}
	defer rows.Close()

	var jobs []*model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("扫描工作定义失败: %w", err)
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// Update 更新工作定义
func (r *JobRepository) Update(ctx context.Context, job *model.Job) error {
	job.UpdatedAt = time.Now()

	query := `
		UPDATE jobs SET
			name = $2, store_open_time = $3, store_close_time = $4,
			hourly_wage = $5, night_wage = $6, holiday_pay = $7,
			weekly_holiday = $8, monthly_holidays = $9, color = $10, updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		job.ID, job.Name, job.StoreOpenTime, job.StoreCloseTime,
		job.HourlyWage, job.NightWage, job.HolidayPay,
		pq.Array(job.WeeklyHoliday), pq.Array(job.MonthlyHolidays),
		job.Color, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("更新工作定义失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("工作定义不存在")
	}

	return nil
}

// Delete 软删除工作定义
func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE jobs SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除工作定义失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("工作定义不存在")
	}

	return nil
}

const jobSelectColumns = `
	SELECT id, user_id, name, store_open_time, store_close_time,
		hourly_wage, night_wage, holiday_pay, weekly_holiday, monthly_holidays,
		color, created_at, updated_at`

// scanJob 扫描单行工作定义
func scanJob(s Scanner) (*model.Job, error) {
	job := &model.Job{}
	var weekly pq.StringArray
	var monthly pq.Int64Array

	err := s.Scan(
		&job.ID, &job.UserID, &job.Name, &job.StoreOpenTime, &job.StoreCloseTime,
		&job.HourlyWage, &job.NightWage, &job.HolidayPay, &weekly, &monthly,
		&job.Color, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.WeeklyHoliday = []string(weekly)
	job.MonthlyHolidays = make([]int, 0, len(monthly))
	for _, d := range monthly {
		job.MonthlyHolidays = append(job.MonthlyHolidays, int(d))
	}
	return job, nil
}
