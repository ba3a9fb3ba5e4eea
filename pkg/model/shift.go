// Package model 定义兼职排班引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// TimeBlock 单个具体日期上的一段被占用时间
// StartTime < EndTime（同一天内）；跨天的来源在切分后总是产生两条同天记录
// EndTime 允许 "24:00" 作为当天结束的哨兵值
type TimeBlock struct {
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM，"24:00" 表示当天 24 点
}

// ShiftCandidate 切出的候选班次（未被选中前的中间产物）
type ShiftCandidate struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	JobName string    `json:"job_name"`
	Job     *Job      `json:"-"` // 工资计算上下文
}

// Hours 返回候选班次的小时数
func (c ShiftCandidate) Hours() float64 {
	return c.End.Sub(c.Start).Hours()
}

// Range 返回候选班次对应的时间范围
func (c ShiftCandidate) Range() TimeRange {
	return TimeRange{Start: c.Start, End: c.End}
}

// SelectedShift 被选中的班次及其收入贡献
type SelectedShift struct {
	ShiftCandidate
	Earnings float64 `json:"earnings"`
}

// PartTimeShift 持久化的排班结果（一条记录对应一个被选中的班次）
type PartTimeShift struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	Name       string     `json:"name" db:"name"` // 工作名称
	Date       string     `json:"date" db:"date"`
	StartTime  string     `json:"start_time" db:"start_time"`
	EndTime    string     `json:"end_time" db:"end_time"`
	Weekday    string     `json:"weekday" db:"weekday"` // 星期名称
	Recurrence Recurrence `json:"recurrence" db:"recurrence"`
	Color      string     `json:"color,omitempty" db:"color"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// ProposalRequest 排班提案请求参数
type ProposalRequest struct {
	TargetEarnings float64        `json:"target_earnings"` // 目标收入金额
	TargetMonth    string         `json:"target_month"`    // YYYY-MM
	Lifestyle      Lifestyle      `json:"lifestyle"`
	PreferredDays  []time.Weekday `json:"preferred_days,omitempty"` // 0=周日 .. 6=周六
}

// ProposalResult 排班提案结果
type ProposalResult struct {
	SelectedShifts []SelectedShift `json:"selected_shifts"` // 按开始时间升序
	TotalEarnings  float64         `json:"total_earnings"`
	Statistics     ProposalStats   `json:"statistics"`
}

// ProposalStats 提案统计信息
type ProposalStats struct {
	Jobs           int     `json:"jobs"`
	Days           int     `json:"days"`
	BlockedCount   int     `json:"blocked_count"`   // 汇总后的占用时间段数（全部工作合计）
	CandidateCount int     `json:"candidate_count"` // 候选班次数
	SelectedCount  int     `json:"selected_count"`
	TotalHours     float64 `json:"total_hours"`
}
