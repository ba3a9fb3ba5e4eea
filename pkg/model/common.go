// Package model 定义兼职排班引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// Recurrence 重复规则
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"    // 单次
	RecurrenceDaily   Recurrence = "daily"   // 每天
	RecurrenceWeekly  Recurrence = "weekly"  // 每周
	RecurrenceMonthly Recurrence = "monthly" // 每月（日期号固定）
)

// IsValid 检查重复规则是否合法
func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// Lifestyle 生活习惯类型（决定睡眠时间段）
type Lifestyle string

const (
	LifestyleMorning  Lifestyle = "morning"  // 早睡早起
	LifestyleNight    Lifestyle = "night"    // 夜猫子
	LifestyleStandard Lifestyle = "standard" // 普通作息
)

// SleepWindow 根据生活习惯返回睡眠开始/结束时刻
// 未知取值按 standard 处理
func (l Lifestyle) SleepWindow() (start, end string) {
	switch l {
	case LifestyleMorning:
		return "22:00", "06:00"
	case LifestyleNight:
		return "02:00", "10:00"
	default:
		return "23:00", "07:00"
	}
}

// BaseModel 基础模型（包含通用字段）
type BaseModel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TimeRange 时间范围（半开区间 [Start, End)）
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration 返回时间范围的持续时间
func (tr TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

// Hours 返回时间范围的小时数
func (tr TimeRange) Hours() float64 {
	return tr.End.Sub(tr.Start).Hours()
}

// Overlaps 检查两个时间范围是否重叠
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.Start.Before(other.End) && other.Start.Before(tr.End)
}

// Contains 检查时间范围是否包含某个时间点
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && t.Before(tr.End)
}

// DateLayout 日期字符串格式
const DateLayout = "2006-01-02"

// ClockLayout 时刻字符串格式（24小时制）
const ClockLayout = "15:04"
