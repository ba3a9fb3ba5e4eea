// Package model 定义兼职排班引擎的核心数据模型
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Job 兼职工作定义
// 同一用户下 Name 唯一；StoreCloseTime 在数值上小于等于 StoreOpenTime 时表示跨天营业
type Job struct {
	BaseModel
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	Name            string    `json:"name" db:"name"`
	StoreOpenTime   string    `json:"store_open_time" db:"store_open_time"`   // HH:MM
	StoreCloseTime  string    `json:"store_close_time" db:"store_close_time"` // HH:MM
	HourlyWage      float64   `json:"hourly_wage" db:"hourly_wage"`           // 基础时薪
	NightWage       float64   `json:"night_wage" db:"night_wage"`             // 深夜时薪（22点~次日5点）
	HolidayPay      float64   `json:"holiday_pay" db:"holiday_pay"`           // 周末时薪
	WeeklyHoliday   []string  `json:"weekly_holiday" db:"weekly_holiday"`     // 每周店休（星期名称）
	MonthlyHolidays []int     `json:"monthly_holidays" db:"monthly_holidays"` // 每月店休（日期号）
	Color           string    `json:"color,omitempty" db:"color"`             // 日历显示颜色
}

// IsWeeklyHoliday 检查某天是否为每周店休日
func (j *Job) IsWeeklyHoliday(day time.Weekday) bool {
	for _, name := range j.WeeklyHoliday {
		if strings.EqualFold(name, day.String()) {
			return true
		}
	}
	return false
}

// IsMonthlyHoliday 检查某天是否为每月店休日
func (j *Job) IsMonthlyHoliday(dayOfMonth int) bool {
	for _, d := range j.MonthlyHolidays {
		if d == dayOfMonth {
			return true
		}
	}
	return false
}

// IsClosedOn 检查某个日期是否店休
func (j *Job) IsClosedOn(date time.Time) bool {
	return j.IsWeeklyHoliday(date.Weekday()) || j.IsMonthlyHoliday(date.Day())
}

// CrossesMidnight 检查营业时间是否跨天
func (j *Job) CrossesMidnight() bool {
	return j.StoreCloseTime <= j.StoreOpenTime
}

// UnavailableTime 用户登记的不可用时间（课程、约会等）
// 由持久层按用户读取，经重复规则展开后参与排班
type UnavailableTime struct {
	BaseModel
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	Name       string     `json:"name" db:"name"`
	Date       string     `json:"date" db:"date"`             // 基准日期 YYYY-MM-DD
	StartTime  string     `json:"start_time" db:"start_time"` // HH:MM
	EndTime    string     `json:"end_time" db:"end_time"`     // HH:MM
	Recurrence Recurrence `json:"recurrence" db:"recurrence"`
}
