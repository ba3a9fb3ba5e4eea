// Package wage 按逐小时规则计算班次收入
package wage

import (
	"time"

	"github.com/jianzhi/jianzhi/pkg/model"
	"github.com/jianzhi/jianzhi/pkg/timeutil"
)

// 深夜时段边界：22点起、次日5点止（按小时切片的开始时刻判定）
const (
	nightStartHour = 22
	nightEndHour   = 5
)

// IsNightHour 检查某时刻是否属于深夜时段
func IsNightHour(t time.Time) bool {
	h := t.Hour()
	return h >= nightStartHour || h < nightEndHour
}

// IsWeekend 检查某时刻是否属于周末（周六或周日）
func IsWeekend(t time.Time) bool {
	d := t.Weekday()
	return d == time.Saturday || d == time.Sunday
}

// Calculate 计算 [start, end) 的总收入
//
// 区间切分为不超过1小时的切片。每片的基础时薪：切片开始时刻处于
// 深夜时段取 NightWage，否则取 HourlyWage。切片开始时刻落在周末时，
// 在基础收入之上再加 (HolidayPay - HourlyWage) × 切片小时数——
// 周末是附加项而非替换时薪，深夜与周末可以叠加。
// 不足一小时按时长比例计算。
func Calculate(start, end time.Time, job *model.Job) float64 {
	var earnings float64
	for _, slice := range timeutil.HourSlices(start, end) {
		hours := slice.Hours()

		if IsNightHour(slice.Start) {
			earnings += hours * job.NightWage
		} else {
			earnings += hours * job.HourlyWage
		}

		if IsWeekend(slice.Start) {
			earnings += hours * (job.HolidayPay - job.HourlyWage)
		}
	}
	return earnings
}

// ForCandidate 计算候选班次的收入
func ForCandidate(c model.ShiftCandidate) float64 {
	return Calculate(c.Start, c.End, c.Job)
}
