// Package timeutil 提供日期与时刻运算工具
//
// 时刻一律使用 24 小时制 "HH:MM" 字符串表示，"24:00" 作为当天结束的哨兵值
// 只被 Combine 和 SplitAtMidnight 理解。日期使用 "YYYY-MM-DD" 字符串或
// 归一化到当天零点的 time.Time。
package timeutil

import (
	"fmt"
	"time"

	"github.com/jianzhi/jianzhi/pkg/model"
)

// ParseClock 解析 "HH:MM" 时刻字符串
// 允许 00:00 ~ 24:00，其中 24:00 只能配 00 分
func ParseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("时刻格式无效: %q，应为 HH:MM", s)
	}
	if _, err := fmt.Sscanf(s, "%2d:%2d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("时刻格式无效: %q，应为 HH:MM", s)
	}
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, 0, fmt.Errorf("时刻超出范围: %q", s)
	}
	return hour, minute, nil
}

// IsValidClock 检查时刻字符串是否合法
func IsValidClock(s string) bool {
	_, _, err := ParseClock(s)
	return err == nil
}

// ParseDate 解析 "YYYY-MM-DD" 日期字符串（本地时区零点）
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(model.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("日期格式无效: %q，应为 YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate 格式化日期为 "YYYY-MM-DD"
func FormatDate(t time.Time) string {
	return t.Format(model.DateLayout)
}

// Midnight 返回某时刻所在日期的零点
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Combine 将日期与时刻组合为具体时间点
// "24:00" 映射到次日零点。clock 必须是合法时刻，调用方负责事先校验。
func Combine(date time.Time, clock string) time.Time {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}
	}
	d := Midnight(date)
	if hour == 24 {
		return d.AddDate(0, 0, 1)
	}
	return d.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// CombineDateString 将 "YYYY-MM-DD" 日期字符串与时刻组合为具体时间点
func CombineDateString(date, clock string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	return Combine(d, clock), nil
}

// Overlaps 标准半开区间重叠判定
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// SplitAtMidnight 将可能跨天的时间段切分为同天有界的占用时间块
// end <= start（HH:MM 数值比较）时按跨天解释：
// 产生 {date, start, "24:00"} 与 {date+1, "00:00", end} 两块；否则原样输出一块。
// 睡眠时段与店铺打烊时段使用完全相同的切分逻辑。
func SplitAtMidnight(start, end string, date time.Time) []model.TimeBlock {
	if end <= start {
		return []model.TimeBlock{
			{Date: FormatDate(date), StartTime: start, EndTime: "24:00"},
			{Date: FormatDate(date.AddDate(0, 0, 1)), StartTime: "00:00", EndTime: end},
		}
	}
	return []model.TimeBlock{
		{Date: FormatDate(date), StartTime: start, EndTime: end},
	}
}

// HourSlices 将 [start, end) 切分为连续的、不超过1小时的子区间序列
// 从 start 起按整小时推进，最后一片在 end 处截断。输入的纯函数，可重复调用。
func HourSlices(start, end time.Time) []model.TimeRange {
	if !start.Before(end) {
		return nil
	}
	var slices []model.TimeRange
	for cur := start; cur.Before(end); cur = cur.Add(time.Hour) {
		next := cur.Add(time.Hour)
		if next.After(end) {
			next = end
		}
		slices = append(slices, model.TimeRange{Start: cur, End: next})
	}
	return slices
}

// DatesBetween 枚举 [start, end] 之间的每个日历日期（含两端，零点对齐）
func DatesBetween(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := Midnight(start); !d.After(Midnight(end)); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// MonthWindow 解析 "YYYY-MM" 并返回该月第一天与最后一天（零点对齐）
func MonthWindow(month string) (start, end time.Time, err error) {
	t, err := time.ParseInLocation("2006-01", month, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("月份格式无效: %q，应为 YYYY-MM", month)
	}
	start = t
	end = t.AddDate(0, 1, -1)
	return start, end, nil
}
