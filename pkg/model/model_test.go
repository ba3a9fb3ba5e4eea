package model

import (
	"testing"
	"time"
)

// TestLifestyleSleepWindow 测试生活习惯到睡眠时段的映射
func TestLifestyleSleepWindow(t *testing.T) {
	tests := []struct {
		name      string
		lifestyle Lifestyle
		start     string
		end       string
	}{
		{"早睡早起", LifestyleMorning, "22:00", "06:00"},
		{"夜猫子", LifestyleNight, "02:00", "10:00"},
		{"普通作息", LifestyleStandard, "23:00", "07:00"},
		{"未知取值按standard处理", Lifestyle("unknown"), "23:00", "07:00"},
		{"空值按standard处理", Lifestyle(""), "23:00", "07:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.lifestyle.SleepWindow()
			if start != tt.start || end != tt.end {
				t.Errorf("SleepWindow = (%s, %s), 期望 (%s, %s)", start, end, tt.start, tt.end)
			}
		})
	}
}

// TestRecurrenceIsValid 测试重复规则校验
func TestRecurrenceIsValid(t *testing.T) {
	for _, r := range []Recurrence{RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly} {
		if !r.IsValid() {
			t.Errorf("%s 应为合法规则", r)
		}
	}
	for _, r := range []Recurrence{"", "yearly", "每天"} {
		if r.IsValid() {
			t.Errorf("%q 不应为合法规则", r)
		}
	}
}

// TestJobClosureRules 测试店休规则
func TestJobClosureRules(t *testing.T) {
	job := &Job{
		Name:            "便利店",
		WeeklyHoliday:   []string{"Monday", "thursday"},
		MonthlyHolidays: []int{15, 31},
	}

	// 2024-06-03 是周一
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local)
	if !job.IsClosedOn(monday) {
		t.Error("周一应店休")
	}

	// 星期名称不区分大小写
	thursday := time.Date(2024, 6, 6, 0, 0, 0, 0, time.Local)
	if !job.IsWeeklyHoliday(thursday.Weekday()) {
		t.Error("小写星期名称也应命中")
	}

	// 每月15号店休
	day15 := time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local)
	if !job.IsClosedOn(day15) {
		t.Error("每月15号应店休")
	}

	// 普通营业日
	tuesday := time.Date(2024, 6, 4, 0, 0, 0, 0, time.Local)
	if job.IsClosedOn(tuesday) {
		t.Error("周二不应店休")
	}
}

// TestJobCrossesMidnight 测试跨天营业判定
func TestJobCrossesMidnight(t *testing.T) {
	tests := []struct {
		name  string
		open  string
		close string
		want  bool
	}{
		{"普通营业", "09:00", "22:00", false},
		{"跨天营业", "18:00", "02:00", true},
		{"开店打烊相同按跨天", "10:00", "10:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &Job{StoreOpenTime: tt.open, StoreCloseTime: tt.close}
			if got := job.CrossesMidnight(); got != tt.want {
				t.Errorf("CrossesMidnight = %v, 期望 %v", got, tt.want)
			}
		})
	}
}

// TestTimeRange 测试时间范围运算
func TestTimeRange(t *testing.T) {
	base := time.Date(2024, 6, 15, 9, 0, 0, 0, time.Local)
	tr := TimeRange{Start: base, End: base.Add(3 * time.Hour)}

	if tr.Hours() != 3.0 {
		t.Errorf("Hours = %v, 期望 3.0", tr.Hours())
	}

	// 半开区间：包含起点、不含终点
	if !tr.Contains(base) {
		t.Error("应包含起点")
	}
	if tr.Contains(base.Add(3 * time.Hour)) {
		t.Error("不应包含终点")
	}

	other := TimeRange{Start: base.Add(2 * time.Hour), End: base.Add(5 * time.Hour)}
	if !tr.Overlaps(other) {
		t.Error("应重叠")
	}
	adjacent := TimeRange{Start: base.Add(3 * time.Hour), End: base.Add(4 * time.Hour)}
	if tr.Overlaps(adjacent) {
		t.Error("端点相接不算重叠")
	}
}

// TestShiftCandidateHours 测试候选班次工时
func TestShiftCandidateHours(t *testing.T) {
	start := time.Date(2024, 6, 15, 18, 0, 0, 0, time.Local)
	c := ShiftCandidate{Start: start, End: start.Add(210 * time.Minute)}
	if c.Hours() != 3.5 {
		t.Errorf("Hours = %v, 期望 3.5", c.Hours())
	}
}
