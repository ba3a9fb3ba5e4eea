package availability

import (
	"testing"
	"time"

	"github.com/jianzhi/jianzhi/pkg/model"
	"github.com/jianzhi/jianzhi/pkg/timeutil"
)

func juneWindow(t *testing.T) Window {
	t.Helper()
	start, end, err := timeutil.MonthWindow("2024-06")
	if err != nil {
		t.Fatalf("构造窗口失败: %v", err)
	}
	return Window{Start: start, End: end}
}

// TestExpandRecordsNone 单次记录只在窗口内输出
func TestExpandRecordsNone(t *testing.T) {
	win := juneWindow(t)

	records := []model.UnavailableTime{
		{Name: "考试", Date: "2024-06-10", StartTime: "09:00", EndTime: "12:00", Recurrence: model.RecurrenceNone},
		{Name: "窗口外", Date: "2024-07-10", StartTime: "09:00", EndTime: "12:00", Recurrence: model.RecurrenceNone},
	}

	blocks := ExpandRecords(records, win)
	if len(blocks) != 1 {
		t.Fatalf("期望1块, 得到 %d", len(blocks))
	}
	if blocks[0].Date != "2024-06-10" || blocks[0].StartTime != "09:00" || blocks[0].EndTime != "12:00" {
		t.Errorf("时间块错误: %+v", blocks[0])
	}
}

// TestExpandRecordsWeekly 每周记录按7天步进展开
func TestExpandRecordsWeekly(t *testing.T) {
	win := juneWindow(t)

	// 2024-06-03 是周一
	records := []model.UnavailableTime{
		{Name: "晚课", Date: "2024-06-03", StartTime: "18:00", EndTime: "21:00", Recurrence: model.RecurrenceWeekly},
	}

	blocks := ExpandRecords(records, win)
	wantDates := []string{"2024-06-03", "2024-06-10", "2024-06-17", "2024-06-24"}
	if len(blocks) != len(wantDates) {
		t.Fatalf("期望 %d 块, 得到 %d", len(wantDates), len(blocks))
	}
	for i, b := range blocks {
		if b.Date != wantDates[i] {
			t.Errorf("第 %d 块日期 %s, 期望 %s", i, b.Date, wantDates[i])
		}
		if b.StartTime != "18:00" || b.EndTime != "21:00" {
			t.Errorf("展开不应改变时刻: %+v", b)
		}
	}
}

// TestExpandRecordsDaily 每天记录覆盖整个窗口
func TestExpandRecordsDaily(t *testing.T) {
	win := juneWindow(t)

	records := []model.UnavailableTime{
		{Name: "晨练", Date: "2024-06-01", StartTime: "06:00", EndTime: "07:00", Recurrence: model.RecurrenceDaily},
	}

	blocks := ExpandRecords(records, win)
	if len(blocks) != 30 {
		t.Fatalf("6月每天展开期望30块, 得到 %d", len(blocks))
	}
}

// TestExpandRecordsMonthly 每月记录按日历月步进
func TestExpandRecordsMonthly(t *testing.T) {
	start, _ := timeutil.ParseDate("2024-06-01")
	end, _ := timeutil.ParseDate("2024-08-31")
	win := Window{Start: start, End: end}

	records := []model.UnavailableTime{
		{Name: "家教", Date: "2024-06-15", StartTime: "10:00", EndTime: "12:00", Recurrence: model.RecurrenceMonthly},
	}

	blocks := ExpandRecords(records, win)
	wantDates := []string{"2024-06-15", "2024-07-15", "2024-08-15"}
	if len(blocks) != len(wantDates) {
		t.Fatalf("期望 %d 块, 得到 %d", len(wantDates), len(blocks))
	}
	for i, b := range blocks {
		if b.Date != wantDates[i] {
			t.Errorf("第 %d 块日期 %s, 期望 %s", i, b.Date, wantDates[i])
		}
	}
}

// TestExpandRecordsBaseBeforeWindow 基准日期早于窗口时从窗口内第一次命中开始输出
func TestExpandRecordsBaseBeforeWindow(t *testing.T) {
	win := juneWindow(t)

	records := []model.UnavailableTime{
		{Name: "晚课", Date: "2024-05-06", StartTime: "18:00", EndTime: "21:00", Recurrence: model.RecurrenceWeekly},
	}

	blocks := ExpandRecords(records, win)
	if len(blocks) == 0 {
		t.Fatal("期望有窗口内的展开结果")
	}
	for _, b := range blocks {
		d, _ := timeutil.ParseDate(b.Date)
		if d.Before(win.Start) || d.After(win.End) {
			t.Errorf("展开结果落在窗口外: %s", b.Date)
		}
	}
}

// TestAggregate 汇总三类来源并按开始时间排序
func TestAggregate(t *testing.T) {
	start, _ := timeutil.ParseDate("2024-06-01")
	end, _ := timeutil.ParseDate("2024-06-03")
	win := Window{Start: start, End: end}

	job := &model.Job{
		Name:           "便利店",
		StoreOpenTime:  "09:00",
		StoreCloseTime: "22:00",
	}
	records := []model.UnavailableTime{
		{Name: "约会", Date: "2024-06-02", StartTime: "13:00", EndTime: "15:00", Recurrence: model.RecurrenceNone},
	}

	blocks := Aggregate(win, "23:00", "07:00", records, job)

	// 每天：睡眠2块 + 打烊2块，外加1条记录
	want := 3*2 + 3*2 + 1
	if len(blocks) != want {
		t.Fatalf("期望 %d 块, 得到 %d", want, len(blocks))
	}

	// 排序校验：具体开始时间单调不减
	var prev time.Time
	for i, b := range blocks {
		cur, err := timeutil.CombineDateString(b.Date, b.StartTime)
		if err != nil {
			t.Fatalf("第 %d 块时间非法: %+v", i, b)
		}
		if i > 0 && cur.Before(prev) {
			t.Errorf("第 %d 块未按开始时间排序: %+v", i, b)
		}
		prev = cur
	}

	// 每块都在同一天内有界
	for _, b := range blocks {
		if b.StartTime >= b.EndTime && b.EndTime != "24:00" {
			t.Errorf("时间块起止异常: %+v", b)
		}
	}
}

// TestAggregateCrossMidnightStore 跨天营业的打烊时段切分
func TestAggregateCrossMidnightStore(t *testing.T) {
	start, _ := timeutil.ParseDate("2024-06-01")
	win := Window{Start: start, End: start}

	// 打烊 02:00~18:00（当天内），不跨天
	job := &model.Job{
		Name:           "居酒屋",
		StoreOpenTime:  "18:00",
		StoreCloseTime: "02:00",
	}

	blocks := Aggregate(win, "23:00", "07:00", nil, job)

	// 睡眠2块 + 打烊1块（02:00 < 18:00 不跨天）
	if len(blocks) != 3 {
		t.Fatalf("期望3块, 得到 %d", len(blocks))
	}

	found := false
	for _, b := range blocks {
		if b.StartTime == "02:00" && b.EndTime == "18:00" {
			found = true
		}
	}
	if !found {
		t.Error("缺少 02:00~18:00 打烊块")
	}
}
