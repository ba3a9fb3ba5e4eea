package carver

import (
	"testing"
	"time"

	"github.com/jianzhi/jianzhi/pkg/model"
	"github.com/jianzhi/jianzhi/pkg/timeutil"
)

func testJob() *model.Job {
	return &model.Job{
		Name:           "便利店",
		StoreOpenTime:  "09:00",
		StoreCloseTime: "22:00",
		HourlyWage:     1000,
	}
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := timeutil.ParseDate(s)
	if err != nil {
		t.Fatalf("日期解析失败: %v", err)
	}
	return d
}

// TestCarveEmptyDay 无占用时切出单个封顶候选
func TestCarveEmptyDay(t *testing.T) {
	date := day(t, "2024-06-04")
	candidates := Carve(nil, date, date, testJob())

	if len(candidates) != 1 {
		t.Fatalf("期望1个候选, 得到 %d", len(candidates))
	}
	c := candidates[0]
	if c.Hours() != MaxHoursPerDay {
		t.Errorf("候选工时 %v, 期望封顶 %v", c.Hours(), MaxHoursPerDay)
	}
	if c.Start.Hour() != 9 || c.End.Hour() != 17 {
		t.Errorf("候选时段 %v~%v, 期望 09:00~17:00", c.Start, c.End)
	}
	if c.JobName != "便利店" || c.Job == nil {
		t.Errorf("候选缺少工作上下文: %+v", c)
	}
}

// TestCarveAroundBlock 占用块两侧各切一段，合计不超过每日上限
func TestCarveAroundBlock(t *testing.T) {
	date := day(t, "2024-06-04")
	blocks := []model.TimeBlock{
		{Date: "2024-06-04", StartTime: "12:00", EndTime: "13:00"},
	}

	candidates := Carve(blocks, date, date, testJob())
	if len(candidates) != 2 {
		t.Fatalf("期望2个候选, 得到 %d", len(candidates))
	}

	first, second := candidates[0], candidates[1]
	if first.Hours() != 3.0 {
		t.Errorf("上午段 %v 小时, 期望 3", first.Hours())
	}
	if second.Hours() != 5.0 {
		t.Errorf("下午段 %v 小时, 期望 5（补足每日上限）", second.Hours())
	}
	if first.Hours()+second.Hours() != MaxHoursPerDay {
		t.Errorf("当日合计 %v, 期望 %v", first.Hours()+second.Hours(), MaxHoursPerDay)
	}
}

// TestCarveNoOverlapWithBlocks 候选不与占用块重叠且时长为正
func TestCarveNoOverlapWithBlocks(t *testing.T) {
	date := day(t, "2024-06-04")
	blocks := []model.TimeBlock{
		{Date: "2024-06-04", StartTime: "10:00", EndTime: "11:00"},
		{Date: "2024-06-04", StartTime: "14:00", EndTime: "16:00"},
		{Date: "2024-06-04", StartTime: "19:00", EndTime: "20:00"},
	}

	candidates := Carve(blocks, date, date, testJob())
	if len(candidates) == 0 {
		t.Fatal("期望有候选")
	}

	for _, c := range candidates {
		if !c.End.After(c.Start) {
			t.Errorf("候选时长非正: %v~%v", c.Start, c.End)
		}
		for _, b := range blocks {
			bs, _ := timeutil.CombineDateString(b.Date, b.StartTime)
			be, _ := timeutil.CombineDateString(b.Date, b.EndTime)
			if timeutil.Overlaps(c.Start, c.End, bs, be) {
				t.Errorf("候选 %v~%v 与占用块 %+v 重叠", c.Start, c.End, b)
			}
		}
	}

	total := 0.0
	for _, c := range candidates {
		total += c.Hours()
	}
	if total > MaxHoursPerDay {
		t.Errorf("当日合计 %v 超过上限 %v", total, MaxHoursPerDay)
	}
}

// TestCarveBlockBeforeOpen 早于开店的占用块不回退游标
func TestCarveBlockBeforeOpen(t *testing.T) {
	date := day(t, "2024-06-04")
	blocks := []model.TimeBlock{
		{Date: "2024-06-04", StartTime: "06:00", EndTime: "10:00"},
	}

	candidates := Carve(blocks, date, date, testJob())
	if len(candidates) != 1 {
		t.Fatalf("期望1个候选, 得到 %d", len(candidates))
	}
	if candidates[0].Start.Hour() != 10 {
		t.Errorf("候选应从占用块结束处开始: %v", candidates[0].Start)
	}
}

// TestCarveFullyBlocked 全天占用时无候选
func TestCarveFullyBlocked(t *testing.T) {
	date := day(t, "2024-06-04")
	blocks := []model.TimeBlock{
		{Date: "2024-06-04", StartTime: "09:00", EndTime: "22:00"},
	}

	if got := Carve(blocks, date, date, testJob()); len(got) != 0 {
		t.Errorf("期望无候选, 得到 %d", len(got))
	}
}

// TestCarveSkipsClosedDays 店休日整日跳过
func TestCarveSkipsClosedDays(t *testing.T) {
	job := testJob()
	job.WeeklyHoliday = []string{"Monday"}
	job.MonthlyHolidays = []int{5}

	// 2024-06-03(周一) ~ 2024-06-05
	start := day(t, "2024-06-03")
	end := day(t, "2024-06-05")

	candidates := Carve(nil, start, end, job)
	if len(candidates) != 1 {
		t.Fatalf("期望仅6月4日有候选, 得到 %d 个", len(candidates))
	}
	if timeutil.FormatDate(candidates[0].Start) != "2024-06-04" {
		t.Errorf("候选日期 %s, 期望 2024-06-04", timeutil.FormatDate(candidates[0].Start))
	}
}

// TestCarveCrossMidnightStore 跨天营业时打烊时刻落在次日
func TestCarveCrossMidnightStore(t *testing.T) {
	job := &model.Job{
		Name:           "居酒屋",
		StoreOpenTime:  "18:00",
		StoreCloseTime: "02:00",
	}
	date := day(t, "2024-06-04")

	candidates := Carve(nil, date, date, job)
	if len(candidates) != 1 {
		t.Fatalf("期望1个候选, 得到 %d", len(candidates))
	}
	c := candidates[0]
	if c.Start.Hour() != 18 {
		t.Errorf("开始 %v, 期望18点", c.Start)
	}
	// 18:00 起封顶8小时 → 次日02:00
	if timeutil.FormatDate(c.End) != "2024-06-05" || c.End.Hour() != 2 {
		t.Errorf("结束 %v, 期望次日02:00", c.End)
	}
}

// TestCarveShortWindow 营业时间不足8小时时整段切出
func TestCarveShortWindow(t *testing.T) {
	job := &model.Job{
		Name:           "面包房",
		StoreOpenTime:  "07:00",
		StoreCloseTime: "12:00",
	}
	date := day(t, "2024-06-04")

	candidates := Carve(nil, date, date, job)
	if len(candidates) != 1 {
		t.Fatalf("期望1个候选, 得到 %d", len(candidates))
	}
	if candidates[0].Hours() != 5.0 {
		t.Errorf("候选工时 %v, 期望5（受打烊时刻截断）", candidates[0].Hours())
	}
}
