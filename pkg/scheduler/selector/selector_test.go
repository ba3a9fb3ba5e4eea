package selector

import (
	"testing"
	"time"

	"github.com/jianzhi/jianzhi/pkg/model"
)

func testJob() *model.Job {
	return &model.Job{
		Name:       "便利店",
		HourlyWage: 1000,
		NightWage:  1000,
		HolidayPay: 1000,
	}
}

// candidate 构造平日白天的候选，固定费率下收入 = hours × 1000
func candidate(t *testing.T, date string, startHour, hours int) model.ShiftCandidate {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		t.Fatalf("日期解析失败: %v", err)
	}
	start := d.Add(time.Duration(startHour) * time.Hour)
	return model.ShiftCandidate{
		Start:   start,
		End:     start.Add(time.Duration(hours) * time.Hour),
		JobName: "便利店",
		Job:     testJob(),
	}
}

// TestSelectZeroTarget 目标为0时不选取任何班次
func TestSelectZeroTarget(t *testing.T) {
	candidates := []model.ShiftCandidate{
		candidate(t, "2024-06-04", 9, 4),
	}

	result := Select(candidates, 0, nil)
	if len(result.Selected) != 0 {
		t.Errorf("期望空选取, 得到 %d 个", len(result.Selected))
	}
	if result.Total != 0 {
		t.Errorf("总收入 %v, 期望 0", result.Total)
	}
}

// TestSelectStopsAtTarget 达到目标后停止，允许最后一个班次超出
func TestSelectStopsAtTarget(t *testing.T) {
	candidates := []model.ShiftCandidate{
		candidate(t, "2024-06-04", 9, 4), // 4000
		candidate(t, "2024-06-05", 9, 5), // 5000
		candidate(t, "2024-06-06", 9, 6), // 6000
	}

	result := Select(candidates, 5000, nil)
	if len(result.Selected) != 2 {
		t.Fatalf("期望2个班次, 得到 %d", len(result.Selected))
	}
	if result.Total != 9000 {
		t.Errorf("总收入 %v, 期望 9000（最后一个班次允许超出目标）", result.Total)
	}
}

// TestSelectAllWhenShort 候选不足时全部选入
func TestSelectAllWhenShort(t *testing.T) {
	candidates := []model.ShiftCandidate{
		candidate(t, "2024-06-04", 9, 3), // 3000
		candidate(t, "2024-06-05", 9, 3), // 3000
	}

	result := Select(candidates, 100000, nil)
	if len(result.Selected) != 2 {
		t.Fatalf("期望全部选入, 得到 %d", len(result.Selected))
	}
	if result.Total != 6000 {
		t.Errorf("总收入 %v, 期望 6000", result.Total)
	}
}

// TestSelectPreferredDaysFirst 偏好日优先，达标后不再进入其余组
func TestSelectPreferredDaysFirst(t *testing.T) {
	// 2024-06-04 周二，2024-06-08 周六
	candidates := []model.ShiftCandidate{
		candidate(t, "2024-06-04", 9, 8), // 平日 8000
		candidate(t, "2024-06-08", 9, 8), // 周六 8000
	}

	result := Select(candidates, 5000, []time.Weekday{time.Saturday})
	if len(result.Selected) != 1 {
		t.Fatalf("期望仅选偏好日班次, 得到 %d 个", len(result.Selected))
	}
	if result.Selected[0].Start.Weekday() != time.Saturday {
		t.Errorf("选中 %v, 期望周六", result.Selected[0].Start.Weekday())
	}
}

// TestSelectFallsBackToOthers 偏好组不足时进入其余组
func TestSelectFallsBackToOthers(t *testing.T) {
	candidates := []model.ShiftCandidate{
		candidate(t, "2024-06-04", 9, 4), // 平日 4000
		candidate(t, "2024-06-08", 9, 3), // 周六 3000
	}

	result := Select(candidates, 6000, []time.Weekday{time.Saturday})
	if len(result.Selected) != 2 {
		t.Fatalf("期望2个班次, 得到 %d", len(result.Selected))
	}
	// 偏好日班次先入选（输出按开始时间排序，靠收入分辨）
	if result.Total != 7000 {
		t.Errorf("总收入 %v, 期望 7000", result.Total)
	}
}

// TestSelectDeduplicates 相同(开始,结束,工作名)的候选只计一次
func TestSelectDeduplicates(t *testing.T) {
	c := candidate(t, "2024-06-04", 9, 4)
	candidates := []model.ShiftCandidate{c, c, c}

	result := Select(candidates, 100000, nil)
	if len(result.Selected) != 1 {
		t.Fatalf("期望去重后1个, 得到 %d", len(result.Selected))
	}
	if result.Total != 4000 {
		t.Errorf("总收入 %v, 期望 4000", result.Total)
	}
}

// TestSelectSortedByStart 结果按开始时间升序
func TestSelectSortedByStart(t *testing.T) {
	candidates := []model.ShiftCandidate{
		candidate(t, "2024-06-10", 9, 2),
		candidate(t, "2024-06-04", 9, 2),
		candidate(t, "2024-06-08", 9, 2), // 周六：偏好组先处理
	}

	result := Select(candidates, 100000, []time.Weekday{time.Saturday})
	if len(result.Selected) != 3 {
		t.Fatalf("期望3个班次, 得到 %d", len(result.Selected))
	}
	for i := 1; i < len(result.Selected); i++ {
		if result.Selected[i].Start.Before(result.Selected[i-1].Start) {
			t.Errorf("第 %d 个班次未按开始时间排序", i)
		}
	}
}

// TestSelectEarningsAttached 每个选中班次带收入贡献
func TestSelectEarningsAttached(t *testing.T) {
	candidates := []model.ShiftCandidate{
		candidate(t, "2024-06-04", 9, 4),
	}

	result := Select(candidates, 1, nil)
	if len(result.Selected) != 1 {
		t.Fatalf("期望1个班次, 得到 %d", len(result.Selected))
	}
	if result.Selected[0].Earnings != 4000 {
		t.Errorf("班次收入 %v, 期望 4000", result.Selected[0].Earnings)
	}
}

// TestSelectEmptyCandidates 空候选返回空结果
func TestSelectEmptyCandidates(t *testing.T) {
	result := Select(nil, 5000, nil)
	if len(result.Selected) != 0 || result.Total != 0 {
		t.Errorf("期望空结果, 得到 %+v", result)
	}
}
