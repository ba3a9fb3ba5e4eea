package timeutil

import (
	"testing"
	"time"

	"github.com/jianzhi/jianzhi/pkg/model"
)

// TestParseClock 测试时刻字符串解析
func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		hour    int
		minute  int
		wantErr bool
	}{
		{"正常时刻", "09:30", 9, 30, false},
		{"零点", "00:00", 0, 0, false},
		{"哨兵值24:00", "24:00", 24, 0, false},
		{"24点不允许带分钟", "24:30", 0, 0, true},
		{"小时越界", "25:00", 0, 0, true},
		{"分钟越界", "10:60", 0, 0, true},
		{"缺少冒号", "0930", 0, 0, true},
		{"长度不足", "9:30", 0, 0, true},
		{"空字符串", "", 0, 0, true},
		{"负数", "-1:00", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m, err := ParseClock(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) err = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if err == nil && (h != tt.hour || m != tt.minute) {
				t.Errorf("ParseClock(%q) = (%d, %d), 期望 (%d, %d)", tt.input, h, m, tt.hour, tt.minute)
			}
		})
	}
}

// TestCombine 测试日期与时刻的组合
func TestCombine(t *testing.T) {
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local)

	got := Combine(date, "09:30")
	want := time.Date(2024, 6, 15, 9, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Combine 09:30 = %v, 期望 %v", got, want)
	}

	// 24:00 映射到次日零点
	got = Combine(date, "24:00")
	want = time.Date(2024, 6, 16, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Combine 24:00 = %v, 期望次日零点 %v", got, want)
	}

	// 日期部分带时刻时先归一化到零点
	noon := time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)
	got = Combine(noon, "08:00")
	want = time.Date(2024, 6, 15, 8, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Combine 带时刻日期 = %v, 期望 %v", got, want)
	}
}

// TestSplitAtMidnight 测试跨天时间段切分
func TestSplitAtMidnight(t *testing.T) {
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local)

	t.Run("跨天时段切成两块", func(t *testing.T) {
		blocks := SplitAtMidnight("23:00", "07:00", date)
		if len(blocks) != 2 {
			t.Fatalf("期望2块, 得到 %d", len(blocks))
		}
		if blocks[0].Date != "2024-06-15" || blocks[0].StartTime != "23:00" || blocks[0].EndTime != "24:00" {
			t.Errorf("前半块错误: %+v", blocks[0])
		}
		if blocks[1].Date != "2024-06-16" || blocks[1].StartTime != "00:00" || blocks[1].EndTime != "07:00" {
			t.Errorf("后半块错误: %+v", blocks[1])
		}
	})

	t.Run("同天时段原样输出", func(t *testing.T) {
		blocks := SplitAtMidnight("09:00", "17:00", date)
		if len(blocks) != 1 {
			t.Fatalf("期望1块, 得到 %d", len(blocks))
		}
		if blocks[0].Date != "2024-06-15" || blocks[0].StartTime != "09:00" || blocks[0].EndTime != "17:00" {
			t.Errorf("时间块错误: %+v", blocks[0])
		}
	})

	t.Run("起止相同按跨天处理", func(t *testing.T) {
		blocks := SplitAtMidnight("10:00", "10:00", date)
		if len(blocks) != 2 {
			t.Fatalf("期望2块, 得到 %d", len(blocks))
		}
	})
}

// TestHourSlices 测试小时切片
func TestHourSlices(t *testing.T) {
	start := time.Date(2024, 6, 15, 9, 0, 0, 0, time.Local)

	t.Run("整3小时切3片", func(t *testing.T) {
		slices := HourSlices(start, start.Add(3*time.Hour))
		if len(slices) != 3 {
			t.Fatalf("期望3片, 得到 %d", len(slices))
		}
		for _, s := range slices {
			if s.Hours() != 1.0 {
				t.Errorf("切片时长 %v, 期望1小时", s.Hours())
			}
		}
	})

	t.Run("3.5小时最后一片截断", func(t *testing.T) {
		slices := HourSlices(start, start.Add(3*time.Hour+30*time.Minute))
		if len(slices) != 4 {
			t.Fatalf("期望4片, 得到 %d", len(slices))
		}
		last := slices[len(slices)-1]
		if last.Hours() != 0.5 {
			t.Errorf("尾片时长 %v, 期望0.5小时", last.Hours())
		}
	})

	t.Run("切片连续无缝隙", func(t *testing.T) {
		slices := HourSlices(start, start.Add(5*time.Hour+15*time.Minute))
		for i := 1; i < len(slices); i++ {
			if !slices[i].Start.Equal(slices[i-1].End) {
				t.Errorf("切片 %d 与前一片不连续", i)
			}
		}
	})

	t.Run("空区间无切片", func(t *testing.T) {
		if got := HourSlices(start, start); got != nil {
			t.Errorf("期望nil, 得到 %v", got)
		}
	})
}

// TestMonthWindow 测试月份窗口解析
func TestMonthWindow(t *testing.T) {
	start, end, err := MonthWindow("2024-06")
	if err != nil {
		t.Fatalf("意外错误: %v", err)
	}
	if FormatDate(start) != "2024-06-01" {
		t.Errorf("窗口开始 %s, 期望 2024-06-01", FormatDate(start))
	}
	if FormatDate(end) != "2024-06-30" {
		t.Errorf("窗口结束 %s, 期望 2024-06-30", FormatDate(end))
	}

	// 闰年2月
	_, end, err = MonthWindow("2024-02")
	if err != nil {
		t.Fatalf("意外错误: %v", err)
	}
	if FormatDate(end) != "2024-02-29" {
		t.Errorf("闰年2月结束 %s, 期望 2024-02-29", FormatDate(end))
	}

	for _, bad := range []string{"2024-13", "2024/06", "202406", "abc", ""} {
		if _, _, err := MonthWindow(bad); err == nil {
			t.Errorf("MonthWindow(%q) 期望报错", bad)
		}
	}
}

// TestDatesBetween 测试日期枚举
func TestDatesBetween(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.Local)

	dates := DatesBetween(start, end)
	if len(dates) != 30 {
		t.Fatalf("6月期望30天, 得到 %d", len(dates))
	}
	if FormatDate(dates[0]) != "2024-06-01" || FormatDate(dates[29]) != "2024-06-30" {
		t.Errorf("首尾日期错误: %s ~ %s", FormatDate(dates[0]), FormatDate(dates[29]))
	}

	// 单日窗口
	if got := DatesBetween(start, start); len(got) != 1 {
		t.Errorf("单日窗口期望1天, 得到 %d", len(got))
	}
}

// TestOverlaps 测试半开区间重叠判定
func TestOverlaps(t *testing.T) {
	base := time.Date(2024, 6, 15, 9, 0, 0, 0, time.Local)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	tests := []struct {
		name                   string
		aStart, aEnd           time.Time
		bStart, bEnd           time.Time
		want                   bool
	}{
		{"部分重叠", at(0), at(3), at(2), at(5), true},
		{"完全包含", at(0), at(5), at(1), at(2), true},
		{"端点相接不算重叠", at(0), at(2), at(2), at(4), false},
		{"完全分离", at(0), at(1), at(3), at(4), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps = %v, 期望 %v", got, tt.want)
			}
		})
	}
}

// TestCombineDateString 测试日期字符串组合
func TestCombineDateString(t *testing.T) {
	got, err := CombineDateString("2024-06-15", "13:45")
	if err != nil {
		t.Fatalf("意外错误: %v", err)
	}
	want := time.Date(2024, 6, 15, 13, 45, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("得到 %v, 期望 %v", got, want)
	}

	if _, err := CombineDateString("2024/06/15", "13:45"); err == nil {
		t.Error("非法日期期望报错")
	}
}

// TestClockLayoutRoundTrip 格式化后的时刻可以再次被解析
func TestClockLayoutRoundTrip(t *testing.T) {
	moment := time.Date(2024, 6, 15, 7, 5, 0, 0, time.Local)
	s := moment.Format(model.ClockLayout)
	if s != "07:05" {
		t.Fatalf("格式化结果 %q", s)
	}
	if !IsValidClock(s) {
		t.Errorf("%q 应为合法时刻", s)
	}
}
