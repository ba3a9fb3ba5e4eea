// Package availability 将异构的占用时间来源合并为单一有序时间线
//
// 三类来源：用户登记的不可用时间（经重复规则展开）、按生活习惯推导的
// 睡眠时段、店铺的打烊时段。输出按具体开始时间升序的占用时间块列表，
// 供切分器做单调扫描。
package availability

import (
	"sort"
	"time"

	"github.com/jianzhi/jianzhi/pkg/model"
	"github.com/jianzhi/jianzhi/pkg/timeutil"
)

// Window 排班查询窗口（含两端）
type Window struct {
	Start time.Time
	End   time.Time
}

// Days 返回窗口内的日历天数
func (w Window) Days() int {
	return len(timeutil.DatesBetween(w.Start, w.End))
}

// Aggregate 为单个工作汇总窗口内全部占用时间块
//
// 打烊时段的切分与睡眠时段完全一致，只是角色互换：被占用的是
// 打烊时刻到次日开店时刻之间的部分。结果按 Combine(date, start)
// 稳定排序，相同开始时间保持输入顺序。
func Aggregate(win Window, sleepStart, sleepEnd string, records []model.UnavailableTime, job *model.Job) []model.TimeBlock {
	dates := timeutil.DatesBetween(win.Start, win.End)

	blocks := ExpandRecords(records, win)
	for _, date := range dates {
		blocks = append(blocks, timeutil.SplitAtMidnight(sleepStart, sleepEnd, date)...)
	}
	for _, date := range dates {
		blocks = append(blocks, timeutil.SplitAtMidnight(job.StoreCloseTime, job.StoreOpenTime, date)...)
	}

	SortBlocks(blocks)
	return blocks
}

// ExpandRecords 将不可用时间记录按重复规则展开为窗口内的具体时间块
//
// none: 基准日期落在窗口内时输出一块；daily/weekly/monthly 从基准日期
// 起分别按 1 天、7 天、1 个日历月步进至窗口结束，每次输出保持
// startTime/endTime 不变，仅推进日期。
func ExpandRecords(records []model.UnavailableTime, win Window) []model.TimeBlock {
	var blocks []model.TimeBlock

	for _, rec := range records {
		base, err := timeutil.ParseDate(rec.Date)
		if err != nil {
			continue
		}

		if rec.Recurrence == model.RecurrenceNone || !rec.Recurrence.IsValid() {
			if !base.Before(win.Start) && !base.After(win.End) {
				blocks = append(blocks, model.TimeBlock{
					Date:      rec.Date,
					StartTime: rec.StartTime,
					EndTime:   rec.EndTime,
				})
			}
			continue
		}

		for cur := base; !cur.After(win.End); cur = step(cur, rec.Recurrence) {
			if !cur.Before(win.Start) {
				blocks = append(blocks, model.TimeBlock{
					Date:      timeutil.FormatDate(cur),
					StartTime: rec.StartTime,
					EndTime:   rec.EndTime,
				})
			}
		}
	}

	return blocks
}

// step 按重复规则推进基准日期
func step(cur time.Time, r model.Recurrence) time.Time {
	switch r {
	case model.RecurrenceDaily:
		return cur.AddDate(0, 0, 1)
	case model.RecurrenceWeekly:
		return cur.AddDate(0, 0, 7)
	default: // monthly
		return cur.AddDate(0, 1, 0)
	}
}

// SortBlocks 按具体开始时间稳定排序
func SortBlocks(blocks []model.TimeBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		ti, _ := timeutil.CombineDateString(blocks[i].Date, blocks[i].StartTime)
		tj, _ := timeutil.CombineDateString(blocks[j].Date, blocks[j].StartTime)
		return ti.Before(tj)
	})
}
