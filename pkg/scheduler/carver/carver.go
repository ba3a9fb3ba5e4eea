// Package carver 从营业时间中减去占用时间，切出候选班次
package carver

import (
	"time"

	"github.com/jianzhi/jianzhi/pkg/model"
	"github.com/jianzhi/jianzhi/pkg/timeutil"
)

// MaxHoursPerDay 单个工作每日最大工时
const MaxHoursPerDay = 8.0

// Carve 对单个工作在窗口内逐日切分候选班次
//
// blocks 必须已按开始时间升序（availability 的输出满足该前提）。
// 逐日扫描维护游标与已用工时：游标从开店时刻出发，每遇到一个
// 晚于游标开始的占用块，就在两者之间切出一个候选班次，时长不超过
// 当日剩余可用工时；游标随后推进到 max(块结束, 开店时刻)。
// 扫描结束后若游标仍早于打烊时刻且工时未用尽，补一个收尾候选。
// 每周/每月店休日整日跳过，切出的候选再按店休规则复核一遍，
// 防止跨天推导出落在店休日上的候选。
func Carve(blocks []model.TimeBlock, start, end time.Time, job *model.Job) []model.ShiftCandidate {
	byDate := make(map[string][]model.TimeBlock)
	for _, b := range blocks {
		byDate[b.Date] = append(byDate[b.Date], b)
	}

	var candidates []model.ShiftCandidate
	for _, date := range timeutil.DatesBetween(start, end) {
		if job.IsClosedOn(date) {
			continue
		}
		candidates = append(candidates, carveDay(byDate[timeutil.FormatDate(date)], date, job)...)
	}

	return filterClosedDays(candidates, job)
}

// carveDay 切分单个日期的候选班次
func carveDay(dayBlocks []model.TimeBlock, date time.Time, job *model.Job) []model.ShiftCandidate {
	dayOpen := timeutil.Combine(date, job.StoreOpenTime)
	closeDate := date
	if job.CrossesMidnight() {
		closeDate = date.AddDate(0, 0, 1)
	}
	dayClose := timeutil.Combine(closeDate, job.StoreCloseTime)

	var shifts []model.ShiftCandidate
	cursor := dayOpen
	hoursUsed := 0.0

	for _, block := range dayBlocks {
		blockStart := timeutil.Combine(date, block.StartTime)
		blockEnd := timeutil.Combine(date, block.EndTime)

		if blockStart.After(cursor) {
			limit := cursor.Add(remaining(hoursUsed))
			candEnd := blockStart
			if candEnd.After(limit) {
				candEnd = limit
			}
			if candEnd.After(dayClose) {
				candEnd = dayClose
			}
			if candEnd.After(cursor) {
				shifts = append(shifts, newCandidate(cursor, candEnd, job))
				hoursUsed += candEnd.Sub(cursor).Hours()
			}
		}

		// 占用块可能早于开店时刻开始，游标不回退
		if blockEnd.After(cursor) {
			cursor = blockEnd
		}
		if cursor.Before(dayOpen) {
			cursor = dayOpen
		}
	}

	if cursor.Before(dayClose) && hoursUsed < MaxHoursPerDay {
		candEnd := cursor.Add(remaining(hoursUsed))
		if candEnd.After(dayClose) {
			candEnd = dayClose
		}
		if candEnd.After(cursor) {
			shifts = append(shifts, newCandidate(cursor, candEnd, job))
		}
	}

	return shifts
}

// remaining 返回当日剩余可用工时
func remaining(hoursUsed float64) time.Duration {
	return time.Duration((MaxHoursPerDay - hoursUsed) * float64(time.Hour))
}

// newCandidate 构造候选班次
func newCandidate(start, end time.Time, job *model.Job) model.ShiftCandidate {
	return model.ShiftCandidate{
		Start:   start,
		End:     end,
		JobName: job.Name,
		Job:     job,
	}
}

// filterClosedDays 按店休规则复核候选班次
// 候选自身开始日期命中每周/每月店休规则时剔除
func filterClosedDays(candidates []model.ShiftCandidate, job *model.Job) []model.ShiftCandidate {
	var kept []model.ShiftCandidate
	for _, c := range candidates {
		if job.IsClosedOn(c.Start) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
