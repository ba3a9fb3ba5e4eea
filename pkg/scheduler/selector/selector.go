// Package selector 从候选班次中贪心选取，直到累计收入达到目标金额
package selector

import (
	"fmt"
	"sort"
	"time"

	"github.com/jianzhi/jianzhi/pkg/model"
	"github.com/jianzhi/jianzhi/pkg/scheduler/wage"
)

// Result 选取结果
type Result struct {
	Selected []model.SelectedShift // 按开始时间升序
	Total    float64
}

// Select 按偏好日优先的两轮贪心选取班次
//
// 先把候选按开始日的星期划分为偏好与其余两组，各组保持输入顺序。
// 第一轮只处理偏好组；仅当处理完后累计收入仍低于目标时才进入第二轮。
// 每个候选在加入前检查 total < target——因此目标为 0 时不会选取任何
// 班次，而最后一个被选中的班次可能使总额超过目标（班次不可分割，
// 超出至多一个班次的收入，属预期行为）。
// 相同 (开始, 结束, 工作名) 的候选只计一次。
func Select(candidates []model.ShiftCandidate, target float64, preferredDays []time.Weekday) Result {
	preferredSet := make(map[time.Weekday]bool, len(preferredDays))
	for _, d := range preferredDays {
		preferredSet[d] = true
	}

	var preferred, other []model.ShiftCandidate
	for _, c := range candidates {
		if preferredSet[c.Start.Weekday()] {
			preferred = append(preferred, c)
		} else {
			other = append(other, c)
		}
	}

	var selected []model.SelectedShift
	total := 0.0
	seen := make(map[string]bool)

	take := func(group []model.ShiftCandidate) {
		for _, c := range group {
			key := dedupKey(c)
			if seen[key] {
				continue
			}
			if total >= target {
				return
			}
			earnings := wage.ForCandidate(c)
			selected = append(selected, model.SelectedShift{ShiftCandidate: c, Earnings: earnings})
			total += earnings
			seen[key] = true
		}
	}

	take(preferred)
	if total < target {
		take(other)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Start.Before(selected[j].Start)
	})

	return Result{Selected: selected, Total: total}
}

// dedupKey 生成候选班次的去重键
func dedupKey(c model.ShiftCandidate) string {
	return fmt.Sprintf("%d-%d-%s", c.Start.Unix(), c.End.Unix(), c.JobName)
}
