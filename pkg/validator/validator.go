// Package validator 提供排班提案的事后审计
package validator

import (
	"fmt"
	"sort"

	"github.com/jianzhi/jianzhi/pkg/model"
	"github.com/jianzhi/jianzhi/pkg/scheduler/carver"
	"github.com/jianzhi/jianzhi/pkg/timeutil"
)

// ConflictType 冲突类型
type ConflictType string

const (
	ConflictOverlap   ConflictType = "overlap"   // 同一工作内时间重叠
	ConflictDailyCap  ConflictType = "daily_cap" // 超过每日工时上限
	ConflictDuplicate ConflictType = "duplicate" // 重复班次
)

// Conflict 冲突信息
type Conflict struct {
	Type    ConflictType `json:"type"`
	JobName string       `json:"job_name"`
	Date    string       `json:"date"`
	Message string       `json:"message"`
}

// Audit 审计一组选中的班次
// 检查同一工作内的两两重叠、单工作单日工时上限、完全重复的班次
func Audit(shifts []model.SelectedShift) []Conflict {
	var conflicts []Conflict

	byJob := make(map[string][]model.SelectedShift)
	for _, s := range shifts {
		byJob[s.JobName] = append(byJob[s.JobName], s)
	}

	jobNames := make([]string, 0, len(byJob))
	for name := range byJob {
		jobNames = append(jobNames, name)
	}
	sort.Strings(jobNames)

	for _, name := range jobNames {
		group := byJob[name]
		conflicts = append(conflicts, detectOverlaps(name, group)...)
		conflicts = append(conflicts, detectDailyCap(name, group)...)
		conflicts = append(conflicts, detectDuplicates(name, group)...)
	}

	return conflicts
}

// detectOverlaps 检测同一工作内的两两重叠
func detectOverlaps(jobName string, shifts []model.SelectedShift) []Conflict {
	var conflicts []Conflict
	for i := 0; i < len(shifts); i++ {
		for j := i + 1; j < len(shifts); j++ {
			if timeutil.Overlaps(shifts[i].Start, shifts[i].End, shifts[j].Start, shifts[j].End) {
				conflicts = append(conflicts, Conflict{
					Type:    ConflictOverlap,
					JobName: jobName,
					Date:    timeutil.FormatDate(shifts[i].Start),
					Message: fmt.Sprintf("班次 %s~%s 与 %s~%s 重叠",
						shifts[i].Start.Format("01-02 15:04"), shifts[i].End.Format("15:04"),
						shifts[j].Start.Format("01-02 15:04"), shifts[j].End.Format("15:04")),
				})
			}
		}
	}
	return conflicts
}

// detectDailyCap 检测单日工时是否超限
func detectDailyCap(jobName string, shifts []model.SelectedShift) []Conflict {
	hoursByDate := make(map[string]float64)
	for _, s := range shifts {
		hoursByDate[timeutil.FormatDate(s.Start)] += s.Hours()
	}

	dates := make([]string, 0, len(hoursByDate))
	for date := range hoursByDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var conflicts []Conflict
	const tolerance = 1e-9
	for _, date := range dates {
		if hoursByDate[date] > carver.MaxHoursPerDay+tolerance {
			conflicts = append(conflicts, Conflict{
				Type:    ConflictDailyCap,
				JobName: jobName,
				Date:    date,
				Message: fmt.Sprintf("当日累计 %.2f 小时，超过 %.0f 小时上限", hoursByDate[date], carver.MaxHoursPerDay),
			})
		}
	}
	return conflicts
}

// detectDuplicates 检测完全重复的班次
func detectDuplicates(jobName string, shifts []model.SelectedShift) []Conflict {
	seen := make(map[string]bool)
	var conflicts []Conflict
	for _, s := range shifts {
		key := fmt.Sprintf("%d-%d", s.Start.Unix(), s.End.Unix())
		if seen[key] {
			conflicts = append(conflicts, Conflict{
				Type:    ConflictDuplicate,
				JobName: jobName,
				Date:    timeutil.FormatDate(s.Start),
				Message: fmt.Sprintf("班次 %s~%s 出现多次", s.Start.Format("01-02 15:04"), s.End.Format("15:04")),
			})
		}
		seen[key] = true
	}
	return conflicts
}
