// Package proposer 串联汇总→切分→计薪→选取，生成并持久化排班提案
package proposer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jianzhi/jianzhi/pkg/errors"
	"github.com/jianzhi/jianzhi/pkg/logger"
	"github.com/jianzhi/jianzhi/pkg/model"
	"github.com/jianzhi/jianzhi/pkg/scheduler/availability"
	"github.com/jianzhi/jianzhi/pkg/scheduler/carver"
	"github.com/jianzhi/jianzhi/pkg/scheduler/selector"
	"github.com/jianzhi/jianzhi/pkg/timeutil"
)

// JobStore 工作定义的读取接口
type JobStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Job, error)
}

// UnavailableTimeStore 不可用时间记录的读取接口
type UnavailableTimeStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.UnavailableTime, error)
}

// ShiftStore 排班结果的持久化接口
// ReplaceForUser 先删除该用户已有的提案记录，再逐条写入新记录
type ShiftStore interface {
	ReplaceForUser(ctx context.Context, userID uuid.UUID, shifts []*model.PartTimeShift) error
}

// Proposer 排班提案编排器
type Proposer struct {
	jobs        JobStore
	unavailable UnavailableTimeStore
	shifts      ShiftStore
	logger      *logger.ProposalLogger
}

// New 创建排班提案编排器
func New(jobs JobStore, unavailable UnavailableTimeStore, shifts ShiftStore) *Proposer {
	return &Proposer{
		jobs:        jobs,
		unavailable: unavailable,
		shifts:      shifts,
		logger:      logger.NewProposalLogger(),
	}
}

// Propose 为用户生成目标月份的排班提案并持久化
//
// 候选班次为零不是错误，返回空结果、总收入为 0；旧提案记录同样被清空。
// 汇总/切分/计薪阶段的错误不在内部重试，直接上抛；持久化阶段的错误
// 原样上抛，不尝试回滚。
func (p *Proposer) Propose(ctx context.Context, userID uuid.UUID, req model.ProposalRequest) (*model.ProposalResult, error) {
	start := time.Now()

	winStart, winEnd, err := timeutil.MonthWindow(req.TargetMonth)
	if err != nil {
		return nil, errors.InvalidWindow(err.Error())
	}
	if req.TargetEarnings < 0 {
		return nil, errors.InvalidInput("target_earnings", "不能为负数")
	}
	win := availability.Window{Start: winStart, End: winEnd}

	jobs, err := p.jobs.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.DataUnavailable("jobs", err)
	}
	if len(jobs) == 0 {
		return nil, errors.New(errors.CodeDataUnavailable, "用户没有登记任何工作")
	}

	records, err := p.unavailable.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.DataUnavailable("unavailable_times", err)
	}
	records = filterRecordsInWindow(records, win)

	if err := validateClocks(jobs, records); err != nil {
		return nil, err
	}

	sleepStart, sleepEnd := req.Lifestyle.SleepWindow()
	p.logger.StartProposal(userID.String(), len(jobs), win.Days(), req.TargetEarnings)

	// 每个工作的时间线独立：自身的打烊时段只约束自身的候选
	var candidates []model.ShiftCandidate
	blockedTotal := 0
	for _, job := range jobs {
		blocked := availability.Aggregate(win, sleepStart, sleepEnd, deref(records), job)
		carved := carver.Carve(blocked, winStart, winEnd, job)
		p.logger.CandidatesCarved(job.Name, len(blocked), len(carved))
		blockedTotal += len(blocked)
		candidates = append(candidates, carved...)
	}

	result := selector.Select(candidates, req.TargetEarnings, req.PreferredDays)

	// 空提案也要清空旧记录，避免上次提案的班次残留
	rows := buildShiftRows(userID, result.Selected, jobs)
	if err := p.shifts.ReplaceForUser(ctx, userID, rows); err != nil {
		return nil, err
	}

	p.logger.ProposalComplete(userID.String(), len(result.Selected), result.Total, time.Since(start))

	totalHours := 0.0
	for _, s := range result.Selected {
		totalHours += s.Hours()
	}

	return &model.ProposalResult{
		SelectedShifts: result.Selected,
		TotalEarnings:  result.Total,
		Statistics: model.ProposalStats{
			Jobs:           len(jobs),
			Days:           win.Days(),
			BlockedCount:   blockedTotal,
			CandidateCount: len(candidates),
			SelectedCount:  len(result.Selected),
			TotalHours:     totalHours,
		},
	}, nil
}

// filterRecordsInWindow 过滤与窗口无关的记录
// 单次记录基准日期在窗口外时剔除；重复记录保留（展开时裁剪）
func filterRecordsInWindow(records []*model.UnavailableTime, win availability.Window) []*model.UnavailableTime {
	var kept []*model.UnavailableTime
	for _, rec := range records {
		if rec.Recurrence == model.RecurrenceNone {
			base, err := timeutil.ParseDate(rec.Date)
			if err != nil || base.Before(win.Start) || base.After(win.End) {
				continue
			}
		}
		kept = append(kept, rec)
	}
	return kept
}

// validateClocks 在汇总前校验全部时刻字符串
func validateClocks(jobs []*model.Job, records []*model.UnavailableTime) error {
	for _, job := range jobs {
		if !timeutil.IsValidClock(job.StoreOpenTime) || !timeutil.IsValidClock(job.StoreCloseTime) {
			return errors.InvalidWindow("工作 '" + job.Name + "' 的营业时刻格式无效")
		}
	}
	for _, rec := range records {
		if !timeutil.IsValidClock(rec.StartTime) || !timeutil.IsValidClock(rec.EndTime) {
			return errors.InvalidWindow("不可用时间 '" + rec.Name + "' 的时刻格式无效")
		}
		if _, err := timeutil.ParseDate(rec.Date); err != nil {
			return errors.InvalidWindow("不可用时间 '" + rec.Name + "' 的日期格式无效")
		}
	}
	return nil
}

// buildShiftRows 将选中的班次转换为持久化记录
func buildShiftRows(userID uuid.UUID, selected []model.SelectedShift, jobs []*model.Job) []*model.PartTimeShift {
	colorByName := make(map[string]string, len(jobs))
	for _, job := range jobs {
		colorByName[job.Name] = job.Color
	}

	rows := make([]*model.PartTimeShift, 0, len(selected))
	for _, s := range selected {
		rows = append(rows, &model.PartTimeShift{
			ID:         uuid.New(),
			UserID:     userID,
			Name:       s.JobName,
			Date:       timeutil.FormatDate(s.Start),
			StartTime:  s.Start.Format(model.ClockLayout),
			EndTime:    s.End.Format(model.ClockLayout),
			Weekday:    s.Start.Weekday().String(),
			Recurrence: model.RecurrenceNone,
			Color:      colorByName[s.JobName],
			CreatedAt:  time.Now(),
		})
	}
	return rows
}

// deref 解引用记录切片
func deref(records []*model.UnavailableTime) []model.UnavailableTime {
	out := make([]model.UnavailableTime, 0, len(records))
	for _, r := range records {
		out = append(out, *r)
	}
	return out
}
