// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jianzhi/jianzhi/internal/metrics"
	"github.com/jianzhi/jianzhi/internal/middleware"
	"github.com/jianzhi/jianzhi/pkg/errors"
	"github.com/jianzhi/jianzhi/pkg/model"
	"github.com/jianzhi/jianzhi/pkg/scheduler/proposer"
	"github.com/jianzhi/jianzhi/pkg/timeutil"
	"github.com/jianzhi/jianzhi/pkg/validator"
)

// ScheduleHandler 排班提案处理器
type ScheduleHandler struct {
	proposer *proposer.Proposer
}

// NewScheduleHandler 创建排班提案处理器
func NewScheduleHandler(p *proposer.Proposer) *ScheduleHandler {
	return &ScheduleHandler{proposer: p}
}

// ProposeRequest 排班提案请求
type ProposeRequest struct {
	TargetEarnings float64 `json:"target_earnings"`
	TargetMonth    string  `json:"target_month"`            // YYYY-MM
	Lifestyle      string  `json:"lifestyle,omitempty"`     // morning/night/standard
	PreferredDays  []int   `json:"preferred_days,omitempty"` // 0=周日 .. 6=周六
}

// ShiftOutput 提案中的单个班次
type ShiftOutput struct {
	JobName   string  `json:"job_name"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Weekday   string  `json:"weekday"`
	Hours     float64 `json:"hours"`
	Earnings  float64 `json:"earnings"`
}

// ProposeResponse 排班提案响应
type ProposeResponse struct {
	Success       bool                `json:"success"`
	Message       string              `json:"message,omitempty"`
	Shifts        []ShiftOutput       `json:"shifts"`
	TotalEarnings float64             `json:"total_earnings"`
	Statistics    model.ProposalStats `json:"statistics"`
	Duration      string              `json:"duration"`
}

// Propose 生成排班提案
func (h *ScheduleHandler) Propose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req ProposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	if appErr := validateProposeRequest(&req); appErr != nil {
		respondError(w, appErr)
		return
	}

	userID, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, errors.New(errors.CodeUnauthorized, "请求未绑定用户"))
		return
	}

	preferred := make([]time.Weekday, 0, len(req.PreferredDays))
	for _, d := range req.PreferredDays {
		preferred = append(preferred, time.Weekday(d))
	}

	start := time.Now()
	result, err := h.proposer.Propose(r.Context(), userID, model.ProposalRequest{
		TargetEarnings: req.TargetEarnings,
		TargetMonth:    req.TargetMonth,
		Lifestyle:      model.Lifestyle(req.Lifestyle),
		PreferredDays:  preferred,
	})
	duration := time.Since(start)
	if err != nil {
		metrics.RecordProposal(false, 0, 0, duration)
		respondAnyError(w, err)
		return
	}

	attainment := 1.0
	if req.TargetEarnings > 0 {
		attainment = result.TotalEarnings / req.TargetEarnings
	}
	metrics.RecordProposal(true, result.Statistics.CandidateCount, attainment, duration)

	resp := ProposeResponse{
		Success:       true,
		Shifts:        toShiftOutputs(result.SelectedShifts),
		TotalEarnings: result.TotalEarnings,
		Statistics:    result.Statistics,
		Duration:      duration.String(),
	}
	if len(result.SelectedShifts) == 0 {
		resp.Message = "没有可用的候选班次"
	} else if result.TotalEarnings < req.TargetEarnings {
		resp.Message = "候选班次不足以达到目标收入，已全部选入"
	}

	respondJSON(w, http.StatusOK, resp)
}

// validateProposeRequest 验证提案请求
func validateProposeRequest(req *ProposeRequest) *errors.AppError {
	ve := &errors.ValidationErrors{}

	if req.TargetMonth == "" {
		ve.Add("target_month", "目标月份不能为空")
	} else if _, _, err := timeutil.MonthWindow(req.TargetMonth); err != nil {
		ve.Add("target_month", "月份格式无效，应为YYYY-MM")
	}
	if req.TargetEarnings < 0 {
		ve.Add("target_earnings", "目标收入不能为负数")
	}
	if req.Lifestyle != "" {
		switch model.Lifestyle(req.Lifestyle) {
		case model.LifestyleMorning, model.LifestyleNight, model.LifestyleStandard:
		default:
			ve.Add("lifestyle", "取值应为 morning/night/standard")
		}
	}
	for _, d := range req.PreferredDays {
		if d < 0 || d > 6 {
			ve.Add("preferred_days", "星期取值应在0~6之间")
			break
		}
	}

	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}

// ValidateRequest 班次审计请求
type ValidateRequest struct {
	Shifts []ShiftInput `json:"shifts"`
}

// ShiftInput 审计输入的单个班次
type ShiftInput struct {
	JobName   string `json:"job_name"`
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
}

// ValidateResponse 班次审计响应
type ValidateResponse struct {
	IsValid   bool                 `json:"is_valid"`
	Conflicts []validator.Conflict `json:"conflicts"`
}

// Validate 审计一组班次的冲突
func (h *ScheduleHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if len(req.Shifts) == 0 {
		respondError(w, errors.InvalidInput("shifts", "班次列表不能为空"))
		return
	}

	shifts := make([]model.SelectedShift, 0, len(req.Shifts))
	for _, s := range req.Shifts {
		start, err := timeutil.CombineDateString(s.Date, s.StartTime)
		if err != nil {
			respondError(w, errors.InvalidWindow("班次开始时刻无效: "+err.Error()))
			return
		}
		end, err := timeutil.CombineDateString(s.Date, s.EndTime)
		if err != nil {
			respondError(w, errors.InvalidWindow("班次结束时刻无效: "+err.Error()))
			return
		}
		if !end.After(start) {
			// 结束在开始之前视作跨天班次
			end = end.AddDate(0, 0, 1)
		}
		shifts = append(shifts, model.SelectedShift{
			ShiftCandidate: model.ShiftCandidate{
				Start:   start,
				End:     end,
				JobName: s.JobName,
			},
		})
	}

	conflicts := validator.Audit(shifts)
	if conflicts == nil {
		conflicts = []validator.Conflict{}
	}

	respondJSON(w, http.StatusOK, ValidateResponse{
		IsValid:   len(conflicts) == 0,
		Conflicts: conflicts,
	})
}

// toShiftOutputs 将选中班次转换为响应结构
func toShiftOutputs(selected []model.SelectedShift) []ShiftOutput {
	out := make([]ShiftOutput, 0, len(selected))
	for _, s := range selected {
		out = append(out, ShiftOutput{
			JobName:   s.JobName,
			Date:      timeutil.FormatDate(s.Start),
			StartTime: s.Start.Format(model.ClockLayout),
			EndTime:   s.End.Format(model.ClockLayout),
			Weekday:   s.Start.Weekday().String(),
			Hours:     s.Hours(),
			Earnings:  s.Earnings,
		})
	}
	return out
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
		"fields":  err.Fields,
	})
}

// respondAnyError 将任意错误归一化为错误响应
func respondAnyError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		respondError(w, appErr)
		return
	}
	respondError(w, errors.Wrap(err, errors.CodeInternal, "内部错误"))
}
