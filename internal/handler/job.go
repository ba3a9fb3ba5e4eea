package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jianzhi/jianzhi/internal/middleware"
	"github.com/jianzhi/jianzhi/internal/repository"
	"github.com/jianzhi/jianzhi/pkg/errors"
	"github.com/jianzhi/jianzhi/pkg/model"
	"github.com/jianzhi/jianzhi/pkg/timeutil"
)

// JobHandler 工作定义处理器
type JobHandler struct {
	jobs *repository.JobRepository
}

// NewJobHandler 创建工作定义处理器
func NewJobHandler(jobs *repository.JobRepository) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// JobInput 工作定义输入
type JobInput struct {
	Name            string   `json:"name"`
	StoreOpenTime   string   `json:"store_open_time"`  // HH:MM
	StoreCloseTime  string   `json:"store_close_time"` // HH:MM
	HourlyWage      float64  `json:"hourly_wage"`
	NightWage       float64  `json:"night_wage"`
	HolidayPay      float64  `json:"holiday_pay"`
	WeeklyHoliday   []string `json:"weekly_holiday,omitempty"`
	MonthlyHolidays []int    `json:"monthly_holidays,omitempty"`
	Color           string   `json:"color,omitempty"`
}

// Collection 处理 /api/v1/jobs 集合路由
func (h *JobHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET/POST方法"))
	}
}

// Item 处理 /api/v1/jobs/{id} 单项路由
func (h *JobHandler) Item(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, errors.New(errors.CodeUnauthorized, "请求未绑定用户"))
		return
	}

	id, appErr := parseItemID(r.URL.Path, "/api/v1/jobs/")
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	job, err := h.jobs.GetByID(r.Context(), id)
	if err != nil {
		respondAnyError(w, err)
		return
	}
	// 不暴露其他用户的工作
	if job == nil || job.UserID != userID {
		respondError(w, errors.NotFound("工作", id.String()))
		return
	}

	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, job)
	case http.MethodPut:
		h.update(w, r, job)
	case http.MethodDelete:
		if err := h.jobs.Delete(r.Context(), id); err != nil {
			respondAnyError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	default:
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET/PUT/DELETE方法"))
	}
}

func (h *JobHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, errors.New(errors.CodeUnauthorized, "请求未绑定用户"))
		return
	}

	jobs, err := h.jobs.ListByUser(r.Context(), userID)
	if err != nil {
		respondAnyError(w, err)
		return
	}
	if jobs == nil {
		jobs = []*model.Job{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs})
}

func (h *JobHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, errors.New(errors.CodeUnauthorized, "请求未绑定用户"))
		return
	}

	var in JobInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if appErr := validateJobInput(&in); appErr != nil {
		respondError(w, appErr)
		return
	}

	job := &model.Job{
		BaseModel:       model.NewBaseModel(),
		UserID:          userID,
		Name:            in.Name,
		StoreOpenTime:   in.StoreOpenTime,
		StoreCloseTime:  in.StoreCloseTime,
		HourlyWage:      in.HourlyWage,
		NightWage:       in.NightWage,
		HolidayPay:      in.HolidayPay,
		WeeklyHoliday:   in.WeeklyHoliday,
		MonthlyHolidays: in.MonthlyHolidays,
		Color:           in.Color,
	}
	if err := h.jobs.Create(r.Context(), job); err != nil {
		respondAnyError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, job)
}

func (h *JobHandler) update(w http.ResponseWriter, r *http.Request, job *model.Job) {
	var in JobInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if appErr := validateJobInput(&in); appErr != nil {
		respondError(w, appErr)
		return
	}

	job.Name = in.Name
	job.StoreOpenTime = in.StoreOpenTime
	job.StoreCloseTime = in.StoreCloseTime
	job.HourlyWage = in.HourlyWage
	job.NightWage = in.NightWage
	job.HolidayPay = in.HolidayPay
	job.WeeklyHoliday = in.WeeklyHoliday
	job.MonthlyHolidays = in.MonthlyHolidays
	job.Color = in.Color
	job.UpdatedAt = time.Now()

	if err := h.jobs.Update(r.Context(), job); err != nil {
		respondAnyError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// validateJobInput 验证工作定义输入
func validateJobInput(in *JobInput) *errors.AppError {
	ve := &errors.ValidationErrors{}

	if strings.TrimSpace(in.Name) == "" {
		ve.Add("name", "工作名称不能为空")
	}
	if !timeutil.IsValidClock(in.StoreOpenTime) {
		ve.Add("store_open_time", "时刻格式无效，应为HH:MM")
	}
	if !timeutil.IsValidClock(in.StoreCloseTime) {
		ve.Add("store_close_time", "时刻格式无效，应为HH:MM")
	}
	if in.HourlyWage < 0 {
		ve.Add("hourly_wage", "时薪不能为负数")
	}
	if in.NightWage < 0 {
		ve.Add("night_wage", "深夜时薪不能为负数")
	}
	if in.HolidayPay < 0 {
		ve.Add("holiday_pay", "周末时薪不能为负数")
	}
	for _, name := range in.WeeklyHoliday {
		if !isWeekdayName(name) {
			ve.Add("weekly_holiday", "无效的星期名称: "+name)
			break
		}
	}
	for _, d := range in.MonthlyHolidays {
		if d < 1 || d > 31 {
			ve.Add("monthly_holidays", "日期号应在1~31之间")
			break
		}
	}

	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}

// isWeekdayName 检查是否为合法的星期名称（不区分大小写）
func isWeekdayName(name string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(name, d.String()) {
			return true
		}
	}
	return false
}

// UnavailableTimeHandler 不可用时间处理器
type UnavailableTimeHandler struct {
	records *repository.UnavailableTimeRepository
}

// NewUnavailableTimeHandler 创建不可用时间处理器
func NewUnavailableTimeHandler(records *repository.UnavailableTimeRepository) *UnavailableTimeHandler {
	return &UnavailableTimeHandler{records: records}
}

// UnavailableTimeInput 不可用时间输入
type UnavailableTimeInput struct {
	Name       string `json:"name"`
	Date       string `json:"date"`       // YYYY-MM-DD
	StartTime  string `json:"start_time"` // HH:MM
	EndTime    string `json:"end_time"`   // HH:MM
	Recurrence string `json:"recurrence,omitempty"`
}

// Collection 处理 /api/v1/unavailable-times 集合路由
func (h *UnavailableTimeHandler) Collection(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, errors.New(errors.CodeUnauthorized, "请求未绑定用户"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		records, err := h.records.ListByUser(r.Context(), userID)
		if err != nil {
			respondAnyError(w, err)
			return
		}
		if records == nil {
			records = []*model.UnavailableTime{}
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"unavailable_times": records})

	case http.MethodPost:
		var in UnavailableTimeInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
			return
		}
		if appErr := validateUnavailableTimeInput(&in); appErr != nil {
			respondError(w, appErr)
			return
		}

		rec := &model.UnavailableTime{
			BaseModel:  model.NewBaseModel(),
			UserID:     userID,
			Name:       in.Name,
			Date:       in.Date,
			StartTime:  in.StartTime,
			EndTime:    in.EndTime,
			Recurrence: model.Recurrence(in.Recurrence),
		}
		if err := h.records.Create(r.Context(), rec); err != nil {
			respondAnyError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, rec)

	default:
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET/POST方法"))
	}
}

// Item 处理 /api/v1/unavailable-times/{id} 单项路由
func (h *UnavailableTimeHandler) Item(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, errors.New(errors.CodeUnauthorized, "请求未绑定用户"))
		return
	}

	id, appErr := parseItemID(r.URL.Path, "/api/v1/unavailable-times/")
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	rec, err := h.records.GetByID(r.Context(), id)
	if err != nil {
		respondAnyError(w, err)
		return
	}
	if rec == nil || rec.UserID != userID {
		respondError(w, errors.NotFound("不可用时间", id.String()))
		return
	}

	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, rec)
	case http.MethodDelete:
		if err := h.records.Delete(r.Context(), id); err != nil {
			respondAnyError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	default:
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET/DELETE方法"))
	}
}

// validateUnavailableTimeInput 验证不可用时间输入
func validateUnavailableTimeInput(in *UnavailableTimeInput) *errors.AppError {
	ve := &errors.ValidationErrors{}

	if strings.TrimSpace(in.Name) == "" {
		ve.Add("name", "名称不能为空")
	}
	if _, err := timeutil.ParseDate(in.Date); err != nil {
		ve.Add("date", "日期格式无效，应为YYYY-MM-DD")
	}
	if !timeutil.IsValidClock(in.StartTime) {
		ve.Add("start_time", "时刻格式无效，应为HH:MM")
	}
	if !timeutil.IsValidClock(in.EndTime) {
		ve.Add("end_time", "时刻格式无效，应为HH:MM")
	}
	if in.Recurrence != "" && !model.Recurrence(in.Recurrence).IsValid() {
		ve.Add("recurrence", "取值应为 none/daily/weekly/monthly")
	}

	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}

// parseItemID 从路径解析UUID
func parseItemID(path, prefix string) (uuid.UUID, *errors.AppError) {
	raw := strings.TrimPrefix(path, prefix)
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" || strings.Contains(raw, "/") {
		return uuid.Nil, errors.InvalidInput("id", "路径中缺少资源ID")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.InvalidInput("id", "不是合法的UUID")
	}
	return id, nil
}
