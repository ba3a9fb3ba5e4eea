package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jianzhi/jianzhi/internal/holiday"
	"github.com/jianzhi/jianzhi/internal/metrics"
	"github.com/jianzhi/jianzhi/internal/middleware"
	"github.com/jianzhi/jianzhi/internal/repository"
	"github.com/jianzhi/jianzhi/pkg/errors"
	"github.com/jianzhi/jianzhi/pkg/logger"
	"github.com/jianzhi/jianzhi/pkg/model"
	"github.com/jianzhi/jianzhi/pkg/timeutil"
)

// ExportHandler 排班结果查询与导出处理器
type ExportHandler struct {
	shifts   *repository.PartTimeShiftRepository
	holidays *holiday.Client
}

// NewExportHandler 创建排班结果处理器
func NewExportHandler(shifts *repository.PartTimeShiftRepository, holidays *holiday.Client) *ExportHandler {
	return &ExportHandler{shifts: shifts, holidays: holidays}
}

// Shifts 返回已持久化的排班结果
// 支持 ?month=YYYY-MM 过滤，未指定时返回全部
func (h *ExportHandler) Shifts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	userID, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, errors.New(errors.CodeUnauthorized, "请求未绑定用户"))
		return
	}

	var (
		rows []*model.PartTimeShift
		err  error
	)
	month := r.URL.Query().Get("month")
	if month != "" {
		if _, _, werr := timeutil.MonthWindow(month); werr != nil {
			respondError(w, errors.InvalidWindow(werr.Error()))
			return
		}
		rows, err = h.shifts.ListByUserMonth(r.Context(), userID, month)
	} else {
		rows, err = h.shifts.ListByUser(r.Context(), userID)
	}
	if err != nil {
		respondAnyError(w, err)
		return
	}
	if rows == nil {
		rows = []*model.PartTimeShift{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"shifts": rows})
}

// Export 将指定月份的排班结果导出为Excel文件
// ?month=YYYY-MM，未指定时取当前月份
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	userID, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, errors.New(errors.CodeUnauthorized, "请求未绑定用户"))
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	winStart, winEnd, err := timeutil.MonthWindow(month)
	if err != nil {
		respondError(w, errors.InvalidWindow(err.Error()))
		return
	}

	rows, err := h.shifts.ListByUserMonth(r.Context(), userID, month)
	if err != nil {
		metrics.RecordExport(false)
		respondAnyError(w, err)
		return
	}

	f, err := h.buildWorkbook(r, month, winStart, winEnd, rows)
	if err != nil {
		metrics.RecordExport(false)
		respondError(w, errors.Wrap(err, errors.CodeInternal, "生成Excel失败"))
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("关闭Excel文件失败")
		}
	}()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="shifts-%s.xlsx"`, month))
	if err := f.Write(w); err != nil {
		metrics.RecordExport(false)
		logger.Error().Err(err).Msg("写出Excel失败")
		return
	}
	metrics.RecordExport(true)
}

// buildWorkbook 构建月份排班表
// 行为日期，列为各工作；周日与节假日的日期行标红
func (h *ExportHandler) buildWorkbook(r *http.Request, month string, winStart, winEnd time.Time, rows []*model.PartTimeShift) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := winStart.Format("2006年1月")
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	// 班次按 日期 → 工作名称 分组
	jobNameSet := make(map[string]bool)
	byDateJob := make(map[string]map[string][]string)
	for _, s := range rows {
		jobNameSet[s.Name] = true
		if byDateJob[s.Date] == nil {
			byDateJob[s.Date] = make(map[string][]string)
		}
		byDateJob[s.Date][s.Name] = append(byDateJob[s.Date][s.Name], s.StartTime+"~"+s.EndTime)
	}
	jobNames := make([]string, 0, len(jobNameSet))
	for name := range jobNameSet {
		jobNames = append(jobNames, name)
	}
	sort.Strings(jobNames)

	// 标题行
	title := winStart.Format("2006年1月") + " 排班表"
	f.SetCellValue(sheetName, "A1", title)
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	}
	lastCol := columnName(2 + len(jobNames))
	f.MergeCell(sheetName, "A1", lastCol+"1")

	// 表头行
	f.SetCellValue(sheetName, "A3", "日期")
	f.SetCellValue(sheetName, "B3", "星期")
	for i, name := range jobNames {
		f.SetCellValue(sheetName, columnName(2+i)+"3", name)
	}
	f.SetCellValue(sheetName, columnName(2+len(jobNames))+"3", "合计工时")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 2},
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A3", lastCol+"3", headerStyle)
	}

	normalStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "top", Color: "#D0D0D0", Style: 1},
			{Type: "bottom", Color: "#D0D0D0", Style: 1},
			{Type: "left", Color: "#D0D0D0", Style: 1},
			{Type: "right", Color: "#D0D0D0", Style: 1},
		},
	})
	redStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "#FF0000", Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "top", Color: "#D0D0D0", Style: 1},
			{Type: "bottom", Color: "#D0D0D0", Style: 1},
			{Type: "left", Color: "#D0D0D0", Style: 1},
			{Type: "right", Color: "#D0D0D0", Style: 1},
		},
	})

	row := 4
	for _, date := range timeutil.DatesBetween(winStart, winEnd) {
		dateStr := timeutil.FormatDate(date)
		isRed := date.Weekday() == time.Sunday || h.holidays.IsHoliday(r.Context(), date)

		dateStyle := normalStyle
		if isRed {
			dateStyle = redStyle
		}

		f.SetCellValue(sheetName, "A"+fmt.Sprint(row), dateStr)
		f.SetCellValue(sheetName, "B"+fmt.Sprint(row), weekdayLabel(date.Weekday()))
		f.SetCellStyle(sheetName, "A"+fmt.Sprint(row), "B"+fmt.Sprint(row), dateStyle)

		totalHours := 0.0
		for i, name := range jobNames {
			cell := columnName(2+i) + fmt.Sprint(row)
			slots := byDateJob[dateStr][name]
			f.SetCellValue(sheetName, cell, strings.Join(slots, "\n"))
			f.SetCellStyle(sheetName, cell, cell, normalStyle)
			for _, slot := range slots {
				totalHours += slotHours(dateStr, slot)
			}
		}

		totalCell := columnName(2+len(jobNames)) + fmt.Sprint(row)
		if totalHours > 0 {
			f.SetCellValue(sheetName, totalCell, totalHours)
		}
		f.SetCellStyle(sheetName, totalCell, totalCell, normalStyle)

		row++
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 8)
	f.SetColWidth(sheetName, "C", lastCol, 16)

	return f, nil
}

// columnName 将0基列号转换为Excel列名
func columnName(idx int) string {
	if idx < 26 {
		return string(rune('A' + idx))
	}
	return string(rune('A'+idx/26-1)) + string(rune('A'+idx%26))
}

// weekdayLabel 星期的中文标签
func weekdayLabel(d time.Weekday) string {
	labels := [...]string{"日", "一", "二", "三", "四", "五", "六"}
	return "周" + labels[d]
}

// slotHours 计算 "HH:MM~HH:MM" 时段的小时数，解析失败返回0
func slotHours(date, slot string) float64 {
	parts := strings.SplitN(slot, "~", 2)
	if len(parts) != 2 {
		return 0
	}
	start, err := timeutil.CombineDateString(date, parts[0])
	if err != nil {
		return 0
	}
	end, err := timeutil.CombineDateString(date, parts[1])
	if err != nil {
		return 0
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return end.Sub(start).Hours()
}
