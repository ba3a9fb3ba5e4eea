package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jianzhi/jianzhi/internal/holiday"
	"github.com/jianzhi/jianzhi/pkg/errors"
)

// HolidayHandler 节假日查询处理器
type HolidayHandler struct {
	client *holiday.Client
}

// NewHolidayHandler 创建节假日查询处理器
func NewHolidayHandler(client *holiday.Client) *HolidayHandler {
	return &HolidayHandler{client: client}
}

// List 返回某年份的节假日
// ?year=YYYY，未指定时取当前年份
func (h *HolidayHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1970 || y > 2100 {
			respondError(w, errors.InvalidInput("year", "年份无效"))
			return
		}
		year = y
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"year":     year,
		"holidays": h.client.Year(r.Context(), year),
	})
}
