package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateProposeRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     ProposeRequest
		wantErr bool
	}{
		{
			name:    "合法请求",
			req:     ProposeRequest{TargetEarnings: 50000, TargetMonth: "2024-06"},
			wantErr: false,
		},
		{
			name:    "带作息与偏好",
			req:     ProposeRequest{TargetEarnings: 50000, TargetMonth: "2024-06", Lifestyle: "morning", PreferredDays: []int{0, 6}},
			wantErr: false,
		},
		{
			name:    "缺少月份",
			req:     ProposeRequest{TargetEarnings: 50000},
			wantErr: true,
		},
		{
			name:    "月份格式错误",
			req:     ProposeRequest{TargetEarnings: 50000, TargetMonth: "2024/06"},
			wantErr: true,
		},
		{
			name:    "负目标收入",
			req:     ProposeRequest{TargetEarnings: -1, TargetMonth: "2024-06"},
			wantErr: true,
		},
		{
			name:    "非法作息",
			req:     ProposeRequest{TargetEarnings: 50000, TargetMonth: "2024-06", Lifestyle: "nocturnal"},
			wantErr: true,
		},
		{
			name:    "星期越界",
			req:     ProposeRequest{TargetEarnings: 50000, TargetMonth: "2024-06", PreferredDays: []int{7}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateProposeRequest(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateProposeRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScheduleValidateEndpoint(t *testing.T) {
	h := NewScheduleHandler(nil)

	body := `{"shifts":[
		{"job_name":"便利店","date":"2024-06-03","start_time":"09:00","end_time":"13:00"},
		{"job_name":"便利店","date":"2024-06-03","start_time":"12:00","end_time":"16:00"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/validate", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Validate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", w.Code)
	}

	var resp ValidateResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.IsValid {
		t.Error("重叠班次应判定为无效")
	}
	if len(resp.Conflicts) != 1 {
		t.Fatalf("conflicts = %d, expected 1", len(resp.Conflicts))
	}
	if resp.Conflicts[0].Type != "overlap" {
		t.Errorf("conflict type = %s, expected overlap", resp.Conflicts[0].Type)
	}
}

func TestScheduleValidateEndpointClean(t *testing.T) {
	h := NewScheduleHandler(nil)

	body := `{"shifts":[
		{"job_name":"便利店","date":"2024-06-03","start_time":"09:00","end_time":"13:00"},
		{"job_name":"便利店","date":"2024-06-04","start_time":"09:00","end_time":"13:00"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/validate", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Validate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", w.Code)
	}

	var resp ValidateResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.IsValid {
		t.Errorf("无冲突班次应判定为有效: %+v", resp.Conflicts)
	}
}

func TestScheduleValidateEndpointErrors(t *testing.T) {
	h := NewScheduleHandler(nil)

	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
	}{
		{"方法不允许", http.MethodGet, "", http.StatusBadRequest},
		{"非法JSON", http.MethodPost, "{not json", http.StatusBadRequest},
		{"空班次列表", http.MethodPost, `{"shifts":[]}`, http.StatusBadRequest},
		{"非法时刻", http.MethodPost, `{"shifts":[{"job_name":"a","date":"2024-06-03","start_time":"9:00","end_time":"13:00"}]}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/schedule/validate", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.Validate(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, expected %d", w.Code, tt.wantStatus)
			}
		})
	}
}
