package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"vibesync/core/catalog"
	"vibesync/core/rooms"
	"vibesync/logger"
)

// writeJSON 写出JSON响应
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("写响应失败", logger.ErrorField(err))
	}
}

// errorBody 错误响应体，字段与移动端约定一致
type errorBody struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

// writeError 把业务错误映射为HTTP状态码。
// 审核与权限类错误都是调用方可恢复的输入错误，不打error日志。
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, rooms.ErrRoomNotFound),
		errors.Is(err, rooms.ErrEntryNotFound),
		errors.Is(err, catalog.ErrSongNotFound):
		status = http.StatusNotFound
	case errors.Is(err, rooms.ErrPermissionDenied),
		errors.Is(err, rooms.ErrDefaultRoomProtected):
		status = http.StatusForbidden
	case errors.Is(err, rooms.ErrQueueFull),
		errors.Is(err, rooms.ErrQueueEmpty),
		errors.Is(err, rooms.ErrQuotaExceeded),
		errors.Is(err, rooms.ErrSongTooLong),
		errors.Is(err, rooms.ErrDuplicateSong):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, rooms.ErrRoomCapacity):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		logger.Error("请求处理失败", logger.ErrorField(err))
	}

	writeJSON(w, status, errorBody{
		Success:    false,
		Error:      err.Error(),
		StatusCode: status,
	})
}

// decodeBody 解析请求体JSON
func decodeBody(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Success:    false,
			Error:      "invalid request body",
			StatusCode: http.StatusBadRequest,
		})
		return false
	}
	return true
}

// requireFields 校验必填字段
func requireFields(w http.ResponseWriter, fields map[string]string) bool {
	for name, value := range fields {
		if value == "" {
			writeJSON(w, http.StatusBadRequest, errorBody{
				Success:    false,
				Error:      name + " is required",
				StatusCode: http.StatusBadRequest,
			})
			return false
		}
	}
	return true
}
