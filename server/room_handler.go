package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"vibesync/core/catalog"
	"vibesync/core/rooms"
	"vibesync/model"
)

// RoomHandler 房间 HTTP 处理器
type RoomHandler struct {
	registry *rooms.Registry
	catalog  catalog.Resolver
}

// NewRoomHandler 创建房间处理器
func NewRoomHandler(registry *rooms.Registry, resolver catalog.Resolver) *RoomHandler {
	return &RoomHandler{
		registry: registry,
		catalog:  resolver,
	}
}

// CreateRoomHandler 创建房间
func (h *RoomHandler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRoomRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !requireFields(w, map[string]string{"userId": req.UserID, "username": req.Username}) {
		return
	}

	room, err := h.registry.CreateRoom(req.UserID, req.Username, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.CreateRoomResponse{
		Success:  true,
		RoomCode: room.Code(),
		Message:  "Room created successfully",
	})
}

// GetRoomStateHandler 获取房间完整状态
func (h *RoomHandler) GetRoomStateHandler(w http.ResponseWriter, r *http.Request) {
	room, err := h.registry.GetRoom(mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, room.State(time.Now()))
}

// DeleteRoomHandler 删除房间，仅房主可操作，默认房间不可删
func (h *RoomHandler) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	userID := r.URL.Query().Get("userId")
	if !requireFields(w, map[string]string{"userId": userID}) {
		return
	}

	if err := h.registry.DeleteRoom(code, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.APIResponse{
		Success: true,
		Message: "Room closed",
	})
}

// AddSongHandler 点歌。先在房间锁外解析歌曲元数据，
// 再进入房间临界区做审核和入队，避免锁内等待慢的外部API。
func (h *RoomHandler) AddSongHandler(w http.ResponseWriter, r *http.Request) {
	var req model.AddSongRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !requireFields(w, map[string]string{
		"songId": req.SongID, "userId": req.UserID, "username": req.Username,
	}) {
		return
	}

	room, err := h.registry.GetRoom(mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}

	song, err := h.catalog.Resolve(r.Context(), req.SongID)
	if err != nil {
		writeError(w, err)
		return
	}

	entry, position, err := room.Enqueue(song, req.UserID, req.Username, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.AddSongResponse{
		Success:       true,
		Message:       "Song added to queue",
		Song:          entry,
		QueuePosition: position,
	})
}

// RemoveSongHandler 从队列删歌
func (h *RoomHandler) RemoveSongHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req model.RemoveSongRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !requireFields(w, map[string]string{"requestingUserId": req.RequestingUserID}) {
		return
	}

	room, err := h.registry.GetRoom(vars["code"])
	if err != nil {
		writeError(w, err)
		return
	}

	removed, err := room.Remove(vars["queueId"], req.RequestingUserID, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.APIResponse{
		Success: true,
		Message: "Song removed from queue",
		Data:    removed,
	})
}

// SyncHandler 轮询同步端点，客户端据此计算播放进度
func (h *RoomHandler) SyncHandler(w http.ResponseWriter, r *http.Request) {
	room, err := h.registry.GetRoom(mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, room.Sync(time.Now()))
}

// SkipHandler 跳过当前歌曲
func (h *RoomHandler) SkipHandler(w http.ResponseWriter, r *http.Request) {
	var req model.UserActionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !requireFields(w, map[string]string{"requestingUserId": req.RequestingUserID}) {
		return
	}

	room, err := h.registry.GetRoom(mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}

	current, err := room.Skip(req.RequestingUserID, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.APIResponse{
		Success: true,
		Message: "Skipped to next song",
		Data:    current,
	})
}

// PauseHandler 切换暂停/播放
func (h *RoomHandler) PauseHandler(w http.ResponseWriter, r *http.Request) {
	var req model.UserActionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !requireFields(w, map[string]string{"requestingUserId": req.RequestingUserID}) {
		return
	}

	room, err := h.registry.GetRoom(mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}

	paused, err := room.TogglePause(req.RequestingUserID, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.APIResponse{
		Success: true,
		Message: "Pause state toggled",
		Data:    map[string]bool{"isPaused": paused},
	})
}

// JoinRoomHandler 加入房间，返回房间完整状态
func (h *RoomHandler) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req model.JoinRoomRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !requireFields(w, map[string]string{"userId": req.UserID, "username": req.Username}) {
		return
	}

	room, err := h.registry.GetRoom(mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}

	room.Join(req.UserID, req.Username)

	writeJSON(w, http.StatusOK, model.APIResponse{
		Success: true,
		Message: "Joined room",
		Data:    room.State(time.Now()),
	})
}

// LeaveRoomHandler 离开房间
func (h *RoomHandler) LeaveRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req model.LeaveRoomRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !requireFields(w, map[string]string{"userId": req.UserID}) {
		return
	}

	room, err := h.registry.GetRoom(mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}

	room.Leave(req.UserID)

	writeJSON(w, http.StatusOK, model.APIResponse{
		Success: true,
		Message: "Left room",
	})
}

// RoomSuggestionsHandler 基于当前播放歌曲获取推荐，空闲房间返回空列表
func (h *RoomHandler) RoomSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	room, err := h.registry.GetRoom(mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}

	state := room.Sync(time.Now())
	if state.CurrentSong == nil {
		writeJSON(w, http.StatusOK, model.APIResponse{
			Success: true,
			Data:    []model.Song{},
		})
		return
	}

	suggestions, err := h.catalog.Suggestions(r.Context(), state.CurrentSong.Song.ID, 10)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.APIResponse{
		Success: true,
		Data:    suggestions,
	})
}
