package model

import "time"

// QueueEntry 队列中的一首歌，入队时生成，之后不再修改
type QueueEntry struct {
	QueueID string `json:"queueId"` // 房间内唯一，不复用
	Song

	AddedByUserID   string    `json:"addedByUserId"`
	AddedByUsername string    `json:"addedByUsername"`
	AddedAt         time.Time `json:"addedAt"`
}

// RoomState 房间完整状态（API 响应用）
type RoomState struct {
	RoomCode     string    `json:"roomCode"`
	HostUserID   string    `json:"hostUserId"`
	HostUsername string    `json:"hostUsername"`
	CreatedAt    time.Time `json:"createdAt"`

	CurrentSong   *QueueEntry `json:"currentSong,omitempty"`
	SongStartTime *time.Time  `json:"songStartTime,omitempty"`
	IsPaused      bool        `json:"isPaused"`

	Queue          []*QueueEntry `json:"queue"`
	QueueLength    int           `json:"queueLength"`
	RecentlyPlayed []*QueueEntry `json:"recentlyPlayed,omitempty"`
	MemberCount    int           `json:"memberCount"`
}

// SyncState 同步状态，轮询客户端据此计算播放进度
type SyncState struct {
	CurrentSong   *QueueEntry `json:"currentSong,omitempty"`
	ServerTime    time.Time   `json:"serverTime"`
	SongStartTime *time.Time  `json:"songStartTime,omitempty"`
	IsPaused      bool        `json:"isPaused"`

	// 服务端计算好的播放进度（秒）
	SeekPositionSeconds float64 `json:"seekPositionSeconds"`

	// 接下来的若干首歌（有界预览）
	NextSongs   []*QueueEntry `json:"nextSongs"`
	QueueLength int           `json:"queueLength"`
	MemberCount int           `json:"memberCount"`
}

// ========== 请求/响应结构 ==========

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// CreateRoomResponse 创建房间响应
type CreateRoomResponse struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"roomCode"`
	Message  string `json:"message"`
}

// AddSongRequest 点歌请求
type AddSongRequest struct {
	SongID   string `json:"songId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// AddSongResponse 点歌响应
type AddSongResponse struct {
	Success       bool        `json:"success"`
	Message       string      `json:"message"`
	Song          *QueueEntry `json:"song"`
	QueuePosition int         `json:"queuePosition"`
}

// RemoveSongRequest 删除队列歌曲请求
type RemoveSongRequest struct {
	RequestingUserID string `json:"requestingUserId"`
}

// JoinRoomRequest 加入房间请求
type JoinRoomRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// LeaveRoomRequest 离开房间请求
type LeaveRoomRequest struct {
	UserID string `json:"userId"`
}

// UserActionRequest 宿主操作请求（跳歌/暂停）
type UserActionRequest struct {
	RequestingUserID string `json:"requestingUserId"`
}

// SearchSongsResponse 搜索响应
type SearchSongsResponse struct {
	Success bool   `json:"success"`
	Query   string `json:"query"`
	Results []Song `json:"results"`
	Total   int    `json:"total"`
}

// APIResponse 通用响应包装
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
