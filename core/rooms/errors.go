package rooms

import "errors"

// 业务错误定义，handler 层通过 errors.Is 映射为HTTP状态码
var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrEntryNotFound = errors.New("song not found in queue")

	ErrPermissionDenied     = errors.New("you don't have permission to perform this action")
	ErrDefaultRoomProtected = errors.New("the default room cannot be deleted, it is a permanent community room")

	ErrQueueFull     = errors.New("queue is full")
	ErrQueueEmpty    = errors.New("queue is empty, add songs to start playing")
	ErrQuotaExceeded = errors.New("user quota exceeded, wait for your pending songs to play")
	ErrSongTooLong   = errors.New("song exceeds the maximum allowed duration")
	ErrDuplicateSong = errors.New("this song is already in the queue")

	// 房间码空间耗尽，实际上几乎不可能触发
	ErrRoomCapacity = errors.New("failed to generate unique room code after multiple attempts")
)
