package rooms

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"vibesync/logger"
	"vibesync/model"
)

// Room 一个独立的听歌房间：队列、播放时钟、成员、房主。
// 每个房间有自己的互斥锁，所有读写操作在锁内完成整个临界区，
// 不同房间之间互不阻塞。
type Room struct {
	mu sync.Mutex

	code         string // 创建后不变
	hostUserID   string
	hostUsername string
	createdAt    time.Time

	members map[string]string // userID -> username

	queue   []*model.QueueEntry
	current *model.QueueEntry

	songStartTime time.Time
	isPaused      bool
	pausedOffset  float64 // 暂停前已消耗的秒数

	recentlyPlayed []*model.QueueEntry

	settings Settings
}

func newRoom(code, hostUserID, hostUsername string, settings Settings, now time.Time) *Room {
	return &Room{
		code:         code,
		hostUserID:   hostUserID,
		hostUsername: hostUsername,
		createdAt:    now,
		members:      map[string]string{hostUserID: hostUsername},
		settings:     settings,
	}
}

// Code 返回房间码
func (r *Room) Code() string {
	return r.code
}

// HostUserID 返回房主ID（房间生命周期内不变）
func (r *Room) HostUserID() string {
	return r.hostUserID
}

// newQueueID 生成房间内唯一的队列条目ID
func newQueueID() string {
	return uuid.NewString()[:8]
}

// ========== 队列操作 ==========

// Enqueue 点歌。歌曲元数据由调用方提前通过目录服务解析好，
// 避免在房间锁内做慢的外部请求。返回条目和其在待播队列中的位置（1起）。
func (r *Room) Enqueue(song *model.SongDetail, userID, username string, now time.Time) (*model.QueueEntry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advanceLocked(now)

	if err := r.checkAdmission(song, userID); err != nil {
		return nil, 0, err
	}

	entry := &model.QueueEntry{
		QueueID:         newQueueID(),
		Song:            song.Song,
		AddedByUserID:   userID,
		AddedByUsername: username,
		AddedAt:         now,
	}
	r.queue = append(r.queue, entry)
	position := len(r.queue)

	// 空闲房间点歌后立即开始播放
	if r.current == nil {
		r.startNextLocked(now)
	}

	logger.Info("歌曲加入队列",
		logger.String("roomCode", r.code),
		logger.String("song", song.Name),
		logger.String("addedBy", username),
		logger.Int("position", position))

	return entry, position, nil
}

// Remove 从队列删除一首歌。只有点歌人或房主可以删除。
// 删除当前播放的歌等同于跳歌；删除待播歌曲原地摘除，不影响其他条目。
func (r *Room) Remove(queueID, requestingUserID string, now time.Time) (*model.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advanceLocked(now)

	if r.current != nil && r.current.QueueID == queueID {
		if r.current.AddedByUserID != requestingUserID && r.hostUserID != requestingUserID {
			return nil, fmt.Errorf("%w: only the song adder or room host can remove this song", ErrPermissionDenied)
		}
		removed := r.current
		r.startNextLocked(now)
		logger.Info("当前播放歌曲被移除",
			logger.String("roomCode", r.code),
			logger.String("song", removed.Name))
		return removed, nil
	}

	for i, entry := range r.queue {
		if entry.QueueID != queueID {
			continue
		}
		if entry.AddedByUserID != requestingUserID && r.hostUserID != requestingUserID {
			return nil, fmt.Errorf("%w: only the song adder or room host can remove this song", ErrPermissionDenied)
		}
		r.queue = append(r.queue[:i], r.queue[i+1:]...)
		logger.Info("歌曲移出队列",
			logger.String("roomCode", r.code),
			logger.String("song", entry.Name),
			logger.String("requestedBy", requestingUserID))
		return entry, nil
	}

	return nil, fmt.Errorf("%w: queueId %s", ErrEntryNotFound, queueID)
}

// ========== 播放控制 ==========

// Skip 跳过当前歌曲，无论是否播完。仅房主可操作。
// 返回新的当前歌曲，队列空则返回 nil（房间转空闲）。
func (r *Room) Skip(requestingUserID string, now time.Time) (*model.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostUserID != requestingUserID {
		return nil, fmt.Errorf("%w: only the host can skip songs", ErrPermissionDenied)
	}

	r.advanceLocked(now)
	r.startNextLocked(now)
	return r.current, nil
}

// TogglePause 切换暂停状态，返回新状态。仅房主可操作。
func (r *Room) TogglePause(requestingUserID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostUserID != requestingUserID {
		return false, fmt.Errorf("%w: only the host can pause/resume", ErrPermissionDenied)
	}

	r.advanceLocked(now)

	if r.current == nil {
		return false, ErrQueueEmpty
	}

	if r.isPaused {
		r.resumeLocked(now)
	} else {
		r.pauseLocked(now)
	}

	logger.Info("暂停状态切换",
		logger.String("roomCode", r.code),
		logger.Bool("isPaused", r.isPaused))

	return r.isPaused, nil
}

// ========== 成员管理 ==========

// Join 加入房间。成员变动不影响播放。
func (r *Room) Join(userID, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.members[userID] = username
	logger.Info("用户加入房间",
		logger.String("roomCode", r.code),
		logger.String("username", username))
}

// Leave 离开房间，返回用户此前是否在房间内
func (r *Room) Leave(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[userID]; !ok {
		return false
	}
	delete(r.members, userID)
	logger.Info("用户离开房间",
		logger.String("roomCode", r.code),
		logger.String("userId", userID))
	return true
}

// ========== 状态快照 ==========

// State 返回房间完整状态。条目入队后不再修改，浅拷贝即可保证快照不可变。
func (r *Room) State(now time.Time) *model.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advanceLocked(now)

	state := &model.RoomState{
		RoomCode:       r.code,
		HostUserID:     r.hostUserID,
		HostUsername:   r.hostUsername,
		CreatedAt:      r.createdAt,
		CurrentSong:    r.current,
		IsPaused:       r.isPaused,
		Queue:          append([]*model.QueueEntry(nil), r.queue...),
		QueueLength:    len(r.queue),
		RecentlyPlayed: append([]*model.QueueEntry(nil), r.recentlyPlayed...),
		MemberCount:    len(r.members),
	}
	if r.current != nil {
		start := r.songStartTime
		state.SongStartTime = &start
	}
	return state
}

// Sync 返回轮询客户端用的同步状态：当前歌曲、服务端算好的播放进度、
// 暂停标记和接下来若干首歌的有界预览。
func (r *Room) Sync(now time.Time) *model.SyncState {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advanceLocked(now)

	preview := r.settings.QueuePreviewLength
	if preview <= 0 || preview > len(r.queue) {
		preview = len(r.queue)
	}

	sync := &model.SyncState{
		CurrentSong:         r.current,
		ServerTime:          now,
		IsPaused:            r.isPaused,
		SeekPositionSeconds: r.offsetLocked(now),
		NextSongs:           append([]*model.QueueEntry(nil), r.queue[:preview]...),
		QueueLength:         len(r.queue),
		MemberCount:         len(r.members),
	}
	if r.current != nil {
		start := r.songStartTime
		sync.SongStartTime = &start
	}
	return sync
}
