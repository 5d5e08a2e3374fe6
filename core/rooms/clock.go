package rooms

import (
	"time"

	"vibesync/logger"
	"vibesync/model"
)

// 播放时钟：不起后台定时器，"现在播到哪"完全由存储的时间戳和
// 调用方传入的 now 推导。每个读写操作入口都先调 advanceLocked，
// 到点了就惰性切到下一首。

// offsetLocked 计算当前歌曲的播放进度（秒）。调用方必须持有 r.mu。
func (r *Room) offsetLocked(now time.Time) float64 {
	if r.current == nil {
		return 0
	}
	if r.isPaused {
		return r.pausedOffset
	}

	elapsed := r.pausedOffset + now.Sub(r.songStartTime).Seconds()
	if elapsed < 0 {
		return 0
	}
	// 上报进度不超过歌曲时长
	if r.current.Duration > 0 && elapsed > float64(r.current.Duration) {
		return float64(r.current.Duration)
	}
	return elapsed
}

// advanceLocked 当前歌曲播完则切到下一首。幂等：切歌后
// songStartTime 重置为 now，同一时刻的后续调用不会再切。
func (r *Room) advanceLocked(now time.Time) {
	if r.current == nil || r.isPaused {
		return
	}
	if r.current.Duration <= 0 {
		return
	}

	elapsed := r.pausedOffset + now.Sub(r.songStartTime).Seconds()
	if elapsed >= float64(r.current.Duration) {
		r.startNextLocked(now)
	}
}

// startNextLocked 把队首歌曲提升为当前播放，队列为空则房间转为空闲。
// 被切换下来的歌进入最近播放历史。
func (r *Room) startNextLocked(now time.Time) {
	if r.current != nil {
		r.pushHistoryLocked(r.current)
		logger.Info("歌曲播放结束",
			logger.String("roomCode", r.code),
			logger.String("song", r.current.Name))
	}

	if len(r.queue) == 0 {
		r.current = nil
		r.songStartTime = time.Time{}
		r.isPaused = false
		r.pausedOffset = 0
		return
	}

	next := r.queue[0]
	r.queue = r.queue[1:]
	r.current = next
	r.songStartTime = now
	r.isPaused = false
	r.pausedOffset = 0

	logger.Info("开始播放",
		logger.String("roomCode", r.code),
		logger.String("song", next.Name),
		logger.String("addedBy", next.AddedByUsername))
}

// pauseLocked 冻结播放进度。已暂停则为空操作。
func (r *Room) pauseLocked(now time.Time) {
	if r.isPaused {
		return
	}
	r.pausedOffset = r.offsetLocked(now)
	r.isPaused = true
}

// resumeLocked 从暂停处继续。pausedOffset 保留为恢复后的进度基线。
func (r *Room) resumeLocked(now time.Time) {
	if !r.isPaused {
		return
	}
	r.songStartTime = now
	r.isPaused = false
}

// pushHistoryLocked 记录最近播放，最多保留 RecentlyPlayedLimit 条
func (r *Room) pushHistoryLocked(entry *model.QueueEntry) {
	r.recentlyPlayed = append(r.recentlyPlayed, entry)
	if limit := r.settings.RecentlyPlayedLimit; limit > 0 && len(r.recentlyPlayed) > limit {
		r.recentlyPlayed = r.recentlyPlayed[len(r.recentlyPlayed)-limit:]
	}
}
