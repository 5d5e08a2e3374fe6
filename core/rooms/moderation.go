package rooms

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"vibesync/model"
)

// 入队审核，按固定顺序执行纯函数检查：
// 容量 → 配额 → 时长 → 查重。顺序固定保证错误信息确定，
// 且廉价的检查先失败。

// checkAdmission 判断一首歌能否进入队列。不修改任何状态。
func (r *Room) checkAdmission(song *model.SongDetail, userID string) error {
	if len(r.queue) >= r.settings.MaxQueueSize {
		return fmt.Errorf("%w: maximum %d songs allowed", ErrQueueFull, r.settings.MaxQueueSize)
	}

	if pending := r.pendingCountLocked(userID); pending >= r.settings.MaxSongsPerUser {
		return fmt.Errorf("%w: you can only have %d songs pending at one time",
			ErrQuotaExceeded, r.settings.MaxSongsPerUser)
	}

	if song.Duration > r.settings.MaxSongDuration {
		return fmt.Errorf("%w: song is %ds, maximum is %ds",
			ErrSongTooLong, song.Duration, r.settings.MaxSongDuration)
	}

	// 只对待播队列查重，当前播放的歌不算——刚播完的歌允许重新点
	for _, queued := range r.queue {
		if r.isDuplicate(queued, song) {
			return fmt.Errorf("%w: '%s'", ErrDuplicateSong, song.Name)
		}
	}

	return nil
}

// pendingCountLocked 统计某用户的待播歌曲数（含当前播放的，如属于该用户）。
// 每次重新计算而不做增减缓存，避免计数漂移。
func (r *Room) pendingCountLocked(userID string) int {
	count := 0
	for _, e := range r.queue {
		if e.AddedByUserID == userID {
			count++
		}
	}
	if r.current != nil && r.current.AddedByUserID == userID {
		count++
	}
	return count
}

// isDuplicate 模糊匹配两首歌是否相同。
// 歌曲ID完全一致直接判定重复；否则比较归一化歌名的编辑距离相似度
// 和艺术家集合的重叠度，两者都超过阈值才算重复，
// 避免把同一艺术家的不同歌曲误判为重复。
func (r *Room) isDuplicate(queued *model.QueueEntry, song *model.SongDetail) bool {
	if queued.Song.ID == song.ID {
		return true
	}

	nameScore := nameSimilarity(queued.Song.Name, song.Name)
	artistScore := artistOverlap(queued.Song.PrimaryArtistNames(), song.PrimaryArtistNames())

	return nameScore > r.settings.NameSimilarityThreshold &&
		artistScore > r.settings.ArtistOverlapThreshold
}

// nameSimilarity 计算归一化歌名的相似度，范围 [0,1]。
// 先剥掉 "(Remastered)"、"- Live" 这类尾部修饰再算编辑距离，
// 让同一首歌的版本变体能够互相命中。
func nameSimilarity(a, b string) float64 {
	na, nb := canonicalTitle(a), canonicalTitle(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	dist := levenshtein.ComputeDistance(na, nb)
	maxLen := len([]rune(na))
	if l := len([]rune(nb)); l > maxLen {
		maxLen = l
	}
	return 1 - float64(dist)/float64(maxLen)
}

// artistOverlap 计算艺术家集合重叠度: |A∩B| / max(|A|,|B|)
func artistOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, name := range a {
		setA[normalizeTitle(name)] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, name := range b {
		setB[normalizeTitle(name)] = struct{}{}
	}

	shared := 0
	for name := range setA {
		if _, ok := setB[name]; ok {
			shared++
		}
	}

	max := len(setA)
	if len(setB) > max {
		max = len(setB)
	}
	return float64(shared) / float64(max)
}

// canonicalTitle 去掉歌名尾部的括号段和 " - xxx" 后缀再做归一化。
// 整个歌名都在括号里时不剥，避免剥成空串。
func canonicalTitle(s string) string {
	s = strings.ToLower(s)

	if i := strings.Index(s, " - "); i > 0 {
		s = s[:i]
	}
	for {
		trimmed := strings.TrimSpace(s)
		if strings.HasSuffix(trimmed, ")") {
			if i := strings.LastIndex(trimmed, "("); i > 0 {
				s = trimmed[:i]
				continue
			}
		}
		if strings.HasSuffix(trimmed, "]") {
			if i := strings.LastIndex(trimmed, "["); i > 0 {
				s = trimmed[:i]
				continue
			}
		}
		break
	}

	return normalizeTitle(s)
}

// normalizeTitle 归一化：小写并去掉空白和标点
func normalizeTitle(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
