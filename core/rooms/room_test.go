package rooms

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertQueueInvariant 校验结构不变量：待播队列里不允许出现当前播放的条目
func assertQueueInvariant(t *testing.T, r *Room, now time.Time) {
	t.Helper()
	state := r.State(now)
	if state.CurrentSong == nil {
		return
	}
	for _, e := range state.Queue {
		assert.NotEqual(t, state.CurrentSong.QueueID, e.QueueID,
			"queue must never contain the current entry")
	}
}

func TestEnqueueAutoPromotes(t *testing.T) {
	r := testRoom(t)
	t0 := time.Now()

	entry, position, err := r.Enqueue(testSong("s1", "First Song", []string{"Artist"}, 200), "u1", "User1", t0)
	require.NoError(t, err)
	assert.Equal(t, 1, position)
	assert.NotEmpty(t, entry.QueueID)
	assert.Equal(t, "u1", entry.AddedByUserID)

	// 第一首歌被提升为当前播放，待播队列为空
	state := r.State(t0)
	require.NotNil(t, state.CurrentSong)
	assert.Equal(t, entry.QueueID, state.CurrentSong.QueueID)
	assert.Equal(t, 0, state.QueueLength)
	assert.NotNil(t, state.SongStartTime)
	assertQueueInvariant(t, r, t0)

	// 第二首留在队列里，位置为1
	_, position, err = r.Enqueue(testSong("s2", "Second Song", []string{"Other"}, 180), "u1", "User1", t0)
	require.NoError(t, err)
	assert.Equal(t, 1, position)
	assertQueueInvariant(t, r, t0)
}

func TestQueueIDsAreUnique(t *testing.T) {
	r := testRoom(t)
	t0 := time.Now()

	seen := map[string]bool{}
	users := []string{"u1", "u2", "u3"}
	for i := 0; i < 9; i++ {
		u := users[i%3]
		entry, _, err := r.Enqueue(
			testSong(fmt.Sprintf("s%d", i), fmt.Sprintf("Song Number %d", i), []string{fmt.Sprintf("Artist%d", i)}, 100),
			u, u, t0)
		require.NoError(t, err)
		assert.False(t, seen[entry.QueueID])
		seen[entry.QueueID] = true
	}
}

func TestUserQuota(t *testing.T) {
	r := testRoom(t)
	t0 := time.Now()

	// 两个用户各点满3首（第一首会成为当前播放，也计入配额）
	titles := []string{"Sunrise Avenue", "Ocean Drive", "Paper Planes"}
	for _, u := range []string{"u1", "u2"} {
		for i := 0; i < 3; i++ {
			_, _, err := r.Enqueue(
				testSong(fmt.Sprintf("%s-s%d", u, i), fmt.Sprintf("%s (%s)", titles[i], u), []string{u + "artist"}, 100),
				u, u, t0)
			require.NoError(t, err)
		}
	}

	// 第4首被拒
	_, _, err := r.Enqueue(testSong("u1-s4", "U1 Extra Song", []string{"u1artist"}, 100), "u1", "u1", t0)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	_, _, err = r.Enqueue(testSong("u2-s4", "U2 Extra Song", []string{"u2artist"}, 100), "u2", "u2", t0)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// 删掉u1的一首待播歌后，恰好能再点一首
	state := r.State(t0)
	var target string
	for _, e := range state.Queue {
		if e.AddedByUserID == "u1" {
			target = e.QueueID
			break
		}
	}
	require.NotEmpty(t, target)
	_, err = r.Remove(target, "u1", t0)
	require.NoError(t, err)

	_, _, err = r.Enqueue(testSong("u1-s5", "U1 Replacement Song", []string{"u1artist"}, 100), "u1", "u1", t0)
	require.NoError(t, err)
	_, _, err = r.Enqueue(testSong("u1-s6", "U1 Second Extra", []string{"u1artist"}, 100), "u1", "u1", t0)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestQuotaFreedWhenSongPlays(t *testing.T) {
	r := testRoom(t)
	t0 := time.Now()

	titles := []string{"Sunrise Avenue", "Ocean Drive", "Paper Planes"}
	for i := 0; i < 3; i++ {
		_, _, err := r.Enqueue(
			testSong(fmt.Sprintf("s%d", i), titles[i], []string{"Artist"}, 100),
			"u1", "u1", t0)
		require.NoError(t, err)
	}
	_, _, err := r.Enqueue(testSong("s4", "Overflow Song", []string{"Artist"}, 100), "u1", "u1", t0)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	// 第一首播完后配额释放
	later := t0.Add(150 * time.Second)
	_, _, err = r.Enqueue(testSong("s4", "Overflow Song", []string{"Artist"}, 100), "u1", "u1", later)
	assert.NoError(t, err)
}

func TestDuplicateRejection(t *testing.T) {
	r := testRoom(t)
	t0 := time.Now()

	// s1 成为当前播放
	_, _, err := r.Enqueue(testSong("s1", "Midnight City", []string{"M83"}, 240), "u1", "u1", t0)
	require.NoError(t, err)

	// 当前播放的歌不算重复，可以再点一遍
	_, _, err = r.Enqueue(testSong("s1", "Midnight City", []string{"M83"}, 240), "u2", "u2", t0)
	require.NoError(t, err)

	// 现在 s1 在待播队列里，再点就是重复
	_, _, err = r.Enqueue(testSong("s1", "Midnight City", []string{"M83"}, 240), "u3", "u3", t0)
	assert.ErrorIs(t, err, ErrDuplicateSong)
}

func TestRemovalResetsDuplicateEligibility(t *testing.T) {
	r := testRoom(t)
	t0 := time.Now()

	_, _, err := r.Enqueue(testSong("s1", "Midnight City", []string{"M83"}, 240), "u1", "u1", t0)
	require.NoError(t, err)
	entry, _, err := r.Enqueue(testSong("s2", "Wait", []string{"M83"}, 200), "u1", "u1", t0)
	require.NoError(t, err)

	// 移除后等同于播完，可立即重新点
	_, err = r.Remove(entry.QueueID, "u1", t0)
	require.NoError(t, err)
	_, _, err = r.Enqueue(testSong("s2", "Wait", []string{"M83"}, 200), "u1", "u1", t0)
	assert.NoError(t, err)
}

func TestRemovePermissions(t *testing.T) {
	r := testRoom(t)
	t0 := time.Now()

	_, _, err := r.Enqueue(testSong("s1", "First Song", []string{"A"}, 200), "u1", "u1", t0)
	require.NoError(t, err)
	entry, _, err := r.Enqueue(testSong("s2", "Second Song", []string{"B"}, 200), "u1", "u1", t0)
	require.NoError(t, err)

	// 无关用户不能删
	_, err = r.Remove(entry.QueueID, "u2", t0)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// 房主可以删任何人的歌
	removed, err := r.Remove(entry.QueueID, "host", t0)
	require.NoError(t, err)
	assert.Equal(t, entry.QueueID, removed.QueueID)

	// 再删已不存在
	_, err = r.Remove(entry.QueueID, "host", t0)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestRemoveCurrentBehavesLikeSkip(t *testing.T) {
	r := testRoom(t)
	t0 := time.Now()

	first, _, err := r.Enqueue(testSong("s1", "First Song", []string{"A"}, 200), "u1", "u1", t0)
	require.NoError(t, err)
	_, _, err = r.Enqueue(testSong("s2", "Second Song", []string{"B"}, 200), "u2", "u2", t0)
	require.NoError(t, err)

	removed, err := r.Remove(first.QueueID, "u1", t0.Add(5*time.Second))
	require.NoError(t, err)
	assert.Equal(t, first.QueueID, removed.QueueID)

	// 下一首被提升为当前播放
	state := r.State(t0.Add(5 * time.Second))
	require.NotNil(t, state.CurrentSong)
	assert.Equal(t, "s2", state.CurrentSong.Song.ID)
	assert.Equal(t, 0, state.QueueLength)
	assertQueueInvariant(t, r, t0.Add(5*time.Second))
}

func TestRemoveKeepsOtherEntriesInPlace(t *testing.T) {
	r := testRoom(t)
	t0 := time.Now()

	var entries []string
	for i := 0; i < 4; i++ {
		u := fmt.Sprintf("u%d", i)
		entry, _, err := r.Enqueue(
			testSong(fmt.Sprintf("s%d", i), fmt.Sprintf("Song Number %d", i), []string{u}, 100), u, u, t0)
		require.NoError(t, err)
		entries = append(entries, entry.QueueID)
	}

	// 删除中间一条，其余条目身份和顺序不变
	_, err := r.Remove(entries[2], "host", t0)
	require.NoError(t, err)

	state := r.State(t0)
	require.Len(t, state.Queue, 2)
	assert.Equal(t, entries[1], state.Queue[0].QueueID)
	assert.Equal(t, entries[3], state.Queue[1].QueueID)
}

func TestMembership(t *testing.T) {
	r := testRoom(t)
	t0 := time.Now()

	assert.Equal(t, 1, r.State(t0).MemberCount) // 房主

	r.Join("u1", "User1")
	r.Join("u2", "User2")
	r.Join("u1", "User1") // 重复加入幂等
	assert.Equal(t, 3, r.State(t0).MemberCount)

	assert.True(t, r.Leave("u1"))
	assert.False(t, r.Leave("u1"))
	assert.Equal(t, 2, r.State(t0).MemberCount)
}

func TestSyncPreviewBounded(t *testing.T) {
	settings := DefaultSettings()
	settings.QueuePreviewLength = 3
	r := newRoom("ABC123", "host", "Host", settings, time.Now())
	t0 := time.Now()

	for i := 0; i < 7; i++ {
		u := fmt.Sprintf("u%d", i)
		_, _, err := r.Enqueue(
			testSong(fmt.Sprintf("s%d", i), fmt.Sprintf("Song Number %d", i), []string{u}, 100), u, u, t0)
		require.NoError(t, err)
	}

	sync := r.Sync(t0)
	assert.Len(t, sync.NextSongs, 3)
	assert.Equal(t, 6, sync.QueueLength)
}

func TestRecentlyPlayedHistory(t *testing.T) {
	r := testRoom(t)
	t0 := time.Now()

	_, _, err := r.Enqueue(testSong("s1", "First Song", []string{"A"}, 100), "u1", "u1", t0)
	require.NoError(t, err)
	_, _, err = r.Enqueue(testSong("s2", "Second Song", []string{"B"}, 100), "u2", "u2", t0)
	require.NoError(t, err)

	// 播完第一首后进入历史
	state := r.State(t0.Add(150 * time.Second))
	require.Len(t, state.RecentlyPlayed, 1)
	assert.Equal(t, "s1", state.RecentlyPlayed[0].Song.ID)
}
