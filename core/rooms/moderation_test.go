package rooms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationCap(t *testing.T) {
	r := testRoom(t)
	t0 := time.Now()

	_, _, err := r.Enqueue(testSong("s1", "Epic Live Version", []string{"Band"}, 481), "u1", "u1", t0)
	assert.ErrorIs(t, err, ErrSongTooLong)

	// 恰好到上限允许
	_, _, err = r.Enqueue(testSong("s2", "Regular Version", []string{"Band"}, 480), "u1", "u1", t0)
	assert.NoError(t, err)
}

func TestQueueCapacity(t *testing.T) {
	settings := DefaultSettings()
	settings.MaxQueueSize = 2
	settings.MaxSongsPerUser = 10
	r := newRoom("ABC123", "host", "Host", settings, time.Now())
	t0 := time.Now()

	// 第一首成为当前播放，之后两首填满队列
	_, _, err := r.Enqueue(testSong("s1", "Sunrise Avenue", []string{"A"}, 100), "u1", "u1", t0)
	require.NoError(t, err)
	_, _, err = r.Enqueue(testSong("s2", "Ocean Drive", []string{"B"}, 100), "u1", "u1", t0)
	require.NoError(t, err)
	_, _, err = r.Enqueue(testSong("s3", "Paper Planes", []string{"C"}, 100), "u1", "u1", t0)
	require.NoError(t, err)

	_, _, err = r.Enqueue(testSong("s4", "Fourth Track", []string{"D"}, 100), "u1", "u1", t0)
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestFuzzyDuplicateRemasterVariant(t *testing.T) {
	r := testRoom(t)
	t0 := time.Now()

	_, _, err := r.Enqueue(testSong("s0", "Placeholder Opener", []string{"Someone"}, 100), "u1", "u1", t0)
	require.NoError(t, err)

	// 待播队列里有原版
	_, _, err = r.Enqueue(testSong("s1", "Bohemian Rhapsody", []string{"Queen"}, 355), "u1", "u1", t0)
	require.NoError(t, err)

	// 同一首歌的remaster变体，ID不同也应判为重复
	_, _, err = r.Enqueue(testSong("s2", "Bohemian Rhapsody (Remastered)", []string{"Queen"}, 357), "u2", "u2", t0)
	assert.ErrorIs(t, err, ErrDuplicateSong)

	// 同名但艺术家完全不同，不算重复
	_, _, err = r.Enqueue(testSong("s3", "Bohemian Rhapsody", []string{"Panic! At The Disco"}, 300), "u2", "u2", t0)
	assert.NoError(t, err)

	// 同一艺术家的另一首歌，不算重复
	_, _, err = r.Enqueue(testSong("s4", "Somebody To Love", []string{"Queen"}, 296), "u3", "u3", t0)
	assert.NoError(t, err)
}

func TestNameSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"Bohemian Rhapsody", "Bohemian Rhapsody", 1, 1},
		{"Bohemian Rhapsody", "bohemian rhapsody ", 1, 1},                  // 归一化后一致
		{"Bohemian Rhapsody", "Bohemian Rhapsody - Remaster", 1, 1},        // 尾部修饰被剥掉
		{"Bohemian Rhapsody", "Bohemian Rhapsody (2011 Remaster)", 1, 1},   // 括号段被剥掉
		{"(Everything I Do) I Do It for You", "(Everything I Do) I Do It for You", 1, 1}, // 整名保留
		{"Hello", "Yellow", 0.5, 0.9},
		{"Completely Different", "Another Thing", 0, 0.4},
		{"", "Anything", 0, 0},
	}

	for _, c := range cases {
		got := nameSimilarity(c.a, c.b)
		assert.GreaterOrEqual(t, got, c.min, "%q vs %q", c.a, c.b)
		assert.LessOrEqual(t, got, c.max, "%q vs %q", c.a, c.b)
	}
}

func TestArtistOverlap(t *testing.T) {
	assert.Equal(t, 1.0, artistOverlap([]string{"Queen"}, []string{"queen"}))
	assert.Equal(t, 0.5, artistOverlap([]string{"Queen", "David Bowie"}, []string{"Queen"}))
	assert.Equal(t, 0.0, artistOverlap([]string{"Queen"}, []string{"ABBA"}))
	assert.Equal(t, 0.0, artistOverlap(nil, []string{"Queen"}))
}

func TestPendingCountIncludesCurrent(t *testing.T) {
	r := testRoom(t)
	t0 := time.Now()

	_, _, err := r.Enqueue(testSong("s1", "Sunrise Avenue", []string{"A"}, 100), "u1", "u1", t0)
	require.NoError(t, err)
	_, _, err = r.Enqueue(testSong("s2", "Ocean Drive", []string{"B"}, 100), "u1", "u1", t0)
	require.NoError(t, err)

	r.mu.Lock()
	count := r.pendingCountLocked("u1")
	r.mu.Unlock()
	assert.Equal(t, 2, count)
}
