package rooms

import "vibesync/config"

// Settings 房间与审核规则配置
type Settings struct {
	RoomCodeLength      int
	DefaultRoomCode     string
	DefaultRoomHostID   string
	DefaultRoomHostName string

	MaxQueueSize        int
	MaxSongsPerUser     int
	MaxSongDuration     int // 秒
	QueuePreviewLength  int
	RecentlyPlayedLimit int

	NameSimilarityThreshold float64
	ArtistOverlapThreshold  float64
}

// SettingsFromConfig 从应用配置构建房间配置
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		RoomCodeLength:          cfg.RoomCodeLength,
		DefaultRoomCode:         cfg.DefaultRoomCode,
		DefaultRoomHostID:       cfg.DefaultRoomHostID,
		DefaultRoomHostName:     cfg.DefaultRoomHostName,
		MaxQueueSize:            cfg.MaxQueueSize,
		MaxSongsPerUser:         cfg.MaxSongsPerUser,
		MaxSongDuration:         cfg.MaxSongDuration,
		QueuePreviewLength:      cfg.QueuePreviewLength,
		RecentlyPlayedLimit:     cfg.RecentlyPlayedLimit,
		NameSimilarityThreshold: cfg.NameSimilarityThreshold,
		ArtistOverlapThreshold:  cfg.ArtistOverlapThreshold,
	}
}

// DefaultSettings 产品默认值，测试里也直接使用
func DefaultSettings() Settings {
	return Settings{
		RoomCodeLength:          6,
		DefaultRoomCode:         "DEFAULT",
		DefaultRoomHostID:       "system",
		DefaultRoomHostName:     "VibeSync Radio",
		MaxQueueSize:            100,
		MaxSongsPerUser:         3,
		MaxSongDuration:         480,
		QueuePreviewLength:      5,
		RecentlyPlayedLimit:     10,
		NameSimilarityThreshold: 0.85,
		ArtistOverlapThreshold:  0.5,
	}
}
