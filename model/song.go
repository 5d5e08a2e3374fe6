package model

// StreamCandidate 歌曲播放地址（按码率分档）
type StreamCandidate struct {
	Quality string `json:"quality"` // '12kbps', '320kbps' 等
	URL     string `json:"url"`
	Bitrate int    `json:"bitrate,omitempty"` // kbps
}

// Thumbnail 封面图（按尺寸分档）
type Thumbnail struct {
	URL     string `json:"url"`
	Quality string `json:"quality"` // '50x50', '500x500' 等
}

// Artist 艺术家信息
type Artist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"` // primary, featured
	ImageURL string `json:"imageUrl,omitempty"`
}

// Song 目录服务返回的歌曲基础信息
type Song struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Album    string `json:"album,omitempty"`
	Duration int    `json:"duration"` // 秒

	Artists     []Artist `json:"artists,omitempty"`
	ArtistNames string   `json:"artistNames,omitempty"` // 逗号分隔，便于展示

	Thumbnails []Thumbnail       `json:"thumbnails,omitempty"`
	ImageURL   string            `json:"imageUrl,omitempty"` // 默认封面（最高画质）
	Streams    []StreamCandidate `json:"streams,omitempty"`
	StreamURL  string            `json:"streamUrl,omitempty"` // 默认播放地址（最高音质）
}

// SongDetail 歌曲详情
type SongDetail struct {
	Song
	Language  string `json:"language,omitempty"`
	Year      string `json:"year,omitempty"`
	PlayCount int64  `json:"playCount,omitempty"`
}

// PrimaryArtistNames 返回艺术家名称列表，用于查重时的集合比较
func (s *Song) PrimaryArtistNames() []string {
	names := make([]string, 0, len(s.Artists))
	for _, a := range s.Artists {
		names = append(names, a.Name)
	}
	return names
}
