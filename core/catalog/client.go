package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vibesync/logger"
	"vibesync/model"
)

// Client 音乐目录API客户端（JioSaavn兼容接口）
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建新的目录客户端
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ Resolver = (*Client)(nil)

// SetBaseURL 设置API基础URL
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// Search 搜索歌曲
func (c *Client) Search(ctx context.Context, query string, limit int) ([]model.Song, error) {
	if limit <= 0 {
		limit = 10
	}

	endpoint := fmt.Sprintf("%s/api/search/songs?query=%s&limit=%d",
		c.baseURL, url.QueryEscape(query), limit)

	var result struct {
		Data struct {
			Results []rawSong `json:"results"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	songs := make([]model.Song, 0, len(result.Data.Results))
	for _, raw := range result.Data.Results {
		songs = append(songs, raw.toSong())
	}

	logger.Info("目录搜索完成",
		logger.String("query", query),
		logger.Int("count", len(songs)))

	return songs, nil
}

// Resolve 获取歌曲详情。歌曲不存在返回 ErrSongNotFound，
// 上游故障返回包装后的 ErrUnavailable。
func (c *Client) Resolve(ctx context.Context, songID string) (*model.SongDetail, error) {
	endpoint := fmt.Sprintf("%s/api/songs/%s", c.baseURL, url.PathEscape(songID))

	var result struct {
		Data []rawSong `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSongNotFound, songID)
	}

	raw := result.Data[0]
	detail := &model.SongDetail{
		Song:      raw.toSong(),
		Language:  raw.Language,
		Year:      raw.Year.String(),
		PlayCount: numberToInt64(raw.PlayCount),
	}
	return detail, nil
}

// Suggestions 获取歌曲推荐，失败时返回空列表而不是报错
func (c *Client) Suggestions(ctx context.Context, songID string, limit int) ([]model.Song, error) {
	if limit <= 0 {
		limit = 10
	}

	endpoint := fmt.Sprintf("%s/api/songs/%s/suggestions?limit=%d",
		c.baseURL, url.PathEscape(songID), limit)

	var result struct {
		Data []rawSong `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		logger.Warn("获取歌曲推荐失败",
			logger.String("songId", songID),
			logger.ErrorField(err))
		return []model.Song{}, nil
	}

	if len(result.Data) > limit {
		result.Data = result.Data[:limit]
	}
	songs := make([]model.Song, 0, len(result.Data))
	for _, raw := range result.Data {
		songs = append(songs, raw.toSong())
	}
	return songs, nil
}

// getJSON 发送GET请求并解析JSON响应
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: 创建请求失败: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("目录API请求失败",
			logger.String("endpoint", endpoint),
			logger.ErrorField(err))
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrSongNotFound
	}
	if resp.StatusCode != http.StatusOK {
		logger.Error("目录API返回错误状态码",
			logger.String("endpoint", endpoint),
			logger.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: 解析响应失败: %v", ErrUnavailable, err)
	}
	return nil
}

// ========== 响应解析 ==========

type rawImage struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

type rawDownload struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
	Bitrate int    `json:"bitrate,omitempty"`
}

type rawArtist struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Image []rawImage  `json:"image"`
}

type rawSong struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Duration  json.Number `json:"duration"`
	Language  string      `json:"language"`
	Year      json.Number `json:"year"`
	PlayCount json.Number `json:"playCount"`

	Album struct {
		Name string `json:"name"`
	} `json:"album"`

	Image       []rawImage    `json:"image"`
	DownloadURL []rawDownload `json:"downloadUrl"`

	Artists struct {
		Primary  []rawArtist `json:"primary"`
		Featured []rawArtist `json:"featured"`
	} `json:"artists"`
}

func (r *rawSong) toSong() model.Song {
	song := model.Song{
		ID:       r.ID,
		Name:     r.Name,
		Album:    r.Album.Name,
		Duration: int(numberToInt64(r.Duration)),
	}

	for _, img := range r.Image {
		song.Thumbnails = append(song.Thumbnails, model.Thumbnail{
			URL:     img.URL,
			Quality: img.Quality,
		})
	}
	// 最后一档是最高画质，作为默认封面
	if n := len(song.Thumbnails); n > 0 {
		song.ImageURL = song.Thumbnails[n-1].URL
	}

	for _, dl := range r.DownloadURL {
		if dl.URL == "" {
			continue
		}
		song.Streams = append(song.Streams, model.StreamCandidate{
			Quality: dl.Quality,
			URL:     dl.URL,
			Bitrate: dl.Bitrate,
		})
	}
	if n := len(song.Streams); n > 0 {
		song.StreamURL = song.Streams[n-1].URL
	}

	appendArtists := func(raws []rawArtist, role string) {
		for _, a := range raws {
			artist := model.Artist{
				ID:   a.ID.String(),
				Name: a.Name,
				Role: role,
			}
			if n := len(a.Image); n > 0 {
				artist.ImageURL = a.Image[n-1].URL
			}
			song.Artists = append(song.Artists, artist)
		}
	}
	appendArtists(r.Artists.Primary, "primary")
	appendArtists(r.Artists.Featured, "featured")

	song.ArtistNames = strings.Join(song.PrimaryArtistNames(), ", ")

	return song
}

func numberToInt64(n json.Number) int64 {
	if n == "" {
		return 0
	}
	if v, err := n.Int64(); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(n.String(), 64); err == nil {
		return int64(f)
	}
	return 0
}
