package catalog

import (
	"context"
	"errors"

	"vibesync/model"
)

// 目录服务错误，调用方通过 errors.Is 区分"歌不存在"和"上游不可用"
var (
	ErrSongNotFound = errors.New("song not found in catalog")
	ErrUnavailable  = errors.New("catalog service unavailable")
)

// Resolver 外部音乐目录服务的抽象。
// 核心只依赖这个接口，真实实现是HTTP客户端，测试里用假实现。
type Resolver interface {
	// Resolve 解析歌曲ID，返回时长、展示信息和播放地址
	Resolve(ctx context.Context, songID string) (*model.SongDetail, error)
	// Search 按关键词搜索歌曲
	Search(ctx context.Context, query string, limit int) ([]model.Song, error)
	// Suggestions 基于一首歌获取推荐
	Suggestions(ctx context.Context, songID string, limit int) ([]model.Song, error)
}
