package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"vibesync/core/catalog"
	"vibesync/model"
)

// SearchHandler 歌曲搜索 HTTP 处理器
type SearchHandler struct {
	catalog catalog.Resolver
}

// NewSearchHandler 创建搜索处理器
func NewSearchHandler(resolver catalog.Resolver) *SearchHandler {
	return &SearchHandler{catalog: resolver}
}

// SearchSongsHandler 按关键词搜索歌曲
func (h *SearchHandler) SearchSongsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if !requireFields(w, map[string]string{"query": query}) {
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	results, err := h.catalog.Search(r.Context(), query, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SearchSongsResponse{
		Success: true,
		Query:   query,
		Results: results,
		Total:   len(results),
	})
}

// SongDetailHandler 获取歌曲详情
func (h *SearchHandler) SongDetailHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalog.Resolve(r.Context(), mux.Vars(r)["songId"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// SongSuggestionsHandler 获取歌曲推荐
func (h *SearchHandler) SongSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	suggestions, err := h.catalog.Suggestions(r.Context(), mux.Vars(r)["songId"], limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.APIResponse{
		Success: true,
		Data:    suggestions,
	})
}
