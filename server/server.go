package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"vibesync/config"
	"vibesync/core/catalog"
	"vibesync/core/rooms"
	"vibesync/core/secure"
	"vibesync/logger"
	"vibesync/model"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogOutputPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	})

	// 设置服务器超时
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 注册表在接受请求前同步创建默认社区房间
	registry := rooms.NewRegistry(rooms.SettingsFromConfig(cfg))

	catalogClient := catalog.NewClient(cfg.CatalogAPIBaseURL,
		time.Duration(cfg.CatalogTimeoutSec)*time.Second)

	// 响应加密是可选能力，key缺失或不合法时明文返回
	var cipher *secure.Cipher
	if cfg.EncryptionKey != "" {
		var err error
		cipher, err = secure.NewCipher(cfg.EncryptionKey)
		if err != nil {
			logger.Warn("加密密钥不合法，响应加密已禁用", logger.ErrorField(err))
		}
	}

	router := newRouter(registry, catalogClient, cipher)
	server.Handler = router

	// 创建一个通道来接收操作系统信号
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 在goroutine中启动服务器
	go func() {
		logger.Info("VibeSync服务器启动",
			logger.String("addr", server.Addr),
			logger.String("catalogAPI", cfg.CatalogAPIBaseURL),
			logger.Bool("encryption", cipher != nil))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("服务器启动失败", logger.ErrorField(err))
		}
	}()

	// 等待中断信号
	<-stop
	logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("服务器强制关闭", logger.ErrorField(err))
	}

	logger.Info("服务器已停止")
}

// newRouter 装配所有路由和中间件
func newRouter(registry *rooms.Registry, resolver catalog.Resolver, cipher *secure.Cipher) *mux.Router {
	roomHandler := NewRoomHandler(registry, resolver)
	searchHandler := NewSearchHandler(resolver)

	// 使用 gorilla/mux 创建路由器
	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(encryptionMiddleware(cipher))

	// 房间相关的API端点
	router.HandleFunc("/rooms/create", roomHandler.CreateRoomHandler).Methods(http.MethodPost)
	router.HandleFunc("/rooms/{code}", roomHandler.GetRoomStateHandler).Methods(http.MethodGet)
	router.HandleFunc("/rooms/{code}", roomHandler.DeleteRoomHandler).Methods(http.MethodDelete)
	router.HandleFunc("/rooms/{code}/queue/add", roomHandler.AddSongHandler).Methods(http.MethodPost)
	router.HandleFunc("/rooms/{code}/queue/{queueId}", roomHandler.RemoveSongHandler).Methods(http.MethodDelete)
	router.HandleFunc("/rooms/{code}/sync", roomHandler.SyncHandler).Methods(http.MethodGet)
	router.HandleFunc("/rooms/{code}/skip", roomHandler.SkipHandler).Methods(http.MethodPost)
	router.HandleFunc("/rooms/{code}/pause", roomHandler.PauseHandler).Methods(http.MethodPost)
	router.HandleFunc("/rooms/{code}/join", roomHandler.JoinRoomHandler).Methods(http.MethodPost)
	router.HandleFunc("/rooms/{code}/leave", roomHandler.LeaveRoomHandler).Methods(http.MethodPost)
	router.HandleFunc("/rooms/{code}/suggestions", roomHandler.RoomSuggestionsHandler).Methods(http.MethodGet)

	// 搜索相关的API端点
	router.HandleFunc("/search/songs", searchHandler.SearchSongsHandler).Methods(http.MethodGet)
	router.HandleFunc("/search/songs/{songId}", searchHandler.SongDetailHandler).Methods(http.MethodGet)
	router.HandleFunc("/search/songs/{songId}/suggestions", searchHandler.SongSuggestionsHandler).Methods(http.MethodGet)

	// 健康检查与统计
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"name":    "VibeSync",
			"status":  "running",
			"version": "1.0.0",
		})
	}).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "VibeSync",
		})
	}).Methods(http.MethodGet)
	router.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, model.APIResponse{
			Success: true,
			Data: map[string]interface{}{
				"activeRooms": registry.Count(),
				"roomCodes":   registry.Codes(),
			},
		})
	}).Methods(http.MethodGet)

	return router
}
