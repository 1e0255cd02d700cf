package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	v1 "gradecalc/internal/api/v1"
	"gradecalc/internal/config"
	"gradecalc/internal/service/calculator"
	"gradecalc/internal/store"
)

// maxUploadMemory multipart 内存上限，超出部分写临时文件
const maxUploadMemory = 32 << 20

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	v1     *v1.Handler
	logger zerolog.Logger
	http   *http.Server

	allowedOrigins []string
}

// Deps 服务器依赖
type Deps struct {
	Store     *store.Store
	Engine    *calculator.Engine
	ExportDir string
	Version   string
	Logger    zerolog.Logger
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, deps Deps) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := deps.Logger.With().Str("component", "http").Logger()
	handler := v1.NewHandler(v1.Options{
		Store:  deps.Store,
		Engine: deps.Engine,
		Defaults: store.Settings{
			DefaultMode: cfg.DefaultMode(),
		},
		ExportDir: deps.ExportDir,
		Version:   deps.Version,
		Logger:    deps.Logger,
	})

	router := gin.New()
	router.MaxMultipartMemory = maxUploadMemory
	router.Use(RequestLogger(logger), Recovery(logger))

	s := &Server{
		router: router,
		store:  deps.Store,
		v1:     handler,
		logger: logger,

		allowedOrigins: cfg.Server.AllowedOrigins,
	}
	s.setupRoutes()
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	corsConfig := cors.DefaultConfig()
	if len(s.allowedOrigins) > 0 {
		corsConfig.AllowOrigins = s.allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	s.router.Use(cors.New(corsConfig))

	api := s.router.Group("/api")
	s.v1.RegisterRoutes(api)
	// 带版本前缀的别名
	s.v1.RegisterRoutes(s.router.Group("/api/v1"))

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "接口不存在"})
	})
}

// Handler 返回 http.Handler（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器，直到 ctx 结束后优雅关闭
func (s *Server) Run(ctx context.Context, addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info().Msg("shutting down")
	return s.http.Shutdown(shutdownCtx)
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
