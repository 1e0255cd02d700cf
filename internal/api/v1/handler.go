package v1

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"gradecalc/internal/catalog"
	"gradecalc/internal/model"
	"gradecalc/internal/service/calculator"
	"gradecalc/internal/store"
	"gradecalc/internal/validator"
)

// Options 处理器依赖
type Options struct {
	Store     *store.Store
	Engine    *calculator.Engine
	Defaults  store.Settings // 未持久化时的界面默认值（来自配置文件）
	ExportDir string         // 导出文件暂存目录；为空时使用系统临时目录
	Version   string
	Logger    zerolog.Logger
}

// Handler V1 API 处理器
type Handler struct {
	store     *store.Store
	engine    *calculator.Engine
	defaults  store.Settings
	exportDir string
	version   string
	logger    zerolog.Logger
	downloads *exportDownloadStore
}

// NewHandler 创建 V1 API 处理器
func NewHandler(opts Options) *Handler {
	validator.Setup()

	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = os.TempDir()
	}
	return &Handler{
		store:     opts.Store,
		engine:    opts.Engine,
		defaults:  opts.Defaults,
		exportDir: exportDir,
		version:   opts.Version,
		logger:    opts.Logger.With().Str("component", "api").Logger(),
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 专业配置
	router.GET("/majors", h.ListMajors)
	router.GET("/majors/:code", h.GetMajor)
	router.PUT("/majors/:code", h.SaveMajor)
	router.DELETE("/majors/:code", h.DeleteMajor)

	// 界面默认值
	router.GET("/settings", h.GetSettings)
	router.PATCH("/settings", h.UpdateSettings)

	// 成绩表识别与计算
	router.POST("/inspect", h.Inspect)
	router.POST("/calculate", h.Calculate)

	// 结果下载
	router.GET("/export/download/:token", h.DownloadExport)
}

// FieldInfo 规范字段及中文名
type FieldInfo struct {
	Field model.Field `json:"field"`
	Label string      `json:"label"`
}

func fieldInfos(fields []model.Field) []FieldInfo {
	out := make([]FieldInfo, 0, len(fields))
	for _, f := range fields {
		out = append(out, FieldInfo{Field: f, Label: f.Label()})
	}
	return out
}

// writeError 将领域错误映射为 HTTP 状态码
func (h *Handler) writeError(c *gin.Context, err error) {
	var schemaErr *model.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   schemaErr.Error(),
			"missing": fieldInfos(schemaErr.Missing),
		})
	case errors.Is(err, catalog.ErrUnknownMajor), errors.Is(err, store.ErrMajorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "专业不存在", "detail": err.Error()})
	case errors.Is(err, model.ErrNoResults):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "没有可计算的学生成绩"})
	default:
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
	}
}
