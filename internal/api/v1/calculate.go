package v1

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gradecalc/internal/model"
	"gradecalc/internal/service/calculator"
	"gradecalc/internal/service/excel"
	"gradecalc/internal/validator"
)

// downloadTTL 导出文件下载有效期
const downloadTTL = 10 * time.Minute

// CalculateRequest 计算请求（multipart 表单，文件字段为 file）
type CalculateRequest struct {
	Major string   `form:"major" binding:"required"`
	Mode  string   `form:"mode" binding:"omitempty,mode"`
	Terms []string `form:"terms"`
	Sheet string   `form:"sheet"`
}

// CalculateResponse 计算结果与导出下载地址
type CalculateResponse struct {
	Result      *model.Result `json:"result"`
	DownloadURL string        `json:"downloadUrl"`
}

// Calculate 上传成绩表并计算排名
// POST /api/calculate
func (h *Handler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if errs := validator.BindForm(c, &req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误", "fields": errs})
		return
	}

	// 本次计算使用的专业配置快照
	cat, err := h.store.LoadCatalog()
	if err != nil {
		h.writeError(c, err)
		return
	}
	major, err := cat.Get(req.Major)
	if err != nil {
		h.writeError(c, err)
		return
	}

	mode, err := h.resolveMode(req.Mode)
	if err != nil {
		h.writeError(c, err)
		return
	}

	up, err := readUploadedTable(c, strings.TrimSpace(req.Sheet))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.engine.Calculate(c.Request.Context(), calculator.Input{
		Table: up.table,
		Major: major,
		Mode:  mode,
		Terms: splitTerms(req.Terms),
	})
	if err != nil {
		if errors.Is(err, model.ErrNoResults) && result != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":    "没有可计算的学生成绩",
				"stats":    result.Stats,
				"warnings": result.Warnings,
			})
			return
		}
		h.writeError(c, err)
		return
	}

	downloadURL, err := h.saveExport(c, result)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, CalculateResponse{
		Result:      result,
		DownloadURL: downloadURL,
	})
}

// resolveMode 未指定模式时使用界面默认值
func (h *Handler) resolveMode(raw string) (model.Mode, error) {
	if strings.TrimSpace(raw) != "" {
		return model.ParseMode(raw)
	}
	settings, err := h.store.GetSettings(h.defaults)
	if err != nil {
		return "", err
	}
	if settings.DefaultMode == "" {
		return model.ModeCapped, nil
	}
	return settings.DefaultMode, nil
}

// saveExport 生成结果工作簿并登记一次性下载
func (h *Handler) saveExport(c *gin.Context, result *model.Result) (string, error) {
	log := h.logger.With().Str("run_id", result.RunID).Logger()
	exp := excel.NewExporter().WithProgress(func(ev excel.ProgressEvent) {
		log.Debug().Int("percent", ev.Percent).Str("stage", ev.Stage).Msg("export progress")
	})

	file, err := exp.Export(result)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	defer file.Close()

	if err := os.MkdirAll(h.exportDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(h.exportDir, fmt.Sprintf("gradecalc_export_%s.xlsx", result.RunID))
	if err := file.SaveAs(path); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("save export: %w", err)
	}

	token := h.downloads.put(path, exportFileName(result), downloadTTL)
	prefix := "/api"
	if strings.HasPrefix(c.Request.URL.Path, "/api/v1/") {
		prefix = "/api/v1"
	}
	return fmt.Sprintf("%s/export/download/%s", prefix, token), nil
}

// splitTerms 兼容重复字段与逗号分隔两种写法
func splitTerms(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, t := range strings.Split(item, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
