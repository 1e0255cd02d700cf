package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gradecalc/internal/model"
	"gradecalc/internal/store"
	"gradecalc/internal/validator"
)

// UpdateSettingsRequest 更新界面默认值（空字段保持不变）
type UpdateSettingsRequest struct {
	DefaultMajor string `json:"defaultMajor"`
	DefaultMode  string `json:"defaultMode" binding:"omitempty,mode"`
}

// GetSettings 获取界面默认值
// GET /api/settings
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.store.GetSettings(h.defaults)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings 更新界面默认值
// PATCH /api/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if errs := validator.Bind(c, &req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误", "fields": errs})
		return
	}

	update := store.Settings{DefaultMajor: strings.TrimSpace(req.DefaultMajor)}
	if update.DefaultMajor != "" {
		if _, err := h.store.GetMajor(update.DefaultMajor); err != nil {
			h.writeError(c, err)
			return
		}
	}
	if req.DefaultMode != "" {
		mode, err := model.ParseMode(req.DefaultMode)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		update.DefaultMode = mode
	}

	if err := h.store.SaveSettings(update); err != nil {
		h.writeError(c, err)
		return
	}
	h.GetSettings(c)
}
