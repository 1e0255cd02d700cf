package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gradecalc/internal/model"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Version      string     `json:"version"`
	MajorCount   int        `json:"majorCount"`
	DefaultMajor string     `json:"defaultMajor"`
	DefaultMode  model.Mode `json:"defaultMode"`
	Modes        []ModeInfo `json:"modes"`
}

// ModeInfo 计算模式及中文名
type ModeInfo struct {
	Mode  model.Mode `json:"mode"`
	Label string     `json:"label"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	count, err := h.store.CountMajors()
	if err != nil {
		h.writeError(c, err)
		return
	}
	settings, err := h.store.GetSettings(h.defaults)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Version:      h.version,
		MajorCount:   count,
		DefaultMajor: settings.DefaultMajor,
		DefaultMode:  settings.DefaultMode,
		Modes: []ModeInfo{
			{Mode: model.ModeCapped, Label: model.ModeCapped.Label()},
			{Mode: model.ModeUncapped, Label: model.ModeUncapped.Label()},
		},
	})
}
