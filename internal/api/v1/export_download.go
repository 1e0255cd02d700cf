package v1

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"gradecalc/internal/model"
)

// DownloadExport 下载计算结果工作簿（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 token"})
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}
	defer os.Remove(item.filePath)

	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Disposition", buildExportContentDisposition(item.fileName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(item.filePath)
}

// exportFileName 导出文件展示名，如 23勘工_保研_成绩排名.xlsx
func exportFileName(result *model.Result) string {
	return fmt.Sprintf("%s_%s_成绩排名.xlsx", result.MajorName, result.Mode.Label())
}

// buildExportContentDisposition ASCII 文件名兜底，filename* 携带中文名
func buildExportContentDisposition(fileName string) string {
	fallback := "gradecalc-export.xlsx"
	if isASCII(fileName) && fileName != "" {
		fallback = strings.ReplaceAll(fileName, `"`, "")
	}
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", fallback, url.PathEscape(fileName))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
