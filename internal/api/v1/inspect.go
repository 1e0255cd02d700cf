package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gradecalc/internal/model"
	"gradecalc/internal/parser"
	"gradecalc/internal/service/excel"
)

// previewRows 预览行数
const previewRows = 5

// InspectResponse 成绩表识别结果
type InspectResponse struct {
	Sheets      []string                 `json:"sheets"`
	Recognition []excel.SheetRecognition `json:"recognition"`
	Sheet       string                   `json:"sheet"`
	Columns     []string                 `json:"columns"`
	Mapping     model.ColumnMapping      `json:"mapping"`
	Missing     []FieldInfo              `json:"missing"`
	Ready       bool                     `json:"ready"` // 必要字段是否齐全
	Terms       []string                 `json:"terms"`
	RowCount    int                      `json:"rowCount"`
	Preview     [][]string               `json:"preview"`
}

// Inspect 识别上传成绩表的列与学期
// POST /api/inspect
func (h *Handler) Inspect(c *gin.Context) {
	up, err := readUploadedTable(c, c.PostForm("sheet"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mapping, unresolved := parser.NewFieldMapper().Map(up.table.Columns)
	missing := parser.MissingRequired(unresolved)

	terms := []string{}
	if col, ok := mapping.Column(model.FieldTerm); ok {
		if v := up.table.Values(col); v != nil {
			terms = v
		}
	}

	c.JSON(http.StatusOK, InspectResponse{
		Sheets:      up.sheets,
		Recognition: up.recognition,
		Sheet:       up.sheet,
		Columns:     up.table.Columns,
		Mapping:     mapping,
		Missing:     fieldInfos(missing),
		Ready:       len(missing) == 0,
		Terms:       terms,
		RowCount:    len(up.table.Rows),
		Preview:     up.table.Preview(previewRows),
	})
}
