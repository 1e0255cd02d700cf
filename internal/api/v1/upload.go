package v1

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"gradecalc/internal/model"
	"gradecalc/internal/service/excel"
)

var errMissingFile = errors.New("未找到上传文件")

// uploadedTable 上传工作簿中读取出的工作表
type uploadedTable struct {
	sheets      []string
	recognition []excel.SheetRecognition
	sheet       string
	table       model.Table
}

// readUploadedTable 读取 multipart 字段 file 中的工作簿；sheet 为空时自动识别成绩表
func readUploadedTable(c *gin.Context, sheet string) (*uploadedTable, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, errMissingFile
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer f.Close()

	r := excel.NewReader()
	if err := r.LoadFile(f); err != nil {
		return nil, fmt.Errorf("无法读取工作簿 %s: %w", fh.Filename, err)
	}
	defer r.Close()

	sheets, err := r.Sheets()
	if err != nil {
		return nil, err
	}
	recognition, err := r.RecognizeSheets()
	if err != nil {
		return nil, err
	}
	if sheet == "" {
		if sheet, err = excel.PickGradeSheet(recognition); err != nil {
			return nil, err
		}
	}
	table, err := r.ReadTable(sheet)
	if err != nil {
		return nil, err
	}
	return &uploadedTable{sheets: sheets, recognition: recognition, sheet: sheet, table: table}, nil
}
