package excel

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"gradecalc/internal/model"
	"gradecalc/internal/parser"
)

// Reader 成绩表读取器
type Reader struct {
	file   *excelize.File
	fileID string
}

// NewReader 创建读取器
func NewReader() *Reader {
	return &Reader{
		fileID: uuid.New().String(),
	}
}

// OpenFile 从路径打开工作簿
func OpenFile(path string) (*Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	r := NewReader()
	r.file = f
	return r, nil
}

// LoadFile 加载Excel文件
func (r *Reader) LoadFile(reader io.Reader) error {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return fmt.Errorf("failed to open excel: %w", err)
	}
	r.file = file
	return nil
}

// Close 释放工作簿
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// GetFileID 获取文件ID
func (r *Reader) GetFileID() string {
	return r.fileID
}

// Sheets 工作表列表
func (r *Reader) Sheets() ([]string, error) {
	if r.file == nil {
		return nil, errors.New("no file loaded")
	}
	return r.file.GetSheetList(), nil
}

// ReadTable 读取工作表为成绩表；sheet 为空时读取第一个工作表
//
// 第一个非空行作为表头；空表头列忽略，重名列追加序号；全空的数据行跳过。
func (r *Reader) ReadTable(sheet string) (model.Table, error) {
	if r.file == nil {
		return model.Table{}, errors.New("no file loaded")
	}
	if sheet == "" {
		sheets := r.file.GetSheetList()
		if len(sheets) == 0 {
			return model.Table{}, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := r.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return model.Table{}, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	headerIdx := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return model.Table{}, fmt.Errorf("sheet %s: empty sheet", sheet)
	}

	columns, positions := buildHeader(rows[headerIdx])
	table := model.Table{Columns: columns}
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		raw := make(model.RawRow, len(columns))
		for j, col := range columns {
			pos := positions[j]
			if pos >= len(row) {
				continue
			}
			cell := cellFromRaw(row[pos])
			if !cell.IsAbsent() {
				raw[col] = cell
			}
		}
		table.Rows = append(table.Rows, raw)
		table.RowNumbers = append(table.RowNumbers, i+1)
	}
	return table, nil
}

// buildHeader 规范化表头，返回列名与其在原始行中的位置
func buildHeader(header []string) ([]string, []int) {
	columns := make([]string, 0, len(header))
	positions := make([]int, 0, len(header))
	seen := make(map[string]int)
	for i, h := range header {
		name := parser.NormalizeColumnName(h)
		if name == "" {
			continue
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s(%d)", name, n)
		}
		columns = append(columns, name)
		positions = append(positions, i)
	}
	return columns, positions
}

// cellFromRaw 原始单元格文本 → 单元格值
//
// 可解析为实数的视为数值；带前导零的整数（如 "0123"）保留为文本。
func cellFromRaw(s string) model.Cell {
	if strings.TrimSpace(s) == "" {
		return model.AbsentCell()
	}
	if hasLeadingZero(s) {
		return model.TextCell(s)
	}
	if f, ok := model.ParseFloat(s); ok && s == strings.TrimSpace(s) {
		return model.NumberCell(f)
	}
	return model.TextCell(s)
}

func hasLeadingZero(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return len(s) > 1 && s[0] == '0' && s[1] != '.'
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
