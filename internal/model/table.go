package model

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// CellKind 单元格原始值类型
type CellKind int

const (
	CellAbsent CellKind = iota // 空值
	CellText                   // 文本
	CellNumber                 // 数值
)

// Cell 单元格原始值（文本、数值或空）
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell 文本单元格
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell 数值单元格
func NumberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// AbsentCell 空单元格
func AbsentCell() Cell {
	return Cell{Kind: CellAbsent}
}

// IsAbsent 是否为空
func (c Cell) IsAbsent() bool {
	return c.Kind == CellAbsent
}

// String 文本形式；数值不带多余的小数位，空值为 ""
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Float 解析为有限实数
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return 0, false
		}
		return c.Number, true
	case CellText:
		return ParseFloat(c.Text)
	default:
		return 0, false
	}
}

// ParseFloat 宽松解析实数：去除首尾空白，拒绝 NaN/Inf
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// RawRow 一条选课记录：列名 → 原始值
type RawRow map[string]Cell

// Get 取列值；列名为空或不存在时返回空值
func (r RawRow) Get(column string) Cell {
	if column == "" {
		return AbsentCell()
	}
	c, ok := r[column]
	if !ok {
		return AbsentCell()
	}
	return c
}

// Table 已解析的成绩表（列顺序 + 行）
type Table struct {
	Columns []string
	Rows    []RawRow
	// RowNumbers 每行在原工作表中的行号；为空时按表头在第 1 行推算
	RowNumbers []int
}

// RowNo 第 i 条数据行的原始行号
func (t Table) RowNo(i int) int {
	if len(t.RowNumbers) == len(t.Rows) {
		return t.RowNumbers[i]
	}
	return i + 2
}

// Values 某列去重后的非空文本值（升序）
func (t Table) Values(column string) []string {
	if column == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.Rows {
		v := strings.TrimSpace(row.Get(column).String())
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Preview 前 n 行的文本形式（按列顺序）
func (t Table) Preview(n int) [][]string {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := make([][]string, 0, n)
	for _, row := range t.Rows[:n] {
		line := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			line[i] = row.Get(col).String()
		}
		out = append(out, line)
	}
	return out
}
