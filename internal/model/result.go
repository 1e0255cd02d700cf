package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Mode 计算模式
type Mode string

const (
	ModeCapped   Mode = "capped"   // 保研模式：选修课择优折算
	ModeUncapped Mode = "uncapped" // 综测模式：全部课程计入
)

// Label 中文名
func (m Mode) Label() string {
	switch m {
	case ModeCapped:
		return "保研"
	case ModeUncapped:
		return "综测"
	default:
		return string(m)
	}
}

// ParseMode 解析计算模式，兼容中文写法
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "capped", "保研", "保研模式":
		return ModeCapped, nil
	case "uncapped", "综测", "综测模式":
		return ModeUncapped, nil
	}
	return "", fmt.Errorf("unknown mode: %q", s)
}

// StudentSummary 学生成绩汇总
type StudentSummary struct {
	StudentID     string  `json:"studentId"`
	Name          string  `json:"name"`
	Cohort        Cohort  `json:"cohort"`
	WeightedAvg   float64 `json:"weightedAvg"`
	TotalCredit   float64 `json:"totalCredit"`
	CourseCount   int     `json:"courseCount"`
	GlobalRank    int     `json:"globalRank"`
	CohortRank    int     `json:"cohortRank"`
	firstSeenSlot int
}

// Slot 学号在表中首次出现的顺序（并列排序用）
func (s StudentSummary) Slot() int {
	return s.firstSeenSlot
}

// WithSlot 设置首次出现顺序
func (s StudentSummary) WithSlot(slot int) StudentSummary {
	s.firstSeenSlot = slot
	return s
}

// DecisionKind 选修课折算结果
type DecisionKind string

const (
	DecisionIncluded DecisionKind = "included" // 全额计入
	DecisionPartial  DecisionKind = "partial"  // 截断学分计入
	DecisionExcluded DecisionKind = "excluded" // 不计入
)

// Label 中文名
func (k DecisionKind) Label() string {
	switch k {
	case DecisionIncluded:
		return "全额计入"
	case DecisionPartial:
		return "部分计入"
	case DecisionExcluded:
		return "不计入"
	default:
		return string(k)
	}
}

// SelectionDecision 保研模式下单条选修课的折算结果
type SelectionDecision struct {
	StudentID      string       `json:"studentId"`
	Category       string       `json:"category"`
	Required       float64      `json:"required"`
	RowNo          int          `json:"rowNo"`
	CourseID       string       `json:"courseId"`
	CourseName     string       `json:"courseName"`
	Score          float64      `json:"score"`
	OriginalCredit float64      `json:"originalCredit"`
	CountedCredit  float64      `json:"countedCredit"`
	Kind           DecisionKind `json:"kind"`
}

// WarningKind 警告类型
type WarningKind string

const (
	WarningAmbiguousDuplicate WarningKind = "ambiguous_duplicate" // 同一课程多次非补考记录
	WarningTermFilterIgnored  WarningKind = "term_filter_ignored" // 未识别学期列，学期筛选无效
)

// Warning 计算过程中的非致命提示
type Warning struct {
	Kind      WarningKind `json:"kind"`
	StudentID string      `json:"studentId,omitempty"`
	CourseID  string      `json:"courseId,omitempty"`
	Rows      []int       `json:"rows,omitempty"`
	Message   string      `json:"message"`
}

// ScoreStats 平均成绩统计
type ScoreStats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Max   float64 `json:"max"`
	Min   float64 `json:"min"`
}

// RunStats 计算过程统计
type RunStats struct {
	RowsRead          int                   `json:"rowsRead"`
	RowsNoStudentID   int                   `json:"rowsNoStudentId"`
	RowsTermFiltered  int                   `json:"rowsTermFiltered"`
	RowsInvalid       int                   `json:"rowsInvalid"`
	DuplicatesDropped int                   `json:"duplicatesDropped"`
	StudentsSeen      int                   `json:"studentsSeen"`
	StudentsEmpty     int                   `json:"studentsEmpty"`
	Overall           ScoreStats            `json:"overall"`
	ByCohort          map[Cohort]ScoreStats `json:"byCohort"`
}

// Result 一次计算的完整产出
type Result struct {
	RunID      string              `json:"runId"`
	MajorCode  string              `json:"majorCode"`
	MajorName  string              `json:"majorName"`
	Mode       Mode                `json:"mode"`
	Terms      []string            `json:"terms,omitempty"`
	Mapping    ColumnMapping       `json:"mapping"`
	Summaries  []StudentSummary    `json:"summaries"`
	Trace      []SelectionDecision `json:"trace,omitempty"`
	Warnings   []Warning           `json:"warnings,omitempty"`
	Stats      RunStats            `json:"stats"`
	ComputedAt time.Time           `json:"computedAt"`
	Split      bool                `json:"hasCohortSplit"`
}

// ErrNoResults 没有任何学生产生有效结果
var ErrNoResults = errors.New("no computable results")

// SchemaError 必要字段无法识别
type SchemaError struct {
	Missing []Field
}

func (e *SchemaError) Error() string {
	labels := make([]string, 0, len(e.Missing))
	for _, f := range e.Missing {
		labels = append(labels, f.Label())
	}
	return fmt.Sprintf("无法识别必要字段: %s", strings.Join(labels, ", "))
}
