package calculator

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gradecalc/internal/model"
	"gradecalc/internal/parser"
)

// Config 计算引擎参数
type Config struct {
	Workers           int // 并发学生数；<=0 时取 GOMAXPROCS
	SignificantDigits int // 有效数字位数；<=0 时取 5
}

// Engine 成绩计算引擎
type Engine struct {
	mapper *parser.FieldMapper
	cfg    Config
	logger zerolog.Logger
	now    func() time.Time
}

// NewEngine 创建计算引擎
func NewEngine(cfg Config, logger zerolog.Logger) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.SignificantDigits <= 0 {
		cfg.SignificantDigits = DefaultSignificantDigits
	}
	return &Engine{
		mapper: parser.NewFieldMapper(),
		cfg:    cfg,
		logger: logger.With().Str("component", "calculator").Logger(),
		now:    time.Now,
	}
}

// Input 一次计算的输入
type Input struct {
	Table   model.Table
	Mapping model.ColumnMapping // 为空时按列名自动识别
	Major   *model.MajorProfile
	Mode    model.Mode
	Terms   []string // 学年学期筛选；为空表示全部
}

// studentGroup 同一学号的原始行（表中顺序）
type studentGroup struct {
	slot   int
	id     string
	rows   []model.RawRow
	rowNos []int
}

// studentOutcome 单个学生的计算结果
type studentOutcome struct {
	summary    *model.StudentSummary
	trace      []model.SelectionDecision
	warnings   []model.Warning
	invalid    int
	duplicates int
}

// Calculate 执行一次完整计算
//
// 必要字段缺失时返回 *model.SchemaError 且不处理任何行；没有任何学生产生结果时
// 返回结果与 model.ErrNoResults。
func (e *Engine) Calculate(ctx context.Context, in Input) (*model.Result, error) {
	if in.Major == nil {
		return nil, errors.New("major profile is required")
	}
	if in.Mode != model.ModeCapped && in.Mode != model.ModeUncapped {
		return nil, fmt.Errorf("unknown mode: %q", in.Mode)
	}

	mapping := in.Mapping
	if mapping == nil {
		m, err := e.mapper.Resolve(in.Table.Columns)
		if err != nil {
			return nil, err
		}
		mapping = m
	} else {
		var missing []model.Field
		for _, f := range model.RequiredFields {
			if !mapping.Has(f) {
				missing = append(missing, f)
			}
		}
		if len(missing) > 0 {
			return nil, &model.SchemaError{Missing: missing}
		}
	}

	started := e.now()
	result := &model.Result{
		RunID:      uuid.NewString(),
		MajorCode:  in.Major.Code,
		MajorName:  in.Major.Name,
		Mode:       in.Mode,
		Terms:      normalizeTerms(in.Terms),
		Mapping:    mapping,
		ComputedAt: started,
		Split:      in.Major.HasCohortSplit,
		Summaries:  []model.StudentSummary{},
	}
	log := e.logger.With().Str("run_id", result.RunID).Str("major", in.Major.Code).Str("mode", string(in.Mode)).Logger()

	builder := newRecordBuilder(mapping)
	termFilter, warning := buildTermFilter(mapping, result.Terms)
	if warning != nil {
		result.Warnings = append(result.Warnings, *warning)
		log.Warn().Strs("terms", result.Terms).Msg("term column not found, term filter ignored")
	}

	stats := &result.Stats
	stats.RowsRead = len(in.Table.Rows)
	groups := groupByStudent(in.Table, builder, termFilter, stats)
	stats.StudentsSeen = len(groups)

	outcomes, err := runIndexed(ctx, e.cfg.Workers, groups, func(ctx context.Context, g *studentGroup) (studentOutcome, error) {
		return e.processStudent(g, builder, in.Major, in.Mode), nil
	})
	if err != nil {
		return nil, fmt.Errorf("calculate: %w", err)
	}

	summaries := make([]model.StudentSummary, 0, len(outcomes))
	for _, o := range outcomes {
		stats.RowsInvalid += o.invalid
		stats.DuplicatesDropped += o.duplicates
		result.Warnings = append(result.Warnings, o.warnings...)
		result.Trace = append(result.Trace, o.trace...)
		if o.summary == nil {
			stats.StudentsEmpty++
			continue
		}
		summaries = append(summaries, *o.summary)
	}

	result.Summaries = Rank(summaries)
	fillScoreStats(stats, result.Summaries)

	log.Info().
		Int("rows", stats.RowsRead).
		Int("students", len(result.Summaries)).
		Int("invalid_rows", stats.RowsInvalid).
		Int("duplicates_dropped", stats.DuplicatesDropped).
		Int("warnings", len(result.Warnings)).
		Dur("elapsed", e.now().Sub(started)).
		Msg("calculation finished")

	if len(result.Summaries) == 0 {
		return result, model.ErrNoResults
	}
	return result, nil
}

// buildTermFilter 返回学期筛选集合；未识别学期列时筛选无效并给出提示
func buildTermFilter(mapping model.ColumnMapping, terms []string) (map[string]bool, *model.Warning) {
	if len(terms) == 0 {
		return nil, nil
	}
	if !mapping.Has(model.FieldTerm) {
		return nil, &model.Warning{
			Kind:    model.WarningTermFilterIgnored,
			Message: "未识别到学年学期列，学期筛选未生效",
		}
	}
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		set[t] = true
	}
	return set, nil
}

// groupByStudent 按学号分组（首次出现顺序），丢弃无学号及不在学期范围内的行
func groupByStudent(table model.Table, b recordBuilder, terms map[string]bool, stats *model.RunStats) []*studentGroup {
	index := make(map[string]*studentGroup)
	var groups []*studentGroup
	for i, row := range table.Rows {
		id := b.studentID(row)
		if id == "" {
			stats.RowsNoStudentID++
			continue
		}
		if terms != nil && !terms[b.term(row)] {
			stats.RowsTermFiltered++
			continue
		}
		g, ok := index[id]
		if !ok {
			g = &studentGroup{slot: len(groups), id: id}
			index[id] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, row)
		g.rowNos = append(g.rowNos, table.RowNo(i))
	}
	return groups
}

// processStudent 单个学生：归一化 → 去重 → 分类 → 折算 → 汇总
func (e *Engine) processStudent(g *studentGroup, b recordBuilder, major *model.MajorProfile, mode model.Mode) studentOutcome {
	var out studentOutcome

	records := make([]model.NormalizedRecord, 0, len(g.rows))
	name := ""
	for i, row := range g.rows {
		if name == "" {
			name = b.text(row, model.FieldName)
		}
		rec, outcome := b.build(row, g.rowNos[i])
		if outcome != rowOK {
			out.invalid++
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return out
	}

	if b.hasCourseIdentity() {
		var dropped int
		records, dropped, out.warnings = ResolveDuplicates(records)
		out.duplicates = dropped
	}

	records = classifyAll(records, major.Taxonomy)
	cohort := major.CohortOf(g.id)

	if mode == model.ModeCapped {
		records, out.trace = SelectElectives(records, major.RequirementsFor(cohort))
	}

	avg, credit, count, ok := Aggregate(records, e.cfg.SignificantDigits)
	if !ok {
		return out
	}
	s := model.StudentSummary{
		StudentID:   g.id,
		Name:        name,
		Cohort:      cohort,
		WeightedAvg: avg,
		TotalCredit: credit,
		CourseCount: count,
	}.WithSlot(g.slot)
	out.summary = &s
	return out
}

// fillScoreStats 平均成绩统计（保留两位小数）
func fillScoreStats(stats *model.RunStats, summaries []model.StudentSummary) {
	stats.Overall = scoreStats(summaries)
	stats.ByCohort = make(map[model.Cohort]model.ScoreStats)
	for _, c := range model.Cohorts {
		var sub []model.StudentSummary
		for _, s := range summaries {
			if s.Cohort == c {
				sub = append(sub, s)
			}
		}
		if len(sub) > 0 {
			stats.ByCohort[c] = scoreStats(sub)
		}
	}
}

func scoreStats(summaries []model.StudentSummary) model.ScoreStats {
	if len(summaries) == 0 {
		return model.ScoreStats{}
	}
	st := model.ScoreStats{
		Count: len(summaries),
		Max:   summaries[0].WeightedAvg,
		Min:   summaries[0].WeightedAvg,
	}
	sum := 0.0
	for _, s := range summaries {
		sum += s.WeightedAvg
		if s.WeightedAvg > st.Max {
			st.Max = s.WeightedAvg
		}
		if s.WeightedAvg < st.Min {
			st.Min = s.WeightedAvg
		}
	}
	st.Mean = roundDecimals(sum/float64(len(summaries)), 2)
	st.Max = roundDecimals(st.Max, 2)
	st.Min = roundDecimals(st.Min, 2)
	return st
}

// normalizeTerms 去除空白与重复，保持顺序
func normalizeTerms(terms []string) []string {
	var out []string
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
