package model

import "sort"

// Cohort 班级类型
type Cohort string

const (
	CohortElite    Cohort = "elite"    // 卓越
	CohortOrdinary Cohort = "ordinary" // 普通
)

// Cohorts 班级类型（展示顺序）
var Cohorts = []Cohort{CohortElite, CohortOrdinary}

// Label 中文名
func (c Cohort) Label() string {
	switch c {
	case CohortElite:
		return "卓越"
	case CohortOrdinary:
		return "普通"
	default:
		return string(c)
	}
}

// CategoryRequired 未匹配任何选修类别的课程
const CategoryRequired = "必修课程"

// CategoryKeywords 选修课类别及其关键词（按声明顺序匹配）
type CategoryKeywords struct {
	Category string   `toml:"category" json:"category"`
	Keywords []string `toml:"keywords" json:"keywords"`
}

// MajorProfile 专业配置
type MajorProfile struct {
	Code            string   `toml:"code" json:"code"`
	Name            string   `toml:"name" json:"name"`
	HasCohortSplit  bool     `toml:"has_cohort_split" json:"hasCohortSplit"`
	EliteStudentIDs []string `toml:"elite_student_ids,omitempty" json:"eliteStudentIds,omitempty"`

	// Requirements 统一学分要求（无卓越班时使用）
	Requirements map[string]float64 `toml:"requirements,omitempty" json:"requirements,omitempty"`
	// CohortRequirements 分班学分要求（有卓越班时使用）
	CohortRequirements map[Cohort]map[string]float64 `toml:"cohort_requirements,omitempty" json:"cohortRequirements,omitempty"`

	Taxonomy []CategoryKeywords `toml:"taxonomy" json:"taxonomy"`

	elite map[string]struct{}
}

// Freeze 深拷贝并建立学号索引；返回值在计算期间只读共享
func (p MajorProfile) Freeze() *MajorProfile {
	out := &MajorProfile{
		Code:           p.Code,
		Name:           p.Name,
		HasCohortSplit: p.HasCohortSplit,
	}

	out.EliteStudentIDs = append([]string(nil), p.EliteStudentIDs...)
	sort.Strings(out.EliteStudentIDs)
	out.elite = make(map[string]struct{}, len(out.EliteStudentIDs))
	for _, id := range out.EliteStudentIDs {
		out.elite[id] = struct{}{}
	}

	if p.Requirements != nil {
		out.Requirements = copyRequirements(p.Requirements)
	}
	if p.CohortRequirements != nil {
		out.CohortRequirements = make(map[Cohort]map[string]float64, len(p.CohortRequirements))
		for c, req := range p.CohortRequirements {
			out.CohortRequirements[c] = copyRequirements(req)
		}
	}

	out.Taxonomy = make([]CategoryKeywords, 0, len(p.Taxonomy))
	for _, t := range p.Taxonomy {
		out.Taxonomy = append(out.Taxonomy, CategoryKeywords{
			Category: t.Category,
			Keywords: append([]string(nil), t.Keywords...),
		})
	}

	return out
}

// CohortOf 学生所属班级类型
func (p *MajorProfile) CohortOf(studentID string) Cohort {
	if !p.HasCohortSplit {
		return CohortOrdinary
	}
	if p.elite == nil {
		for _, id := range p.EliteStudentIDs {
			if id == studentID {
				return CohortElite
			}
		}
		return CohortOrdinary
	}
	if _, ok := p.elite[studentID]; ok {
		return CohortElite
	}
	return CohortOrdinary
}

// RequirementsFor 班级类型对应的学分要求（类别 → 要求学分）
func (p *MajorProfile) RequirementsFor(c Cohort) map[string]float64 {
	if p.HasCohortSplit {
		return p.CohortRequirements[c]
	}
	return p.Requirements
}

// Categories 选修课类别（声明顺序）
func (p *MajorProfile) Categories() []string {
	out := make([]string, 0, len(p.Taxonomy))
	for _, t := range p.Taxonomy {
		out = append(out, t.Category)
	}
	return out
}

func copyRequirements(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
