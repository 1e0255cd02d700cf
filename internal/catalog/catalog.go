package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gradecalc/internal/model"
)

// ErrUnknownMajor 专业代码不存在
var ErrUnknownMajor = errors.New("unknown major")

// Catalog 专业配置快照（构建后只读，可在多个计算间共享）
type Catalog struct {
	majors map[string]*model.MajorProfile
	order  []string
}

// New 校验并构建专业配置快照，保持传入顺序
func New(profiles []model.MajorProfile) (*Catalog, error) {
	c := &Catalog{
		majors: make(map[string]*model.MajorProfile, len(profiles)),
		order:  make([]string, 0, len(profiles)),
	}
	for _, p := range profiles {
		if err := Validate(p); err != nil {
			return nil, err
		}
		if _, dup := c.majors[p.Code]; dup {
			return nil, fmt.Errorf("duplicate major code: %s", p.Code)
		}
		c.majors[p.Code] = p.Freeze()
		c.order = append(c.order, p.Code)
	}
	return c, nil
}

// Get 按专业代码查找
func (c *Catalog) Get(code string) (*model.MajorProfile, error) {
	p, ok := c.majors[strings.TrimSpace(code)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMajor, code)
	}
	return p, nil
}

// List 全部专业（构建顺序）
func (c *Catalog) List() []*model.MajorProfile {
	out := make([]*model.MajorProfile, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.majors[code])
	}
	return out
}

// Codes 全部专业代码
func (c *Catalog) Codes() []string {
	return append([]string(nil), c.order...)
}

// Len 专业数量
func (c *Catalog) Len() int {
	return len(c.order)
}

// Validate 校验单个专业配置
func Validate(p model.MajorProfile) error {
	if strings.TrimSpace(p.Code) == "" {
		return errors.New("major code is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("major %s: name is required", p.Code)
	}

	seen := make(map[string]bool, len(p.Taxonomy))
	for _, t := range p.Taxonomy {
		name := strings.TrimSpace(t.Category)
		if name == "" {
			return fmt.Errorf("major %s: empty category name", p.Code)
		}
		if name == model.CategoryRequired {
			return fmt.Errorf("major %s: category name %q is reserved", p.Code, name)
		}
		if seen[name] {
			return fmt.Errorf("major %s: duplicate category %q", p.Code, name)
		}
		seen[name] = true
	}

	if p.HasCohortSplit {
		for c := range p.CohortRequirements {
			if c != model.CohortElite && c != model.CohortOrdinary {
				return fmt.Errorf("major %s: unknown cohort %q", p.Code, c)
			}
		}
		for _, c := range model.Cohorts {
			req, ok := p.CohortRequirements[c]
			if !ok {
				return fmt.Errorf("major %s: missing %s requirements", p.Code, c)
			}
			if err := validateRequirements(p.Code, req); err != nil {
				return err
			}
		}
		return nil
	}
	return validateRequirements(p.Code, p.Requirements)
}

func validateRequirements(code string, req map[string]float64) error {
	for category, v := range req {
		if strings.TrimSpace(category) == "" {
			return fmt.Errorf("major %s: empty requirement category", code)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("major %s: requirement for %q is not a finite number", code, category)
		}
	}
	return nil
}
