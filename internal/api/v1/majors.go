package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gradecalc/internal/catalog"
	"gradecalc/internal/model"
	"gradecalc/internal/validator"
)

// TaxonomyEntry 选修课类别请求项
type TaxonomyEntry struct {
	Category string   `json:"category" binding:"required"`
	Keywords []string `json:"keywords" binding:"required,min=1,dive,required"`
}

// MajorRequest 新增或更新专业配置
type MajorRequest struct {
	Name               string                              `json:"name" binding:"required"`
	HasCohortSplit     bool                                `json:"hasCohortSplit"`
	EliteStudentIDs    []string                            `json:"eliteStudentIds" binding:"omitempty,dive,required"`
	Requirements       map[string]float64                  `json:"requirements" binding:"omitempty,dive,gte=0"`
	CohortRequirements map[model.Cohort]map[string]float64 `json:"cohortRequirements"`
	Taxonomy           []TaxonomyEntry                     `json:"taxonomy" binding:"dive"`
}

func (r MajorRequest) profile(code string) model.MajorProfile {
	p := model.MajorProfile{
		Code:               code,
		Name:               strings.TrimSpace(r.Name),
		HasCohortSplit:     r.HasCohortSplit,
		Requirements:       r.Requirements,
		CohortRequirements: r.CohortRequirements,
		Taxonomy:           make([]model.CategoryKeywords, 0, len(r.Taxonomy)),
	}
	for _, id := range r.EliteStudentIDs {
		if id = strings.TrimSpace(id); id != "" {
			p.EliteStudentIDs = append(p.EliteStudentIDs, id)
		}
	}
	for _, t := range r.Taxonomy {
		p.Taxonomy = append(p.Taxonomy, model.CategoryKeywords{
			Category: strings.TrimSpace(t.Category),
			Keywords: t.Keywords,
		})
	}
	return p
}

// ListMajors 专业列表
// GET /api/majors
func (h *Handler) ListMajors(c *gin.Context) {
	majors, err := h.store.ListMajors()
	if err != nil {
		h.writeError(c, err)
		return
	}
	if majors == nil {
		majors = []model.MajorProfile{}
	}
	c.JSON(http.StatusOK, gin.H{"items": majors, "total": len(majors)})
}

// GetMajor 专业详情
// GET /api/majors/:code
func (h *Handler) GetMajor(c *gin.Context) {
	p, err := h.store.GetMajor(c.Param("code"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// SaveMajor 新增或覆盖专业配置；已开始的计算使用各自的快照，不受影响
// PUT /api/majors/:code
func (h *Handler) SaveMajor(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少专业代码"})
		return
	}

	var req MajorRequest
	if errs := validator.Bind(c, &req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误", "fields": errs})
		return
	}

	p := req.profile(code)
	if err := catalog.Validate(p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.SaveMajor(p); err != nil {
		h.writeError(c, err)
		return
	}

	saved, err := h.store.GetMajor(code)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Info().Str("major", code).Msg("major saved")
	c.JSON(http.StatusOK, saved)
}

// DeleteMajor 删除专业配置
// DELETE /api/majors/:code
func (h *Handler) DeleteMajor(c *gin.Context) {
	code := c.Param("code")
	if err := h.store.DeleteMajor(code); err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Info().Str("major", code).Msg("major deleted")
	c.JSON(http.StatusOK, gin.H{"message": "专业已删除"})
}
