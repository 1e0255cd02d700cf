package store

import (
	"database/sql"
	"errors"
	"fmt"

	"gradecalc/internal/catalog"
	"gradecalc/internal/model"
)

// ErrMajorNotFound 专业不存在
var ErrMajorNotFound = errors.New("major not found")

var majorChildTables = []string{
	"major_elite_students",
	"major_categories",
	"major_keywords",
	"major_requirements",
}

// SaveMajor 新增或覆盖专业配置（保留原有排序位置）
func (s *Store) SaveMajor(p model.MajorProfile) error {
	if err := catalog.Validate(p); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRow("SELECT position FROM majors WHERE code = ?", p.Code).Scan(&position)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := tx.QueryRow("SELECT COALESCE(MAX(position), -1) + 1 FROM majors").Scan(&position); err != nil {
			return fmt.Errorf("next position: %w", err)
		}
	case err != nil:
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO majors (code, name, has_cohort_split, position) VALUES (?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET name = excluded.name, has_cohort_split = excluded.has_cohort_split,
			updated_at = CURRENT_TIMESTAMP
	`, p.Code, p.Name, boolToInt(p.HasCohortSplit), position); err != nil {
		return fmt.Errorf("save major %s: %w", p.Code, err)
	}

	if err := deleteMajorChildren(tx, p.Code); err != nil {
		return err
	}

	for _, id := range p.EliteStudentIDs {
		if _, err := tx.Exec("INSERT OR IGNORE INTO major_elite_students (major_code, student_id) VALUES (?, ?)", p.Code, id); err != nil {
			return fmt.Errorf("save elite student: %w", err)
		}
	}

	for i, t := range p.Taxonomy {
		if _, err := tx.Exec("INSERT INTO major_categories (major_code, category, position) VALUES (?, ?, ?)", p.Code, t.Category, i); err != nil {
			return fmt.Errorf("save category: %w", err)
		}
		for j, kw := range t.Keywords {
			if _, err := tx.Exec("INSERT INTO major_keywords (major_code, category, keyword, position) VALUES (?, ?, ?, ?)", p.Code, t.Category, kw, j); err != nil {
				return fmt.Errorf("save keyword: %w", err)
			}
		}
	}

	insertReq := func(cohort string, req map[string]float64) error {
		for category, credit := range req {
			if _, err := tx.Exec("INSERT INTO major_requirements (major_code, cohort, category, credit) VALUES (?, ?, ?, ?)", p.Code, cohort, category, credit); err != nil {
				return fmt.Errorf("save requirement: %w", err)
			}
		}
		return nil
	}
	if p.HasCohortSplit {
		for c, req := range p.CohortRequirements {
			if err := insertReq(string(c), req); err != nil {
				return err
			}
		}
	} else if err := insertReq("", p.Requirements); err != nil {
		return err
	}

	return tx.Commit()
}

// GetMajor 按代码读取专业配置
func (s *Store) GetMajor(code string) (model.MajorProfile, error) {
	var p model.MajorProfile
	var split int
	err := s.db.QueryRow("SELECT code, name, has_cohort_split FROM majors WHERE code = ?", code).Scan(&p.Code, &p.Name, &split)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MajorProfile{}, fmt.Errorf("%w: %s", ErrMajorNotFound, code)
	}
	if err != nil {
		return model.MajorProfile{}, err
	}
	p.HasCohortSplit = split != 0

	if err := s.loadMajorDetails(&p); err != nil {
		return model.MajorProfile{}, err
	}
	return p, nil
}

// ListMajors 全部专业配置（按创建顺序）
func (s *Store) ListMajors() ([]model.MajorProfile, error) {
	rows, err := s.db.Query("SELECT code FROM majors ORDER BY position, code")
	if err != nil {
		return nil, err
	}
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			rows.Close()
			return nil, err
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	out := make([]model.MajorProfile, 0, len(codes))
	for _, code := range codes {
		p, err := s.GetMajor(code)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// DeleteMajor 删除专业配置
func (s *Store) DeleteMajor(code string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM majors WHERE code = ?", code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrMajorNotFound, code)
	}
	if err := deleteMajorChildren(tx, code); err != nil {
		return err
	}
	return tx.Commit()
}

// CountMajors 专业数量
func (s *Store) CountMajors() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM majors").Scan(&n)
	return n, err
}

// SeedMajorsIfEmpty 专业表为空时写入初始配置，返回是否写入
func (s *Store) SeedMajorsIfEmpty(profiles []model.MajorProfile) (bool, error) {
	n, err := s.CountMajors()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	for _, p := range profiles {
		if err := s.SaveMajor(p); err != nil {
			return false, fmt.Errorf("seed major %s: %w", p.Code, err)
		}
	}
	return true, nil
}

// LoadCatalog 读取当前专业配置并构建只读快照
func (s *Store) LoadCatalog() (*catalog.Catalog, error) {
	profiles, err := s.ListMajors()
	if err != nil {
		return nil, fmt.Errorf("list majors: %w", err)
	}
	return catalog.New(profiles)
}

func (s *Store) loadMajorDetails(p *model.MajorProfile) error {
	rows, err := s.db.Query("SELECT student_id FROM major_elite_students WHERE major_code = ? ORDER BY student_id", p.Code)
	if err != nil {
		return err
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		p.EliteStudentIDs = append(p.EliteStudentIDs, id)
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("load elite students: %w", err)
	}

	rows, err = s.db.Query("SELECT category FROM major_categories WHERE major_code = ? ORDER BY position", p.Code)
	if err != nil {
		return err
	}
	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			rows.Close()
			return err
		}
		categories = append(categories, c)
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	p.Taxonomy = make([]model.CategoryKeywords, 0, len(categories))
	for _, c := range categories {
		kwRows, err := s.db.Query("SELECT keyword FROM major_keywords WHERE major_code = ? AND category = ? ORDER BY position", p.Code, c)
		if err != nil {
			return err
		}
		entry := model.CategoryKeywords{Category: c, Keywords: []string{}}
		for kwRows.Next() {
			var kw string
			if err := kwRows.Scan(&kw); err != nil {
				kwRows.Close()
				return err
			}
			entry.Keywords = append(entry.Keywords, kw)
		}
		if err := closeRows(kwRows); err != nil {
			return fmt.Errorf("load keywords: %w", err)
		}
		p.Taxonomy = append(p.Taxonomy, entry)
	}

	rows, err = s.db.Query("SELECT cohort, category, credit FROM major_requirements WHERE major_code = ?", p.Code)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cohort, category string
		var credit float64
		if err := rows.Scan(&cohort, &category, &credit); err != nil {
			return err
		}
		if cohort == "" {
			if p.Requirements == nil {
				p.Requirements = make(map[string]float64)
			}
			p.Requirements[category] = credit
			continue
		}
		if p.CohortRequirements == nil {
			p.CohortRequirements = make(map[model.Cohort]map[string]float64)
		}
		c := model.Cohort(cohort)
		if p.CohortRequirements[c] == nil {
			p.CohortRequirements[c] = make(map[string]float64)
		}
		p.CohortRequirements[c][category] = credit
	}
	return rows.Err()
}

// closeRows 关闭结果集并返回遍历过程中的错误
func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	return err
}

func deleteMajorChildren(tx *sql.Tx, code string) error {
	for _, table := range majorChildTables {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE major_code = ?", code); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
