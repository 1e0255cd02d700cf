package calculator

import (
	"sort"

	"gradecalc/internal/model"
)

// SelectElectives 保研模式下按类别学分要求择优折算选修课
//
// 每个有要求的类别内按成绩从高到低（同分保持原顺序）累加学分，超出要求的那门课只计剩余学分，
// 之后的课程不再计入；要求 ≤ 0 的类别全部不计。没有要求的类别（含必修课程）原样保留。
// 返回的记录保持输入顺序；decisions 按类别首次出现顺序、类别内按折算顺序排列。
func SelectElectives(records []model.NormalizedRecord, requirements map[string]float64) ([]model.NormalizedRecord, []model.SelectionDecision) {
	byCategory := make(map[string][]int)
	var categories []string
	for i, rec := range records {
		if _, capped := requirements[rec.Category]; !capped {
			continue
		}
		if _, ok := byCategory[rec.Category]; !ok {
			categories = append(categories, rec.Category)
		}
		byCategory[rec.Category] = append(byCategory[rec.Category], i)
	}

	// 下标 → 计入学分；不在表中的受限记录不计入
	counted := make(map[int]float64)
	var decisions []model.SelectionDecision

	for _, category := range categories {
		required := requirements[category]
		idx := append([]int(nil), byCategory[category]...)
		sort.SliceStable(idx, func(a, b int) bool {
			return records[idx[a]].Score > records[idx[b]].Score
		})

		accumulated := 0.0
		done := required <= 0
		for _, i := range idx {
			rec := records[i]
			d := model.SelectionDecision{
				StudentID:      rec.StudentID,
				Category:       category,
				Required:       required,
				RowNo:          rec.RowNo,
				CourseID:       rec.CourseID,
				CourseName:     rec.CourseName,
				Score:          rec.Score,
				OriginalCredit: rec.Credit,
				Kind:           model.DecisionExcluded,
			}

			if !done && accumulated < required {
				if accumulated+rec.Credit <= required {
					d.Kind = model.DecisionIncluded
					d.CountedCredit = rec.Credit
					accumulated += rec.Credit
				} else {
					d.Kind = model.DecisionPartial
					d.CountedCredit = required - accumulated
					accumulated = required
					done = true
				}
				counted[i] = d.CountedCredit
			} else {
				done = true
			}
			decisions = append(decisions, d)
		}
	}

	out := make([]model.NormalizedRecord, 0, len(records))
	for i, rec := range records {
		if _, capped := requirements[rec.Category]; !capped {
			out = append(out, rec)
			continue
		}
		credit, ok := counted[i]
		if !ok {
			continue
		}
		if credit != rec.Credit {
			rec = rec.WithCredit(credit)
		}
		out = append(out, rec)
	}
	return out, decisions
}
