package calculator

import (
	"fmt"

	"gradecalc/internal/model"
)

// ResolveDuplicates 合并同一学生同一课程的多次记录，返回保留的记录（保持原顺序）
//
// 有补考记录时：补考及格（已按 60 计）则保留补考、去掉全部原记录；补考不及格则去掉该补考。
// 没有补考记录的多条记录全部保留，并给出提示。调用方需保证课程标识可用。
func ResolveDuplicates(records []model.NormalizedRecord) (kept []model.NormalizedRecord, dropped int, warnings []model.Warning) {
	groups := make(map[string][]int)
	var order []string
	for i, rec := range records {
		if _, ok := groups[rec.CourseID]; !ok {
			order = append(order, rec.CourseID)
		}
		groups[rec.CourseID] = append(groups[rec.CourseID], i)
	}

	drop := make(map[int]bool)
	for _, courseID := range order {
		idx := groups[courseID]
		if len(idx) < 2 {
			continue
		}

		var makeups, originals []int
		for _, i := range idx {
			if records[i].Makeup {
				makeups = append(makeups, i)
			} else {
				originals = append(originals, i)
			}
		}

		if len(makeups) > 0 {
			passed := false
			for _, i := range makeups {
				if records[i].Score >= PassScore {
					passed = true
				} else {
					drop[i] = true
				}
			}
			if passed {
				for _, i := range originals {
					drop[i] = true
				}
			}
		}

		var survivors []int
		for _, i := range idx {
			if !drop[i] {
				survivors = append(survivors, i)
			}
		}
		if len(survivors) > 1 {
			rows := make([]int, 0, len(survivors))
			for _, i := range survivors {
				rows = append(rows, records[i].RowNo)
			}
			first := records[survivors[0]]
			warnings = append(warnings, model.Warning{
				Kind:      model.WarningAmbiguousDuplicate,
				StudentID: first.StudentID,
				CourseID:  courseID,
				Rows:      rows,
				Message:   fmt.Sprintf("学号 %s 课程 %s 有 %d 条非补考记录，均已计入", first.StudentID, courseID, len(survivors)),
			})
		}
	}

	kept = make([]model.NormalizedRecord, 0, len(records)-len(drop))
	for i, rec := range records {
		if !drop[i] {
			kept = append(kept, rec)
		}
	}
	return kept, len(drop), warnings
}
