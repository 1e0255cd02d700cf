package calculator

import (
	"sort"

	"gradecalc/internal/model"
)

// Rank 按平均成绩降序排序并填写全校排名与班级内排名
//
// 同分取最小名次（1,2,2,4）；同分学生按在表中首次出现的顺序排列。
func Rank(summaries []model.StudentSummary) []model.StudentSummary {
	out := make([]model.StudentSummary, len(summaries))
	copy(out, summaries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WeightedAvg != out[j].WeightedAvg {
			return out[i].WeightedAvg > out[j].WeightedAvg
		}
		return out[i].Slot() < out[j].Slot()
	})

	for i := range out {
		if i > 0 && out[i].WeightedAvg == out[i-1].WeightedAvg {
			out[i].GlobalRank = out[i-1].GlobalRank
		} else {
			out[i].GlobalRank = i + 1
		}
	}

	type cohortState struct {
		seen     int
		lastAvg  float64
		lastRank int
	}
	states := make(map[model.Cohort]*cohortState)
	for i := range out {
		st, ok := states[out[i].Cohort]
		if !ok {
			st = &cohortState{}
			states[out[i].Cohort] = st
		}
		st.seen++
		if st.seen > 1 && out[i].WeightedAvg == st.lastAvg {
			out[i].CohortRank = st.lastRank
		} else {
			out[i].CohortRank = st.seen
		}
		st.lastAvg = out[i].WeightedAvg
		st.lastRank = out[i].CohortRank
	}
	return out
}
