package calculator

import (
	"testing"

	"gradecalc/internal/model"
)

func elective(row int, category string, score, credit float64) model.NormalizedRecord {
	return model.NormalizedRecord{
		RowNo:     row,
		StudentID: "S1",
		CourseID:  category + "-" + string(rune('a'+row)),
		Category:  category,
		Score:     score,
		Credit:    credit,
	}
}

func TestSelectElectives_GreedyFillWithPartial(t *testing.T) {
	t.Parallel()

	records := []model.NormalizedRecord{
		elective(1, "A", 70, 2),
		elective(2, "A", 92, 3),
		elective(3, "A", 88, 2),
	}
	kept, trace := SelectElectives(records, map[string]float64{"A": 4})

	if len(kept) != 2 {
		t.Fatalf("want 2 kept records, got %d: %+v", len(kept), kept)
	}
	// 输出保持输入顺序
	if kept[0].RowNo != 2 || !floatEquals(kept[0].Credit, 3) {
		t.Fatalf("first kept want row2 credit3, got %+v", kept[0])
	}
	if kept[1].RowNo != 3 || !floatEquals(kept[1].Credit, 1) {
		t.Fatalf("second kept want row3 credit1, got %+v", kept[1])
	}

	wantKinds := []model.DecisionKind{model.DecisionIncluded, model.DecisionPartial, model.DecisionExcluded}
	wantRows := []int{2, 3, 1}
	if len(trace) != 3 {
		t.Fatalf("want 3 decisions, got %d", len(trace))
	}
	for i, d := range trace {
		if d.Kind != wantKinds[i] || d.RowNo != wantRows[i] {
			t.Fatalf("decision %d want row%d %s, got row%d %s", i, wantRows[i], wantKinds[i], d.RowNo, d.Kind)
		}
	}
	if !floatEquals(trace[1].CountedCredit, 1) || !floatEquals(trace[1].OriginalCredit, 2) {
		t.Fatalf("partial decision credit mismatch: %+v", trace[1])
	}
	if trace[2].CountedCredit != 0 {
		t.Fatalf("excluded decision should count 0 credit: %+v", trace[2])
	}

	// 原记录不被修改
	if records[2].Credit != 2 {
		t.Fatalf("input record mutated: %+v", records[2])
	}
}

func TestSelectElectives_ZeroRequirementDropsCategory(t *testing.T) {
	t.Parallel()

	records := []model.NormalizedRecord{
		elective(1, "B", 99, 2),
		elective(2, model.CategoryRequired, 80, 3),
		elective(3, "B", 95, 1),
	}
	kept, trace := SelectElectives(records, map[string]float64{"B": 0})
	if len(kept) != 1 || kept[0].Category != model.CategoryRequired {
		t.Fatalf("only required record should survive, got %+v", kept)
	}
	for _, d := range trace {
		if d.Kind != model.DecisionExcluded {
			t.Fatalf("zero requirement should exclude everything, got %+v", d)
		}
	}
}

func TestSelectElectives_UncappedCategoriesPassThrough(t *testing.T) {
	t.Parallel()

	records := []model.NormalizedRecord{
		elective(1, model.CategoryRequired, 80, 3),
		elective(2, "C", 70, 5),
	}
	kept, trace := SelectElectives(records, map[string]float64{"A": 2})
	if len(kept) != 2 || len(trace) != 0 {
		t.Fatalf("categories without requirement must pass through, kept=%d trace=%d", len(kept), len(trace))
	}
}

func TestSelectElectives_StableOnTies(t *testing.T) {
	t.Parallel()

	records := []model.NormalizedRecord{
		elective(1, "A", 80, 2),
		elective(2, "A", 80, 2),
	}
	kept, _ := SelectElectives(records, map[string]float64{"A": 2})
	if len(kept) != 1 || kept[0].RowNo != 1 {
		t.Fatalf("earlier row should win ties, got %+v", kept)
	}
}

func TestSelectElectives_CreditCapInvariant(t *testing.T) {
	t.Parallel()

	requirements := map[string]float64{"A": 3.5, "B": 1, "C": 10}
	var records []model.NormalizedRecord
	for i := 0; i < 30; i++ {
		category := []string{"A", "B", "C", model.CategoryRequired}[i%4]
		score := float64(60 + (i*37)%40)
		credit := float64(1+i%3) * 0.5
		records = append(records, elective(i, category, score, credit))
	}

	kept, _ := SelectElectives(records, requirements)
	sums := make(map[string]float64)
	for _, r := range kept {
		sums[r.Category] += r.Credit
	}
	for category, req := range requirements {
		if sums[category] > req+1e-9 {
			t.Fatalf("category %s counted %v exceeds requirement %v", category, sums[category], req)
		}
	}
}
