package excel_test

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"gradecalc/internal/model"
	"gradecalc/internal/service/excel"
)

func sampleResult() *model.Result {
	return &model.Result{
		RunID:     "run-1",
		MajorCode: "23kg",
		MajorName: "23勘工",
		Mode:      model.ModeCapped,
		Split:     true,
		Terms:     []string{"2023-2024-1"},
		Summaries: []model.StudentSummary{
			{StudentID: "E1", Name: "甲", Cohort: model.CohortElite, WeightedAvg: 90.5, TotalCredit: 5, CourseCount: 2, GlobalRank: 1, CohortRank: 1},
			{StudentID: "O1", Name: "乙", Cohort: model.CohortOrdinary, WeightedAvg: 88, TotalCredit: 6.5, CourseCount: 3, GlobalRank: 2, CohortRank: 1},
			{StudentID: "O2", Name: "丙", Cohort: model.CohortOrdinary, WeightedAvg: 88, TotalCredit: 4, CourseCount: 2, GlobalRank: 2, CohortRank: 1},
		},
		Trace: []model.SelectionDecision{
			{StudentID: "O1", Category: "学科基础课程", Required: 4, RowNo: 7, CourseID: "C1_数据结构", Score: 92, OriginalCredit: 3, CountedCredit: 3, Kind: model.DecisionIncluded},
		},
		Warnings: []model.Warning{
			{Kind: model.WarningAmbiguousDuplicate, StudentID: "O2", CourseID: "C9", Rows: []int{3, 9}, Message: "重复"},
		},
		Stats: model.RunStats{
			RowsRead: 20,
			Overall:  model.ScoreStats{Count: 3, Mean: 88.83, Max: 90.5, Min: 88},
			ByCohort: map[model.Cohort]model.ScoreStats{
				model.CohortElite:    {Count: 1, Mean: 90.5, Max: 90.5, Min: 90.5},
				model.CohortOrdinary: {Count: 2, Mean: 88, Max: 88, Min: 88},
			},
		},
		ComputedAt: time.Date(2024, 9, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestExport_Sheets(t *testing.T) {
	t.Parallel()

	var stages []int
	f, err := excel.NewExporter().WithProgress(func(ev excel.ProgressEvent) {
		stages = append(stages, ev.Percent)
	}).Export(sampleResult())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	defer f.Close()

	want := []string{excel.SheetRanking, excel.SheetElite, excel.SheetOrdinary, excel.SheetSelection, excel.SheetWarnings, excel.SheetRunConfig}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, want) {
		t.Fatalf("sheets want=%v got=%v", want, got)
	}
	if len(stages) == 0 || stages[len(stages)-1] != 100 {
		t.Fatalf("progress should end at 100: %v", stages)
	}

	rows, err := f.GetRows(excel.SheetRanking)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("ranking rows want 4 got %d", len(rows))
	}
	if got := rows[1]; got[0] != "1" || got[1] != "E1" || got[3] != "卓越" || got[4] != "90.5" {
		t.Fatalf("unexpected first ranking row: %v", got)
	}

	ordinary, _ := f.GetRows(excel.SheetOrdinary)
	if len(ordinary) != 3 || ordinary[1][1] != "O1" || ordinary[2][1] != "O2" {
		t.Fatalf("unexpected ordinary sheet: %v", ordinary)
	}

	selection, _ := f.GetRows(excel.SheetSelection)
	if len(selection) != 2 || selection[1][1] != "乙" || selection[1][9] != "全额计入" {
		t.Fatalf("unexpected selection sheet: %v", selection)
	}

	cfg, _ := f.GetRows(excel.SheetRunConfig)
	found := map[string]string{}
	for _, r := range cfg {
		if len(r) >= 2 {
			found[r[0]] = r[1]
		}
	}
	if found["计算模式"] != "保研" || found["学年学期"] != "2023-2024-1" || found["计算编号"] != "run-1" {
		t.Fatalf("unexpected config sheet: %v", found)
	}
}

func TestExport_UncappedWithoutSplit(t *testing.T) {
	t.Parallel()

	res := sampleResult()
	res.Mode = model.ModeUncapped
	res.Split = false
	res.Trace = nil
	res.Warnings = nil

	f, err := excel.NewExporter().Export(res)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	defer f.Close()

	want := []string{excel.SheetRanking, excel.SheetRunConfig}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, want) {
		t.Fatalf("sheets want=%v got=%v", want, got)
	}
}

func TestExportBytes_ReadBack(t *testing.T) {
	t.Parallel()

	data, err := excel.NewExporter().ExportBytes(sampleResult())
	if err != nil {
		t.Fatalf("ExportBytes failed: %v", err)
	}
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer wb.Close()

	r := excel.NewReader()
	if err := r.LoadFile(bytes.NewReader(data)); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	table, err := r.ReadTable(excel.SheetRanking)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if len(table.Rows) != 3 || table.Rows[2].Get("学号").String() != "O2" {
		t.Fatalf("unexpected read back: %+v", table.Rows)
	}
}
