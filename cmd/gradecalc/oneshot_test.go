package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"gradecalc/internal/catalog"
	"gradecalc/internal/model"
	"gradecalc/internal/service/calculator"
	"gradecalc/internal/service/excel"
	"gradecalc/internal/store"
)

func writeGrades(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		values := row
		if err := wb.SetSheetRow("Sheet1", cell, &values); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
}

func newSeededStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), store.DatabaseFile))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if _, err := st.SeedMajorsIfEmpty(catalog.Defaults()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return st
}

func TestRunOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "grades.xlsx")
	writeGrades(t, in, [][]interface{}{
		{"学号", "姓名", "课程名称", "学分", "总成绩"},
		{"23040031037", "甲", "数据结构", 2, 95},
		{"S2", "乙", "高等数学", 4, 85},
		{"S2", "乙", "大学物理", 2, 70},
	})

	var out bytes.Buffer
	engine := calculator.NewEngine(calculator.Config{}, zerolog.Nop())
	err := runOnce(context.Background(), &out, newSeededStore(t), engine, oneShot{
		In:    in,
		Major: "23kg",
		Mode:  model.ModeUncapped,
		Top:   1,
	})
	if err != nil {
		t.Fatalf("runOnce failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "23040031037") || strings.Contains(text, "S2 ") {
		t.Fatalf("top-1 listing unexpected:\n%s", text)
	}

	outPath := filepath.Join(dir, "grades_23kg_uncapped.xlsx")
	r, err := excel.OpenFile(outPath)
	if err != nil {
		t.Fatalf("result workbook missing: %v", err)
	}
	defer r.Close()
	sheets, _ := r.Sheets()
	want := []string{excel.SheetRanking, excel.SheetElite, excel.SheetOrdinary, excel.SheetRunConfig}
	if !reflect.DeepEqual(sheets, want) {
		t.Fatalf("sheets want=%v got=%v", want, sheets)
	}
}

func TestRunOnce_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "grades.xlsx")
	writeGrades(t, in, [][]interface{}{
		{"学号", "姓名", "学分", "总成绩"},
		{"S1", "甲", 2, "缺考"},
	})
	st := newSeededStore(t)
	engine := calculator.NewEngine(calculator.Config{}, zerolog.Nop())

	var out bytes.Buffer
	if err := runOnce(context.Background(), &out, st, engine, oneShot{In: in, Mode: model.ModeCapped}); err == nil {
		t.Fatalf("expected error without major")
	}
	if err := runOnce(context.Background(), &out, st, engine, oneShot{In: in, Major: "nope", Mode: model.ModeCapped}); !errors.Is(err, catalog.ErrUnknownMajor) {
		t.Fatalf("want ErrUnknownMajor got %v", err)
	}
	if err := runOnce(context.Background(), &out, st, engine, oneShot{In: filepath.Join(dir, "none.xlsx"), Major: "23dz", Mode: model.ModeCapped}); err == nil {
		t.Fatalf("expected error for missing input")
	}
	if err := runOnce(context.Background(), &out, st, engine, oneShot{In: in, Major: "23dz", Mode: model.ModeCapped}); !errors.Is(err, model.ErrNoResults) {
		t.Fatalf("want ErrNoResults got %v", err)
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	got := splitList(" 2023-2024-1, ,2023-2024-2 ")
	if !reflect.DeepEqual(got, []string{"2023-2024-1", "2023-2024-2"}) {
		t.Fatalf("unexpected: %v", got)
	}
	if splitList("") != nil {
		t.Fatalf("empty input should give nil")
	}
}
