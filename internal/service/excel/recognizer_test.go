package excel_test

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"gradecalc/internal/model"
	"gradecalc/internal/service/excel"
)

// buildWorkbookWithHeaders 按给定顺序创建多个只有表头的工作表
func buildWorkbookWithHeaders(t *testing.T, sheets []string, headers map[string][]interface{}) *excel.Reader {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()
	for i, name := range sheets {
		if i == 0 {
			if err := wb.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("SetSheetName failed: %v", err)
			}
		} else if _, err := wb.NewSheet(name); err != nil {
			t.Fatalf("NewSheet failed: %v", err)
		}
		if h := headers[name]; h != nil {
			// 表头放在第二行，验证空行跳过
			if err := wb.SetSheetRow(name, "A2", &h); err != nil {
				t.Fatalf("SetSheetRow failed: %v", err)
			}
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	r := excel.NewReader()
	if err := r.LoadFile(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRecognizeSheets(t *testing.T) {
	t.Parallel()

	r := buildWorkbookWithHeaders(t, []string{"说明", "部分", "成绩明细"}, map[string][]interface{}{
		"说明":   {"填表说明"},
		"部分":   {"学号", "姓名", "学分"},
		"成绩明细": {"学号", "姓名", "课程名称", "学分", "总成绩", "学年学期"},
	})

	recs, err := r.RecognizeSheets()
	if err != nil {
		t.Fatalf("RecognizeSheets failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("want 3 sheets got %d", len(recs))
	}
	if recs[0].Score != 0 || len(recs[0].Missing) != len(model.RequiredFields) {
		t.Fatalf("unexpected notes sheet: %+v", recs[0])
	}
	if recs[1].Complete() || recs[1].Score != 0.75 || recs[1].Missing[0] != model.FieldTotalScore {
		t.Fatalf("unexpected partial sheet: %+v", recs[1])
	}
	if !recs[2].Complete() || recs[2].Optional != 2 || recs[2].Score <= 1 {
		t.Fatalf("unexpected grade sheet: %+v", recs[2])
	}

	sheet, err := r.DetectGradeSheet()
	if err != nil {
		t.Fatalf("DetectGradeSheet failed: %v", err)
	}
	if sheet != "成绩明细" {
		t.Fatalf("want 成绩明细 got %s", sheet)
	}
}

func TestDetectGradeSheet_PrefersEarlierOnTie(t *testing.T) {
	t.Parallel()

	header := []interface{}{"学号", "姓名", "学分", "总成绩"}
	r := buildWorkbookWithHeaders(t, []string{"A", "B", "空表"}, map[string][]interface{}{
		"A": header,
		"B": header,
	})

	sheet, err := r.DetectGradeSheet()
	if err != nil {
		t.Fatalf("DetectGradeSheet failed: %v", err)
	}
	if sheet != "A" {
		t.Fatalf("want A got %s", sheet)
	}

	if _, err := excel.NewReader().DetectGradeSheet(); err == nil {
		t.Fatalf("expected error without loaded file")
	}
}
