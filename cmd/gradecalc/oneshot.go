package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gradecalc/internal/model"
	"gradecalc/internal/service/calculator"
	"gradecalc/internal/service/excel"
	"gradecalc/internal/store"
)

// oneShot 单次计算参数
type oneShot struct {
	In    string
	Major string
	Mode  model.Mode
	Terms []string
	Sheet string
	Out   string
	Top   int
}

// runOnce 读取成绩表、计算、打印前若干名并写出结果工作簿
func runOnce(ctx context.Context, w io.Writer, st *store.Store, engine *calculator.Engine, opts oneShot) error {
	if strings.TrimSpace(opts.Major) == "" {
		return errors.New("缺少 -major 参数")
	}

	cat, err := st.LoadCatalog()
	if err != nil {
		return err
	}
	profile, err := cat.Get(opts.Major)
	if err != nil {
		return fmt.Errorf("%w (可选: %s)", err, strings.Join(cat.Codes(), ", "))
	}

	r, err := excel.OpenFile(opts.In)
	if err != nil {
		return fmt.Errorf("读取成绩表失败: %w", err)
	}
	defer r.Close()
	sheet := opts.Sheet
	if sheet == "" {
		if sheet, err = r.DetectGradeSheet(); err != nil {
			return err
		}
	}
	table, err := r.ReadTable(sheet)
	if err != nil {
		return err
	}

	result, err := engine.Calculate(ctx, calculator.Input{
		Table: table,
		Major: profile,
		Mode:  opts.Mode,
		Terms: opts.Terms,
	})
	if err != nil {
		if errors.Is(err, model.ErrNoResults) && result != nil {
			printStats(w, result)
		}
		return err
	}

	printSummary(w, result, opts.Top)

	outPath := opts.Out
	if outPath == "" {
		outPath = defaultOutPath(opts.In, result)
	}
	f, err := excel.NewExporter().Export(result)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(outPath); err != nil {
		return fmt.Errorf("写出结果失败: %w", err)
	}
	fmt.Fprintf(w, "结果已写入: %s\n", outPath)
	return nil
}

func printSummary(w io.Writer, result *model.Result, top int) {
	fmt.Fprintf(w, "%s  %s模式  学生 %d 人\n", result.MajorName, result.Mode.Label(), len(result.Summaries))
	if top <= 0 || top > len(result.Summaries) {
		top = len(result.Summaries)
	}
	fmt.Fprintf(w, "%-6s%-14s%-10s%-8s%10s%8s\n", "排名", "学号", "姓名", "班级", "平均成绩", "学分")
	for _, s := range result.Summaries[:top] {
		fmt.Fprintf(w, "%-6d%-14s%-10s%-8s%10.3f%8.1f\n",
			s.GlobalRank, s.StudentID, s.Name, s.Cohort.Label(), s.WeightedAvg, s.TotalCredit)
	}
	printStats(w, result)
	if n := len(result.Warnings); n > 0 {
		fmt.Fprintf(w, "提示 %d 条:\n", n)
		for _, warn := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", warn.Message)
		}
	}
}

func printStats(w io.Writer, result *model.Result) {
	st := result.Stats
	fmt.Fprintf(w, "读取 %d 行，学期筛除 %d 行，无效成绩 %d 行，去重移除 %d 行\n",
		st.RowsRead, st.RowsTermFiltered, st.RowsInvalid, st.DuplicatesDropped)
	if st.Overall.Count > 0 {
		fmt.Fprintf(w, "平均成绩 均值 %.2f  最高 %.2f  最低 %.2f\n", st.Overall.Mean, st.Overall.Max, st.Overall.Min)
	}
}

// defaultOutPath 与输入同目录，如 grades_23kg_capped.xlsx
func defaultOutPath(in string, result *model.Result) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	name := fmt.Sprintf("%s_%s_%s.xlsx", base, result.MajorCode, result.Mode)
	return filepath.Join(filepath.Dir(in), name)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
