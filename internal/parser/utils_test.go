package parser

import "testing"

func TestNormalizeColumnName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"  学号 ":           "学号",
		"总成绩\n(百分制)":      "总成绩 (百分制)",
		"Student\t\tID":   "Student ID",
		"课程\r\n名称":        "课程 名称",
		"":                "",
	}
	for in, want := range cases {
		if got := NormalizeColumnName(in); got != want {
			t.Fatalf("NormalizeColumnName(%q) want=%q got=%q", in, want, got)
		}
	}
}

func TestContainsAny_SkipsEmptyKeyword(t *testing.T) {
	t.Parallel()

	if ContainsAny("课程名称", []string{""}) {
		t.Fatalf("empty keyword should never match")
	}
	if !ContainsAny("课程名称", []string{"学分", "名称"}) {
		t.Fatalf("expected match")
	}
}
