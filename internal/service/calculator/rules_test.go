package calculator

import "testing"

func TestIsMakeup(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"补考":     true,
		"补考取得":   true,
		"初修补考取得": true,
		"初修(补考)": false,
		"初修":     false,
		"重修":     false,
		"":       false,
	}
	for in, want := range cases {
		if got := IsMakeup(in); got != want {
			t.Fatalf("IsMakeup(%q) want=%v got=%v", in, want, got)
		}
	}
}

func TestGradeLabelScore_NegatedBeforePositive(t *testing.T) {
	t.Parallel()

	for _, label := range []string{"不合格", "不及格", "不通过", "not passed", "not pass"} {
		got, ok := GradeLabelScore(label)
		if !ok || got != 0 {
			t.Fatalf("%q: want 0 got %v (ok=%v)", label, got, ok)
		}
	}
	if _, ok := GradeLabelScore("   "); ok {
		t.Fatalf("blank text should not match any label")
	}
}
