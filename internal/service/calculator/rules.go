package calculator

import "strings"

// 成绩标志 / 取得方式中的标记
const (
	markerTruant          = "旷考"
	markerAbsent          = "缺考"
	markerDeferred        = "缓考"
	markerDeferredGranted = "缓考取得"
	markerMakeup          = "补考"
	markerMakeupGranted   = "补考取得"
	markerFirstAttempt    = "初修"
)

// PassScore 及格线；补考通过的成绩按此值计
const PassScore = 60.0

type gradeLabel struct {
	label string
	score float64
}

// gradeLabels 等级制成绩对照表；包含匹配按声明顺序取第一个，否定写法必须排在前面
var gradeLabels = []gradeLabel{
	{"不合格", 0},
	{"不及格", 0},
	{"不通过", 0},
	{"优秀", 90},
	{"良好", 80},
	{"中等", 70},
	{"合格", 60},
	{"及格", 60},
	{"通过", 85},
	{"优", 90},
	{"良", 80},
	{"中", 70},
	{"not passed", 0},
	{"not pass", 0},
	{"excellent", 90},
	{"good", 80},
	{"fair", 70},
	{"fail", 0},
	{"passed", 85},
	{"pass", 60},
}

// GradeLabelScore 等级制成绩换算：先精确匹配，再包含匹配
func GradeLabelScore(text string) (float64, bool) {
	key := strings.ToLower(strings.TrimSpace(text))
	if key == "" {
		return 0, false
	}
	for _, g := range gradeLabels {
		if key == g.label {
			return g.score, true
		}
	}
	for _, g := range gradeLabels {
		if strings.Contains(key, g.label) {
			return g.score, true
		}
	}
	return 0, false
}

// IsMakeup 取得方式是否为补考
func IsMakeup(acquisition string) bool {
	if strings.Contains(acquisition, markerMakeupGranted) {
		return true
	}
	return strings.Contains(acquisition, markerMakeup) && !strings.Contains(acquisition, markerFirstAttempt)
}

// isAbsentFromExam 成绩标志为旷考/缺考
func isAbsentFromExam(flag string) bool {
	return strings.Contains(flag, markerTruant) || strings.Contains(flag, markerAbsent)
}

// isDeferredWithoutScore 缓考且未取得成绩
func isDeferredWithoutScore(flag, acquisition string) bool {
	return strings.Contains(flag, markerDeferred) && !strings.Contains(acquisition, markerDeferredGranted)
}
