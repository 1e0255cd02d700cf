package calculator

import (
	"math"
	"strconv"

	"gradecalc/internal/model"
)

// DefaultSignificantDigits 平均成绩与总学分保留的有效数字位数
const DefaultSignificantDigits = 5

// RoundSignificant 按有效数字位数舍入（不是小数位数）
func RoundSignificant(v float64, digits int) float64 {
	if digits <= 0 || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', digits, 64), 64)
	if err != nil {
		return v
	}
	return f
}

// roundDecimals 按小数位数舍入（统计展示用）
func roundDecimals(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Aggregate 计算加权平均成绩与总学分；总学分为 0 时 ok=false
func Aggregate(records []model.NormalizedRecord, digits int) (avg, totalCredit float64, count int, ok bool) {
	weighted := 0.0
	for _, rec := range records {
		weighted += rec.Score * rec.Credit
		totalCredit += rec.Credit
	}
	if totalCredit == 0 {
		return 0, 0, 0, false
	}
	avg = weighted / totalCredit
	return RoundSignificant(avg, digits), RoundSignificant(totalCredit, digits), len(records), true
}
