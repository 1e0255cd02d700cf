package model

// NormalizedRecord 归一化后的选课记录
type NormalizedRecord struct {
	RowNo       int    `json:"rowNo"` // 原表行号（表头为第 1 行）
	StudentID   string `json:"studentId"`
	Name        string `json:"name"`
	CourseID    string `json:"courseId"` // 课程标识：课程编号_课程名称
	CourseName  string `json:"courseName"`
	CourseCode  string `json:"courseCode"`
	Term        string `json:"term"`
	Acquisition string `json:"acquisition"`

	Credit   float64 `json:"credit"`
	Score    float64 `json:"score"`
	Makeup   bool    `json:"makeup"`
	Category string  `json:"category"`
}

// WithScore 返回分数被覆盖后的新记录
func (r NormalizedRecord) WithScore(score float64) NormalizedRecord {
	r.Score = score
	return r
}

// WithCredit 返回学分被截断后的新记录
func (r NormalizedRecord) WithCredit(credit float64) NormalizedRecord {
	r.Credit = credit
	return r
}

// WithCategory 返回带类别的新记录
func (r NormalizedRecord) WithCategory(category string) NormalizedRecord {
	r.Category = category
	return r
}
