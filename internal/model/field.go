package model

// Field 规范字段
type Field string

const (
	FieldStudentID   Field = "student_id"       // 学号
	FieldName        Field = "name"             // 姓名
	FieldCredit      Field = "credit"           // 学分
	FieldTotalScore  Field = "total_score"      // 总成绩
	FieldAcquisition Field = "acquisition_type" // 取得方式
	FieldScoreFlag   Field = "score_flag"       // 成绩标志
	FieldTerm        Field = "term"             // 学年学期
	FieldCourseName  Field = "course_name"      // 课程名称
	FieldCourseCode  Field = "course_code"      // 课程编号
)

// AllFields 规范字段（识别顺序）
var AllFields = []Field{
	FieldStudentID,
	FieldName,
	FieldCredit,
	FieldTotalScore,
	FieldAcquisition,
	FieldScoreFlag,
	FieldTerm,
	FieldCourseName,
	FieldCourseCode,
}

// RequiredFields 必须识别的字段
var RequiredFields = []Field{
	FieldStudentID,
	FieldName,
	FieldCredit,
	FieldTotalScore,
}

var fieldLabels = map[Field]string{
	FieldStudentID:   "学号",
	FieldName:        "姓名",
	FieldCredit:      "学分",
	FieldTotalScore:  "总成绩",
	FieldAcquisition: "取得方式",
	FieldScoreFlag:   "成绩标志",
	FieldTerm:        "学年学期",
	FieldCourseName:  "课程名称",
	FieldCourseCode:  "课程编号",
}

// Label 中文名
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// ColumnMapping 规范字段 → 实际列名（构建后只读）
type ColumnMapping map[Field]string

// Column 字段对应的列名
func (m ColumnMapping) Column(f Field) (string, bool) {
	col, ok := m[f]
	return col, ok
}

// Has 字段是否已识别
func (m ColumnMapping) Has(f Field) bool {
	_, ok := m[f]
	return ok
}
