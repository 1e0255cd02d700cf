package catalog

import "gradecalc/internal/model"

const (
	categoryFoundation = "学科基础课程"
	categoryKnowledge  = "专业知识课程"
	categorySkills     = "工作技能课程"
)

// Defaults 内置专业配置（每次调用返回新副本）
func Defaults() []model.MajorProfile {
	return []model.MajorProfile{
		{
			Code:           "23kg",
			Name:           "23勘工",
			HasCohortSplit: true,
			EliteStudentIDs: []string{
				"23040031037", "23040031038", "23040031016", "23040031068",
				"23040031051", "23040031023", "23040031008", "23040031050",
				"23040031049", "23040031036", "23040031024", "23040031069",
				"23040031061", "23040031035", "23040031009",
			},
			CohortRequirements: map[model.Cohort]map[string]float64{
				model.CohortElite: {
					categoryFoundation: 1.0,
					categoryKnowledge:  1.0,
					categorySkills:     0.0,
				},
				model.CohortOrdinary: {
					categoryFoundation: 4.0,
					categoryKnowledge:  4.0,
					categorySkills:     2.0,
				},
			},
			Taxonomy: []model.CategoryKeywords{
				{Category: categoryFoundation, Keywords: []string{
					"科学计算语言与编程", "Python程序设计与实践", "海洋地质学概论",
					"电工电子学", "数据结构", "计算机图形学", "地理信息系统",
					"并行编程原理与程序设计", "专业英语与科技写作", "岩石物理学基础",
				}},
				{Category: categoryKnowledge, Keywords: []string{
					"地球物理测井", "油气地质学", "工程与环境地球物理",
					"地球物理大数据与人工智能", "海洋地球物理探测技术",
					"计算地球物理原理", "国际课程-三维地震勘探", "非常规油气勘探开发",
					"人工智能资料处理与解释", "海洋电磁学", "地学软件工程",
					"地球物理前沿讲座",
				}},
				{Category: categorySkills, Keywords: []string{
					"地球物理技能训练", "地球物理软件设计实习", "工程实践",
				}},
			},
		},
		{
			Code: "23dz",
			Name: "23地质",
			Requirements: map[string]float64{
				categoryFoundation: 6.0,
				categoryKnowledge:  7.0,
				categorySkills:     4.0,
			},
			Taxonomy: []model.CategoryKeywords{
				{Category: categoryFoundation, Keywords: []string{
					"自然地理学", "地理信息系统", "线性代数", "物理化学",
					"物理化学实验", "工程岩土学",
				}},
				{Category: categoryKnowledge, Keywords: []string{
					"第四纪地质与环境", "海岸动力地貌", "海洋微体古生物学",
					"层序地层学", "遥感地质学", "油气地质学", "国际课程周",
					"中国区域大地构造", "海底岩石学", "沉积环境与沉积相",
					"海洋工程地质", "海底矿产资源", "海洋地球化学",
					"海洋工程环境", "海洋地质学前沿", "环境地质学",
					"地球系统科学",
				}},
				{Category: categorySkills, Keywords: []string{
					"地质旅行I", "地质旅行II", "岩矿鉴定",
					"地学大数据分析与人工智能", "地学建模与可视化",
					"地质旅行Ⅲ", "现代分析测试方法", "地质学研究方法新进展",
				}},
			},
		},
		{
			Code: "23dx",
			Name: "23地信",
			Requirements: map[string]float64{
				categoryFoundation: 6.0,
				categoryKnowledge:  6.0,
				categorySkills:     0.0,
			},
			Taxonomy: []model.CategoryKeywords{
				{Category: categoryFoundation, Keywords: []string{
					"Matlab 语言与应用", "信号分析与处理", "Python 程序设计与实践",
					"误差理论与测量平差基础", "计算机图形学",
					"GIS 二次开发", "AutoCAD 制图与应用", "专业英语",
				}},
				{Category: categoryKnowledge, Keywords: []string{
					"GNSS 测量与应用", "国际课程-基于机器学习的地学数据分析导论",
					"海底探测数据处理与解译", "海洋工程环境", "海洋工程地质",
					"海洋遥感概论", "计算地球物理原理", "专业前沿研讨",
					"海洋沉积物分析", "地球系统科学",
				}},
				{Category: categorySkills, Keywords: []string{
					"地质旅行I", "地质旅行Ⅱ", "地质旅行Ⅲ",
				}},
			},
		},
	}
}

// DefaultCatalog 内置专业配置快照
func DefaultCatalog() *Catalog {
	c, err := New(Defaults())
	if err != nil {
		panic(err)
	}
	return c
}
