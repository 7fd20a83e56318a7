package vocab

import "github.com/brandpulse/triage/internal/model"

// Default returns the seed vocabulary used when no snapshot exists yet.
// Terms target Traditional Chinese review language; weights reflect how
// strongly a word signals its category.
func Default() *Vocabulary {
	v := New()

	seed := []model.Term{
		// Brand-damage signals.
		{Category: model.CategoryCritical, Word: "假貨", Weight: 2.0},
		{Category: model.CategoryCritical, Word: "詐騙", Weight: 2.0},
		{Category: model.CategoryCritical, Word: "仿冒", Weight: 1.8},
		{Category: model.CategoryCritical, Word: "黑心", Weight: 1.8},
		{Category: model.CategoryCritical, Word: "抄襲", Weight: 1.6},
		{Category: model.CategoryCritical, Word: "虛假宣傳", Weight: 1.6},
		{Category: model.CategoryCritical, Word: "山寨", Weight: 1.5},
		{Category: model.CategoryCritical, Word: "貨不對板", Weight: 1.4},
		{Category: model.CategoryCritical, Word: "誤導", Weight: 1.2},

		// Loyalty-erosion signals.
		{Category: model.CategoryStrategic, Word: "絕不再買", Weight: 1.8},
		{Category: model.CategoryStrategic, Word: "黑名單", Weight: 1.7},
		{Category: model.CategoryStrategic, Word: "踩雷", Weight: 1.6},
		{Category: model.CategoryStrategic, Word: "不推薦", Weight: 1.5},
		{Category: model.CategoryStrategic, Word: "避坑", Weight: 1.5},
		{Category: model.CategoryStrategic, Word: "後悔", Weight: 1.4},
		{Category: model.CategoryStrategic, Word: "失望", Weight: 1.2},

		// Usability and product friction.
		{Category: model.CategoryOperational, Word: "品質差", Weight: 1.4},
		{Category: model.CategoryOperational, Word: "客服爛", Weight: 1.4},
		{Category: model.CategoryOperational, Word: "材質差", Weight: 1.3},
		{Category: model.CategoryOperational, Word: "破損", Weight: 1.3},
		{Category: model.CategoryOperational, Word: "退貨難", Weight: 1.3},
		{Category: model.CategoryOperational, Word: "寄丟", Weight: 1.3},
		{Category: model.CategoryOperational, Word: "瑕疵", Weight: 1.2},
		{Category: model.CategoryOperational, Word: "不耐用", Weight: 1.2},
		{Category: model.CategoryOperational, Word: "態度差", Weight: 1.2},
		{Category: model.CategoryOperational, Word: "沒人理", Weight: 1.1},
		{Category: model.CategoryOperational, Word: "掉色", Weight: 1.0},
		{Category: model.CategoryOperational, Word: "配送慢", Weight: 1.0},
		{Category: model.CategoryOperational, Word: "不值", Weight: 1.0},
		{Category: model.CategoryOperational, Word: "發貨慢", Weight: 0.9},
		{Category: model.CategoryOperational, Word: "太貴", Weight: 0.9},
		{Category: model.CategoryOperational, Word: "運費貴", Weight: 0.8},

		// Purchase-intent and sales signals.
		{Category: model.CategoryOpportunities, Word: "必買", Weight: 1.6},
		{Category: model.CategoryOpportunities, Word: "哪裡買", Weight: 1.5},
		{Category: model.CategoryOpportunities, Word: "回購", Weight: 1.5},
		{Category: model.CategoryOpportunities, Word: "想買", Weight: 1.4},
		{Category: model.CategoryOpportunities, Word: "物超所值", Weight: 1.4},
		{Category: model.CategoryOpportunities, Word: "團購", Weight: 1.3},
		{Category: model.CategoryOpportunities, Word: "cp值高", Weight: 1.3},
		{Category: model.CategoryOpportunities, Word: "再買", Weight: 1.3},
		{Category: model.CategoryOpportunities, Word: "推薦", Weight: 1.2},
		{Category: model.CategoryOpportunities, Word: "愛上", Weight: 1.2},
		{Category: model.CategoryOpportunities, Word: "值得", Weight: 1.1},
		{Category: model.CategoryOpportunities, Word: "滿意", Weight: 1.0},
	}

	for _, t := range seed {
		v.Set(t.Category, t.Word, t.Weight)
	}
	return v
}
