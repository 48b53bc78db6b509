package category

// defaultRules returns a fresh copy of the built-in bilingual taxonomy.
// Declaration order is classification order. Other carries empty trigger
// sets so it never matches directly and only applies as the fall-through.
func defaultRules() []namedRule {
	return []namedRule{
		{"Food & Dining", Rule{
			Keywords:  []string{"restaurant", "餐廳", "cafe", "咖啡", "food", "食物", "dining", "meal", "飯店", "bar", "酒吧"},
			Merchants: []string{"mcdonalds", "starbucks", "subway", "麥當勞", "星巴克"},
		}},
		{"Transportation", Rule{
			Keywords:  []string{"uber", "taxi", "計程車", "mrt", "捷運", "bus", "公車", "train", "火車", "parking", "停車"},
			Merchants: []string{"uber", "grab", "taxi", "mrt"},
		}},
		{"Shopping", Rule{
			Keywords:  []string{"mart", "超市", "store", "商店", "shop", "購物", "market", "市場", "mall", "商場"},
			Merchants: []string{"7-eleven", "familymart", "walmart", "target", "全家", "7-11"},
		}},
		{"Utilities", Rule{
			Keywords:  []string{"electric", "電力", "water", "水費", "gas", "瓦斯", "internet", "網路", "phone", "電話"},
			Merchants: []string{"台電", "自來水", "中華電信"},
		}},
		{"Healthcare", Rule{
			Keywords:  []string{"hospital", "醫院", "clinic", "診所", "pharmacy", "藥局", "doctor", "醫生", "medical", "醫療"},
			Merchants: []string{"hospital", "clinic"},
		}},
		{"Entertainment", Rule{
			Keywords:  []string{"movie", "電影", "cinema", "戲院", "game", "遊戲", "book", "書", "music", "音樂"},
			Merchants: []string{"netflix", "spotify", "cinema"},
		}},
		{"Office Supplies", Rule{
			Keywords:  []string{"stationery", "文具", "office", "辦公", "paper", "紙張", "pen", "筆", "computer", "電腦"},
			Merchants: []string{"office depot", "staples"},
		}},
		{DefaultCategory, Rule{
			Keywords:  []string{},
			Merchants: []string{},
		}},
	}
}
