package enrichment

// CategoryDefinition describes a marketplace listing category keyed by its
// Japanese source name. ItemSpecifics are the attribute defaults the
// marketplace expects for listings in that category.
type CategoryDefinition struct {
	Key           string              `json:"category"`
	ID            string              `json:"categoryId"`
	Name          string              `json:"categoryName"`
	Path          string              `json:"categoryPath"`
	ItemSpecifics map[string][]string `json:"itemSpecifics,omitempty"`
}

// AliasEntry maps a canonical category to the alternate spellings sellers use.
type AliasEntry struct {
	Category string
	Aliases  []string
}

// BrandHint infers a category from a brand name found in the listing text.
type BrandHint struct {
	Brand    string
	Category string
}

// FallbackCategory is returned when no mapping stage produces a result.
var FallbackCategory = CategoryDefinition{
	Key:  "その他",
	ID:   "99",
	Name: "Everything Else",
	Path: "Everything Else",
}

// categoryTable maps Japanese source categories to marketplace categories.
// Slice order is the scan order for keyword inference; do not sort.
var categoryTable = []CategoryDefinition{
	// Watches
	{Key: "腕時計", ID: "31387", Name: "Wristwatches", Path: "Jewelry & Watches > Watches, Parts & Accessories > Wristwatches",
		ItemSpecifics: map[string][]string{"Type": {"Wristwatch"}, "Department": {"Unisex Adults"}}},
	{Key: "時計", ID: "31387", Name: "Wristwatches", Path: "Jewelry & Watches > Watches, Parts & Accessories > Wristwatches"},
	{Key: "ウォッチ", ID: "31387", Name: "Wristwatches", Path: "Jewelry & Watches > Watches, Parts & Accessories > Wristwatches"},
	{Key: "時計パーツ", ID: "260324", Name: "Parts", Path: "Jewelry & Watches > Watches, Parts & Accessories > Parts, Tools & Guides > Parts"},
	{Key: "時計ベルト", ID: "10327", Name: "Watch Bands", Path: "Jewelry & Watches > Watches, Parts & Accessories > Parts, Tools & Guides > Watchbands"},
	{Key: "懐中時計", ID: "3937", Name: "Pocket Watches", Path: "Jewelry & Watches > Watches, Parts & Accessories > Pocket Watches"},

	// Anime and collectibles
	{Key: "アニメグッズ", ID: "14324", Name: "Other Japanese Anime Items", Path: "Collectibles > Animation Art & Merchandise > Japanese, Anime",
		ItemSpecifics: map[string][]string{"Country/Region of Manufacture": {"Japan"}}},
	{Key: "アニメフィギュア", ID: "158666", Name: "Anime & Manga Action Figures", Path: "Collectibles > Animation Art & Merchandise > Japanese, Anime > Action Figures",
		ItemSpecifics: map[string][]string{"Type": {"Action Figure"}, "Country/Region of Manufacture": {"Japan"}}},
	{Key: "フィギュア", ID: "183454", Name: "Action Figures", Path: "Toys & Hobbies > Action Figures & Accessories > Action Figures"},
	{Key: "プライズフィギュア", ID: "158666", Name: "Anime & Manga Action Figures", Path: "Collectibles > Animation Art & Merchandise > Japanese, Anime > Action Figures"},
	{Key: "ねんどろいど", ID: "158666", Name: "Anime & Manga Action Figures", Path: "Collectibles > Animation Art & Merchandise > Japanese, Anime > Action Figures",
		ItemSpecifics: map[string][]string{"Brand": {"Good Smile Company"}, "Type": {"Nendoroid"}}},

	// Games and trading cards
	{Key: "ゲームソフト", ID: "139973", Name: "Video Games", Path: "Video Games & Consoles > Video Games"},
	{Key: "ゲーム", ID: "139973", Name: "Video Games", Path: "Video Games & Consoles > Video Games"},
	{Key: "トレーディングカード", ID: "183454", Name: "CCG Individual Cards", Path: "Toys & Hobbies > Collectible Card Games > CCG Individual Cards"},
	{Key: "ポケモンカード", ID: "183454", Name: "Pokemon TCG Cards", Path: "Toys & Hobbies > Collectible Card Games > CCG Individual Cards",
		ItemSpecifics: map[string][]string{"Game": {"Pokémon TCG"}, "Country/Region of Manufacture": {"Japan"}}},
	{Key: "遊戯王カード", ID: "183454", Name: "Yu-Gi-Oh! TCG Cards", Path: "Toys & Hobbies > Collectible Card Games > CCG Individual Cards",
		ItemSpecifics: map[string][]string{"Game": {"Yu-Gi-Oh! TCG"}, "Country/Region of Manufacture": {"Japan"}}},

	// Fashion
	{Key: "バッグ", ID: "169291", Name: "Bags & Handbags", Path: "Clothing, Shoes & Accessories > Women > Bags & Handbags"},
	{Key: "財布", ID: "45258", Name: "Wallets", Path: "Clothing, Shoes & Accessories > Unisex > Wallets"},
	{Key: "靴", ID: "63889", Name: "Athletic Shoes", Path: "Clothing, Shoes & Accessories > Men > Shoes"},
	{Key: "服", ID: "11450", Name: "Clothing, Shoes & Accessories", Path: "Clothing, Shoes & Accessories"},
	{Key: "衣類", ID: "11450", Name: "Clothing, Shoes & Accessories", Path: "Clothing, Shoes & Accessories"},

	// Jewelry
	{Key: "ネックレス", ID: "164329", Name: "Necklaces & Pendants", Path: "Jewelry & Watches > Fine Jewelry > Necklaces & Pendants"},
	{Key: "指輪", ID: "164332", Name: "Rings", Path: "Jewelry & Watches > Fine Jewelry > Rings"},
	{Key: "リング", ID: "164332", Name: "Rings", Path: "Jewelry & Watches > Fine Jewelry > Rings"},
	{Key: "ブレスレット", ID: "164315", Name: "Bracelets", Path: "Jewelry & Watches > Fine Jewelry > Bracelets"},
	{Key: "ピアス", ID: "164321", Name: "Earrings", Path: "Jewelry & Watches > Fine Jewelry > Earrings"},
	{Key: "イヤリング", ID: "164321", Name: "Earrings", Path: "Jewelry & Watches > Fine Jewelry > Earrings"},

	// Electronics
	{Key: "カメラ", ID: "31388", Name: "Digital Cameras", Path: "Cameras & Photo > Digital Cameras"},
	{Key: "レンズ", ID: "78997", Name: "Camera Lenses", Path: "Cameras & Photo > Lenses & Filters > Lenses"},
	{Key: "オーディオ", ID: "14969", Name: "Portable Audio & Headphones", Path: "Consumer Electronics > Portable Audio & Headphones"},
	{Key: "イヤホン", ID: "112529", Name: "Headphones", Path: "Consumer Electronics > Portable Audio & Headphones > Headphones"},
	{Key: "ヘッドホン", ID: "112529", Name: "Headphones", Path: "Consumer Electronics > Portable Audio & Headphones > Headphones"},

	// Toys and hobby
	{Key: "おもちゃ", ID: "220", Name: "Toys & Hobbies", Path: "Toys & Hobbies"},
	{Key: "プラモデル", ID: "1188", Name: "Models & Kits", Path: "Toys & Hobbies > Models & Kits",
		ItemSpecifics: map[string][]string{"Type": {"Model Kit"}, "Country/Region of Manufacture": {"Japan"}}},
	{Key: "ガンプラ", ID: "158627", Name: "Gundam Models", Path: "Toys & Hobbies > Models & Kits > Gundam",
		ItemSpecifics: map[string][]string{"Brand": {"Bandai"}, "Type": {"Gundam"}, "Country/Region of Manufacture": {"Japan"}}},
	{Key: "ミニカー", ID: "222", Name: "Diecast & Toy Vehicles", Path: "Toys & Hobbies > Diecast & Toy Vehicles"},

	// Instruments
	{Key: "楽器", ID: "619", Name: "Musical Instruments & Gear", Path: "Musical Instruments & Gear"},
	{Key: "ギター", ID: "33034", Name: "Electric Guitars", Path: "Musical Instruments & Gear > Guitars & Basses > Electric Guitars"},
	{Key: "キーボード", ID: "180061", Name: "Synthesizers", Path: "Musical Instruments & Gear > Pianos, Keyboards & Organs > Synthesizers"},

	// Collectibles
	{Key: "アンティーク", ID: "20081", Name: "Antiques", Path: "Antiques"},
	{Key: "骨董品", ID: "20081", Name: "Antiques", Path: "Antiques"},
	{Key: "美術品", ID: "550", Name: "Art", Path: "Art"},
	{Key: "切手", ID: "260", Name: "Stamps", Path: "Stamps"},
	{Key: "コイン", ID: "11116", Name: "Coins & Paper Money", Path: "Coins & Paper Money"},

	// Sports
	{Key: "スポーツ用品", ID: "888", Name: "Sporting Goods", Path: "Sporting Goods"},
	{Key: "ゴルフ", ID: "1513", Name: "Golf", Path: "Sporting Goods > Golf"},
	{Key: "釣り", ID: "1492", Name: "Fishing", Path: "Sporting Goods > Fishing"},

	// Home and kitchen
	{Key: "キッチン用品", ID: "20625", Name: "Kitchen, Dining & Bar", Path: "Home & Garden > Kitchen, Dining & Bar"},
	{Key: "家電", ID: "20710", Name: "Home Appliances", Path: "Home & Garden > Major Appliances"},
	{Key: "インテリア", ID: "10033", Name: "Home Decor", Path: "Home & Garden > Home Decor"},
}

// categoryAliases lists the alternate spellings sellers commonly use.
// Scan order matters for keyword inference.
var categoryAliases = []AliasEntry{
	{Category: "腕時計", Aliases: []string{"ウォッチ", "watch", "WATCH", "時計", "メンズ腕時計", "レディース腕時計"}},
	{Category: "アニメフィギュア", Aliases: []string{"フィギア", "figure", "FIGURE", "スケールフィギュア", "美少女フィギュア"}},
	{Category: "ゲームソフト", Aliases: []string{"ゲーム", "ビデオゲーム", "テレビゲーム", "PS5", "PS4", "Switch", "ニンテンドー"}},
	{Category: "トレーディングカード", Aliases: []string{"トレカ", "TCG", "カードゲーム", "コレクションカード"}},
	{Category: "バッグ", Aliases: []string{"鞄", "かばん", "ハンドバッグ", "ショルダーバッグ", "トートバッグ", "リュック", "バックパック"}},
	{Category: "カメラ", Aliases: []string{"デジカメ", "デジタルカメラ", "ミラーレス", "一眼レフ", "DSLR"}},
}

// brandHints map well-known brands to their most likely category. Watch
// brands come first so they win over broader brands in mixed listings.
var brandHints = []BrandHint{
	{Brand: "SEIKO", Category: "腕時計"},
	{Brand: "CITIZEN", Category: "腕時計"},
	{Brand: "CASIO", Category: "腕時計"},
	{Brand: "ORIENT", Category: "腕時計"},
	{Brand: "OMEGA", Category: "腕時計"},
	{Brand: "ROLEX", Category: "腕時計"},
	{Brand: "TAG HEUER", Category: "腕時計"},
	{Brand: "TISSOT", Category: "腕時計"},
	{Brand: "HAMILTON", Category: "腕時計"},
	{Brand: "GUCCI", Category: "バッグ"},
	{Brand: "LOUIS VUITTON", Category: "バッグ"},
	{Brand: "CHANEL", Category: "バッグ"},
	{Brand: "HERMES", Category: "バッグ"},
	{Brand: "PRADA", Category: "バッグ"},
	{Brand: "COACH", Category: "バッグ"},
	{Brand: "BANDAI", Category: "フィギュア"},
	{Brand: "GOOD SMILE", Category: "アニメフィギュア"},
	{Brand: "KOTOBUKIYA", Category: "アニメフィギュア"},
	{Brand: "ALTER", Category: "アニメフィギュア"},
	{Brand: "CANON", Category: "カメラ"},
	{Brand: "NIKON", Category: "カメラ"},
	{Brand: "FUJIFILM", Category: "カメラ"},
	{Brand: "OLYMPUS", Category: "カメラ"},
	{Brand: "NIKE", Category: "靴"},
	{Brand: "ADIDAS", Category: "靴"},
	{Brand: "POKEMON", Category: "ポケモンカード"},
}

var categoryByKey map[string]int

func init() {
	categoryByKey = make(map[string]int, len(categoryTable))
	for i, def := range categoryTable {
		if _, exists := categoryByKey[def.Key]; !exists {
			categoryByKey[def.Key] = i
		}
	}
}

// LookupCategory resolves a Japanese source category name to its definition.
func LookupCategory(key string) (CategoryDefinition, bool) {
	i, ok := categoryByKey[key]
	if !ok {
		return CategoryDefinition{}, false
	}
	return categoryTable[i], true
}

// AllCategories returns every category definition in table order.
func AllCategories() []CategoryDefinition {
	out := make([]CategoryDefinition, len(categoryTable))
	copy(out, categoryTable)
	return out
}

// ItemSpecificsFor returns the item-specific defaults for a marketplace
// category id. The first table entry carrying that id wins.
func ItemSpecificsFor(categoryID string) (map[string][]string, bool) {
	for _, def := range categoryTable {
		if def.ID == categoryID {
			return def.ItemSpecifics, true
		}
	}
	return nil, false
}
