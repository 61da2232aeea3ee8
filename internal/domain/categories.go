package domain

// CategoryInfo is the display metadata of a category.
type CategoryInfo struct {
	Icon   string `json:"icon"`
	NameEn string `json:"name_en"`
	NameHe string `json:"name_he"`
}

// Name returns the category name in the given language.
// Unknown languages fall back to English.
func (c CategoryInfo) Name(lang Language) string {
	if lang == LanguageHebrew {
		return c.NameHe
	}
	return c.NameEn
}

// categoryOrder is the fixed display order over every category key.
// Categories absent from a list are skipped, never reordered.
var categoryOrder = []CategoryKey{
	CategoryProduce,
	CategoryDairy,
	CategoryMeat,
	CategoryFish,
	CategoryBakery,
	CategoryPantry,
	CategoryFrozen,
	CategoryBeverages,
	CategorySnacks,
	CategoryHousehold,
	CategoryPersonalCare,
	CategoryBaby,
	CategoryOther,
}

var categoryTable = map[CategoryKey]CategoryInfo{
	CategoryProduce:      {Icon: "🥬", NameEn: "Fruits & Vegetables", NameHe: "פירות וירקות"},
	CategoryDairy:        {Icon: "🧀", NameEn: "Dairy & Eggs", NameHe: "מוצרי חלב וביצים"},
	CategoryMeat:         {Icon: "🥩", NameEn: "Meat & Poultry", NameHe: "בשר ועוף"},
	CategoryFish:         {Icon: "🐟", NameEn: "Fish", NameHe: "דגים"},
	CategoryBakery:       {Icon: "🍞", NameEn: "Bakery", NameHe: "מאפייה"},
	CategoryPantry:       {Icon: "🥫", NameEn: "Pantry", NameHe: "מזווה"},
	CategoryFrozen:       {Icon: "🧊", NameEn: "Frozen", NameHe: "קפואים"},
	CategoryBeverages:    {Icon: "🥤", NameEn: "Beverages", NameHe: "משקאות"},
	CategorySnacks:       {Icon: "🍫", NameEn: "Snacks & Sweets", NameHe: "חטיפים ומתוקים"},
	CategoryHousehold:    {Icon: "🧽", NameEn: "Household", NameHe: "ניקיון ובית"},
	CategoryPersonalCare: {Icon: "🧴", NameEn: "Personal Care", NameHe: "טיפוח והיגיינה"},
	CategoryBaby:         {Icon: "🍼", NameEn: "Baby", NameHe: "תינוקות"},
	CategoryOther:        {Icon: "🛒", NameEn: "Other", NameHe: "אחר"},
}

// CategoryOrder returns the display order over all category keys.
// The returned slice is a copy.
func CategoryOrder() []CategoryKey {
	order := make([]CategoryKey, len(categoryOrder))
	copy(order, categoryOrder)
	return order
}

// LookupCategory returns the metadata for key.
func LookupCategory(key CategoryKey) (CategoryInfo, bool) {
	info, ok := categoryTable[key]
	return info, ok
}

// CategoryRank returns the position of key in the display order, or -1.
func CategoryRank(key CategoryKey) int {
	for i, k := range categoryOrder {
		if k == key {
			return i
		}
	}
	return -1
}
