package domain

// Unit is the measurement unit of an item quantity.
// Value object - immutable string enum.
type Unit string

const (
	UnitUnits Unit = "units"
	UnitKg    Unit = "kg"
	UnitGram  Unit = "g"
)

// CategoryKey identifies a grocery category used for grouping.
// Value object - immutable string enum.
type CategoryKey string

const (
	CategoryProduce      CategoryKey = "produce"
	CategoryDairy        CategoryKey = "dairy"
	CategoryMeat         CategoryKey = "meat"
	CategoryFish         CategoryKey = "fish"
	CategoryBakery       CategoryKey = "bakery"
	CategoryPantry       CategoryKey = "pantry"
	CategoryFrozen       CategoryKey = "frozen"
	CategoryBeverages    CategoryKey = "beverages"
	CategorySnacks       CategoryKey = "snacks"
	CategoryHousehold    CategoryKey = "household"
	CategoryPersonalCare CategoryKey = "personal_care"
	CategoryBaby         CategoryKey = "baby"
	CategoryOther        CategoryKey = "other"
)

// Language selects which localized names are shown.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHebrew  Language = "he"
)
