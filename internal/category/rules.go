package category

import "github.com/rezkam/shoplist/internal/domain"

// rule binds keywords to a category. Rules are scanned in slice order and
// the first keyword hit wins, so compound and ambiguous keywords sit above
// the generic ones they would otherwise lose to.
type rule struct {
	key      domain.CategoryKey
	keywords []string
}

// rules is part of the stored data contract: reordering entries changes
// how existing item texts classify. Append new keywords where they do not
// shadow an earlier entry.
var rules = []rule{
	// Overrides for phrases whose words also appear in other categories.
	{domain.CategoryFrozen, []string{
		"ice cream", "frozen", "fish sticks", "fish fingers", "popsicle",
		"גלידה", "קפוא", "ארטיק",
	}},
	{domain.CategoryProduce, []string{
		"eggplant", "iceberg", "sweet potato", "potato",
		"חציל", "תפוח אדמה", "בטטה",
	}},
	{domain.CategoryPantry, []string{
		"peanut butter", "coconut milk", "breadcrumbs", "cornflakes", "corn flakes",
		"tomato paste", "tomato sauce", "canned",
		"חמאת בוטנים", "פירורי לחם", "קורנפלקס", "רסק עגבניות", "דגני בוקר", "דגנים", "שימורים",
	}},
	{domain.CategoryBeverages, []string{
		"lemonade", "orange juice", "apple juice", "grape juice", "tomato juice",
		"לימונדה", "מיץ תפוזים", "מיץ תפוחים", "מיץ ענבים", "מיץ עגבניות",
	}},
	{domain.CategorySnacks, []string{
		"שוקולד", "סוכריות", "סוכרי", "בייגלה",
	}},
	{domain.CategoryPersonalCare, []string{
		"hand cream", "face cream", "shaving", "body lotion",
		"מרכך שיער", "גילוח", "קרם ידיים",
	}},
	{domain.CategoryDairy, []string{
		"chocolate milk", "cream cheese", "sour cream",
		"שוקו", "שמנת", "גבינת שמנת",
	}},
	{domain.CategoryBaby, []string{
		"baby", "diaper", "nappies", "formula", "pacifier",
		"חיתול", "מטרנה", "סימילאק", "מוצץ", "מגבונים", "תינוק",
	}},

	// One entry per category, in display order.
	{domain.CategoryProduce, []string{
		"apple", "banana", "orange", "lemon", "lime", "tomato", "cucumber", "onion",
		"garlic", "carrot", "lettuce", "cabbage", "pepper", "avocado", "grape",
		"strawberr", "melon", "watermelon", "peach", "pear", "plum", "mango",
		"zucchini", "spinach", "broccoli", "cauliflower", "mushroom", "herb",
		"parsley", "cilantro", "coriander", "dill", "mint", "celery", "corn",
		"fruit", "vegetable", "salad", "kale", "beet",
		"תפוח", "בננה", "תפוז", "לימון", "עגבני", "מלפפון", "בצל", "שום", "גזר",
		"חסה", "כרוב", "פלפל", "אבוקדו", "ענבים", "תות", "מלון", "אבטיח", "אפרסק",
		"אגס", "שזיף", "מנגו", "קישוא", "תרד", "ברוקולי", "כרובית", "פטריות",
		"פטרוזיליה", "כוסברה", "שמיר", "נענע", "סלרי", "תירס", "פירות", "ירקות",
		"סלק",
	}},
	{domain.CategoryDairy, []string{
		"milk", "cheese", "yogurt", "yoghurt", "butter", "cream", "egg", "cottage",
		"labneh", "kefir", "mozzarella", "parmesan", "feta",
		"חלב", "גבינה", "גבינת", "יוגורט", "חמאה", "ביצים", "ביצה", "קוטג", "לבנה",
		"אשל", "גיל", "מעדן", "פודינג", "בולגרית", "צפתית",
	}},
	{domain.CategoryMeat, []string{
		"chicken", "beef", "steak", "turkey", "lamb", "pork", "ham", "bacon",
		"sausage", "hot dog", "salami", "meat", "schnitzel", "burger", "mince",
		"עוף", "בשר", "בקר", "הודו", "כבש", "נקניק", "שניצל", "המבורגר", "קבב",
		"פרגית", "חזה", "כנפיים", "טחון",
	}},
	{domain.CategoryFish, []string{
		"fish", "salmon", "tuna", "cod", "tilapia", "shrimp", "sardine", "herring",
		"דג", "סלמון", "טונה", "אמנון", "לברק", "דניס", "הרינג", "סרדינים",
	}},
	{domain.CategoryBakery, []string{
		"bread", "pita", "bagel", "bun", "roll", "baguette", "croissant", "challah",
		"cake", "muffin", "toast", "tortilla",
		"לחם", "לחמני", "פיתה", "פיתות", "בייגל", "באגט", "קרואסון", "חלה", "עוגה",
		"מאפה", "טוסט", "בורקס",
	}},
	{domain.CategoryPantry, []string{
		"rice", "pasta", "spaghetti", "noodle", "flour", "sugar", "salt", "oil",
		"vinegar", "sauce", "ketchup", "mayo", "mustard", "honey", "jam", "cereal",
		"oat", "lentil", "bean", "chickpea", "hummus", "tahini", "spice", "cinnamon",
		"paprika", "couscous", "quinoa", "bulgur", "yeast", "baking",
		"אורז", "פסטה", "ספגטי", "אטריות", "קמח", "סוכר", "מלח", "שמן", "חומץ",
		"רוטב", "קטשופ", "מיונז", "חרדל", "דבש", "ריבה", "שיבולת", "עדשים",
		"שעועית", "חומוס", "טחינה", "תבלין", "קינמון", "פפריקה", "קוסקוס", "קינואה",
		"בורגול", "שמרים", "פתיתים",
	}},
	{domain.CategoryBeverages, []string{
		"water", "juice", "soda", "cola", "coke", "sprite", "beer", "wine", "coffee",
		"tea", "lemonade", "drink",
		"מים", "מיץ", "סודה", "קולה", "ספרייט", "בירה", "יין", "קפה", "תה",
		"לימונדה", "משקה", "נביעות",
	}},
	{domain.CategorySnacks, []string{
		"chips", "crisps", "chocolate", "candy", "cookie", "biscuit", "cracker",
		"popcorn", "pretzel", "nuts", "almond", "peanut", "snack", "wafer",
		"gum",
		"במבה", "ביסלי", "תפוצ", "שוקולד", "ממתק", "סוכרי", "עוגיות", "עוגיה",
		"קרקר", "פופקורן", "בייגלה", "אגוזים", "שקדים", "בוטנים", "חטיף",
		"ופל", "מסטיק", "גרעינים",
	}},
	{domain.CategoryHousehold, []string{
		"toilet paper", "paper towel", "napkin", "detergent", "dish soap",
		"bleach", "sponge", "trash bag", "garbage bag", "foil", "cling film",
		"cleaner", "softener", "battery", "batteries", "light bulb",
		"נייר טואלט", "מגבות נייר", "מפיות", "אבקת כביסה", "נוזל כלים",
		"סבון כלים", "אקונומיקה", "ספוג", "שקיות", "נייר כסף", "ניילון נצמד",
		"מרכך", "סוללות", "נורה", "ניקוי",
	}},
	{domain.CategoryPersonalCare, []string{
		"shampoo", "conditioner", "soap", "toothpaste", "toothbrush", "deodorant",
		"razor", "lotion", "sunscreen", "tissue", "cotton", "floss",
		"שמפו", "מרכך שיער", "סבון", "משחת שיניים", "מברשת שיניים", "דאודורנט",
		"סכין גילוח", "קרם", "קרם הגנה", "טישו", "צמר גפן", "חוט דנטלי",
	}},
}
