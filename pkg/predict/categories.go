package predict

// FoodCategories are the lowercase category names the model is known to
// emit for food and beverage products. Matching is by substring in either
// direction, so "salty snacks" matches "snacks".
var FoodCategories = []string{
	"snacks",
	"sweet snacks",
	"salty snacks",
	"beverages",
	"carbonated drinks",
	"juices",
	"waters",
	"dairy",
	"dairies",
	"milk",
	"yogurts",
	"cheeses",
	"breakfasts",
	"cereals",
	"breads",
	"biscuits",
	"cakes",
	"chocolates",
	"candies",
	"confectioneries",
	"frozen foods",
	"ice cream",
	"meats",
	"poultry",
	"fishes",
	"seafood",
	"fruits",
	"vegetables",
	"legumes",
	"canned foods",
	"sauces",
	"condiments",
	"spreads",
	"oils",
	"fats",
	"pastas",
	"rice",
	"grains",
	"soups",
	"baby foods",
	"plant-based foods",
	"desserts",
	"coffees",
	"teas",
}
