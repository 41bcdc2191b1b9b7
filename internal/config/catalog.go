package config

// Keyword tables used by the deal parser. Both are ordered: the first
// matching entry wins, so more specific labels must come before broader ones.

// KnownStore pairs a retailer label with the substrings that identify it.
type KnownStore struct {
	Label    string
	Patterns []string
}

var KnownStores = []KnownStore{
	{Label: "Amazon", Patterns: []string{"amazon"}},
	{Label: "Walmart", Patterns: []string{"walmart"}},
	{Label: "Target", Patterns: []string{"target"}},
	{Label: "Best Buy", Patterns: []string{"best buy", "bestbuy"}},
	{Label: "Costco", Patterns: []string{"costco"}},
	{Label: "Home Depot", Patterns: []string{"home depot", "homedepot"}},
	{Label: "Lowe's", Patterns: []string{"lowe's", "lowes"}},
	{Label: "Macy's", Patterns: []string{"macy's", "macys"}},
	{Label: "Kohl's", Patterns: []string{"kohl's", "kohls"}},
	{Label: "eBay", Patterns: []string{"ebay"}},
	{Label: "Sam's Club", Patterns: []string{"sam's club", "sams club"}},
}

// Category pairs a category label with its trigger keywords.
type Category struct {
	Label    string
	Keywords []string
}

// CategoryOther is returned when no keyword matches.
const CategoryOther = "Other"

var Categories = []Category{
	{Label: "Electronics", Keywords: []string{"laptop", "tv", "headphone", "tablet", "phone", "camera", "monitor", "earbud", "speaker"}},
	{Label: "Home & Kitchen", Keywords: []string{"kitchen", "cookware", "vacuum", "furniture", "mattress", "blender", "air fryer"}},
	{Label: "Fashion", Keywords: []string{"shoes", "sneaker", "shirt", "jacket", "jeans", "dress", "apparel", "clothing"}},
	{Label: "Beauty", Keywords: []string{"makeup", "skincare", "shampoo", "perfume", "cosmetic"}},
	{Label: "Toys & Games", Keywords: []string{"toy", "lego", "board game", "puzzle", "nerf"}},
	{Label: "Sports & Outdoors", Keywords: []string{"fitness", "bike", "camping", "treadmill", "dumbbell", "outdoor"}},
	{Label: "Grocery", Keywords: []string{"snack", "coffee", "grocery", "cereal", "candy"}},
	{Label: "Automotive", Keywords: []string{"car", "tire", "motor oil", "dash cam"}},
	{Label: "Books", Keywords: []string{"book", "kindle", "audiobook", "novel"}},
}
