package usecase

import (
	"strings"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
)

func unsplashPhoto(id string) string {
	return "https://images.unsplash.com/photo-" + id + "?w=500&h=300&fit=crop"
}

// GenericImageURL is returned when nothing else matches.
var GenericImageURL = unsplashPhoto("1482049016688-2d3e1b311543")

// DishImages is matched against the lowercase recipe name in order.
var DishImages = []domain.FallbackEntry{
	{Keyword: "chicken", URL: unsplashPhoto("1598103442097-8138fb71fb3d")},
	{Keyword: "beef", URL: unsplashPhoto("1546833999-b9f581a1996d")},
	{Keyword: "pork", URL: unsplashPhoto("1544025162-d76694265947")},
	{Keyword: "fish", URL: unsplashPhoto("1544943910-4c1dc44aab44")},
	{Keyword: "salmon", URL: unsplashPhoto("1467003909585-2f8a72700288")},
	{Keyword: "shrimp", URL: unsplashPhoto("1565680018434-b513d5573b07")},
	{Keyword: "lamb", URL: unsplashPhoto("1529692236671-f1f6cf9683ba")},
	{Keyword: "pasta", URL: unsplashPhoto("1621996346565-e3dbc353d843")},
	{Keyword: "spaghetti", URL: unsplashPhoto("1621996346565-e3dbc353d843")},
	{Keyword: "pizza", URL: unsplashPhoto("1565299624946-b28f40a0ca4b")},
	{Keyword: "burger", URL: unsplashPhoto("1568901346375-23c9450c58cd")},
	{Keyword: "sandwich", URL: unsplashPhoto("1553909489-cd47e0ef937f")},
	{Keyword: "soup", URL: unsplashPhoto("1547592180-85f173990554")},
	{Keyword: "salad", URL: unsplashPhoto("1512621776951-a57141f2eefd")},
	{Keyword: "steak", URL: unsplashPhoto("1546833999-b9f581a1996d")},
	{Keyword: "tacos", URL: unsplashPhoto("1565299507177-b0ac66763828")},
	{Keyword: "curry", URL: unsplashPhoto("1565557623262-b51c2513a641")},
	{Keyword: "risotto", URL: unsplashPhoto("1476124369491-e7addf5db371")},
	{Keyword: "cake", URL: unsplashPhoto("1578985545062-69928b1d9587")},
	{Keyword: "pie", URL: unsplashPhoto("1464349095431-e9a21285b5f3")},
	{Keyword: "cookies", URL: unsplashPhoto("1499636136210-6f4ee915583e")},
	{Keyword: "brownies", URL: unsplashPhoto("1606313564200-e75d5e30476c")},
	{Keyword: "ice cream", URL: unsplashPhoto("1563805042-7684c019e1cb")},
	{Keyword: "chocolate", URL: unsplashPhoto("1511381939415-e44015466834")},
	{Keyword: "pancakes", URL: unsplashPhoto("1506084868230-bb9d95c24759")},
	{Keyword: "waffles", URL: unsplashPhoto("1562376552-0d160a2f238d")},
	{Keyword: "eggs", URL: unsplashPhoto("1525351484163-7529414344d8")},
	{Keyword: "bacon", URL: unsplashPhoto("1528607929212-2636ec44b982")},
	{Keyword: "toast", URL: unsplashPhoto("1509440159596-0249088772ff")},
	{Keyword: "ramen", URL: unsplashPhoto("1569718212165-3a8278d5f624")},
	{Keyword: "sushi", URL: unsplashPhoto("1571091718767-18b5b1457add")},
	{Keyword: "pad thai", URL: unsplashPhoto("1559847844-d721426d6edc")},
	{Keyword: "biryani", URL: unsplashPhoto("1563379091339-03246963d7d3")},
	{Keyword: "paella", URL: unsplashPhoto("1534080564583-6be75777b70a")},
}

// CuisineImages is matched by exact cuisine first, then by any key appearing
// in the recipe name.
var CuisineImages = []domain.FallbackEntry{
	{Keyword: "italian", URL: unsplashPhoto("1565299624946-b28f40a0ca4b")},
	{Keyword: "mexican", URL: unsplashPhoto("1565299507177-b0ac66763828")},
	{Keyword: "asian", URL: unsplashPhoto("1563379091339-03246963d7d3")},
	{Keyword: "indian", URL: unsplashPhoto("1565557623262-b51c2513a641")},
	{Keyword: "mediterranean", URL: unsplashPhoto("1540189549336-e6e99c3679fe")},
	{Keyword: "american", URL: unsplashPhoto("1568901346375-23c9450c58cd")},
	{Keyword: "french", URL: unsplashPhoto("1546833999-b9f581a1996d")},
	{Keyword: "thai", URL: unsplashPhoto("1559847844-d721426d6edc")},
	{Keyword: "chinese", URL: unsplashPhoto("1569718212165-3a8278d5f624")},
	{Keyword: "japanese", URL: unsplashPhoto("1571091718767-18b5b1457add")},
	{Keyword: "pasta", URL: unsplashPhoto("1621996346565-e3dbc353d843")},
	{Keyword: "pizza", URL: unsplashPhoto("1565299624946-b28f40a0ca4b")},
	{Keyword: "burger", URL: unsplashPhoto("1568901346375-23c9450c58cd")},
	{Keyword: "soup", URL: unsplashPhoto("1547592180-85f173990554")},
	{Keyword: "salad", URL: unsplashPhoto("1512621776951-a57141f2eefd")},
	{Keyword: "chicken", URL: unsplashPhoto("1598103442097-8138fb71fb3d")},
	{Keyword: "beef", URL: unsplashPhoto("1546833999-b9f581a1996d")},
	{Keyword: "fish", URL: unsplashPhoto("1544943910-4c1dc44aab44")},
	{Keyword: "dessert", URL: unsplashPhoto("1551024506-0bccd828d307")},
	{Keyword: "cake", URL: unsplashPhoto("1578985545062-69928b1d9587")},
	{Keyword: "bread", URL: unsplashPhoto("1509440159596-0249088772ff")},
}

// FallbackResolver maps a recipe to a static image without any I/O.
type FallbackResolver struct{}

func (FallbackResolver) Resolve(name, cuisine string) domain.Resolution {
	lowerName := strings.ToLower(name)

	if entry, ok := firstContained(DishImages, lowerName); ok {
		return domain.Resolution{URL: entry.URL, Source: domain.SourceFallbackDish, Term: entry.Keyword}
	}

	lowerCuisine := strings.ToLower(strings.TrimSpace(cuisine))
	if lowerCuisine != "" {
		for _, entry := range CuisineImages {
			if entry.Keyword == lowerCuisine {
				return domain.Resolution{URL: entry.URL, Source: domain.SourceFallbackCuisine, Term: entry.Keyword}
			}
		}
	}

	if entry, ok := firstContained(CuisineImages, lowerName); ok {
		return domain.Resolution{URL: entry.URL, Source: domain.SourceFallbackCategory, Term: entry.Keyword}
	}

	return domain.Resolution{URL: GenericImageURL, Source: domain.SourceFallbackGeneric}
}

func firstContained(table []domain.FallbackEntry, text string) (domain.FallbackEntry, bool) {
	if text == "" {
		return domain.FallbackEntry{}, false
	}
	for _, entry := range table {
		if strings.Contains(text, entry.Keyword) {
			return entry, true
		}
	}
	return domain.FallbackEntry{}, false
}
