package services

import "github.com/trancendwear/trancend/app/models"

// Seed data served when the backend is unreachable. The storefront must
// keep rendering a believable catalog through an outage, so the seeds
// mirror the launch collection.

var seedColors = models.ColorList{
	{Name: "Noir", Hex: "#0a0a0a"},
	{Name: "Blanc cassé", Hex: "#f5f4f0"},
	{Name: "Kaki", Hex: "#4a4a35"},
}

var seedCategories = []models.Category{
	{ID: "c1", Name: "TOPS", Slug: "tops", Order: 1, Active: true, CollectionID: "categories"},
	{ID: "c2", Name: "BOTTOMS", Slug: "bottoms", Order: 2, Active: true, CollectionID: "categories"},
	{ID: "c3", Name: "SETS", Slug: "sets", Order: 3, Active: true, CollectionID: "categories"},
	{ID: "c4", Name: "ACCESSORIES", Slug: "accessories", Order: 4, Active: true, CollectionID: "categories"},
	{ID: "c5", Name: "UPCYCLING", Slug: "upcycling", Order: 5, Active: true, CollectionID: "categories"},
}

var seedProducts = []models.Product{
	{
		ID: "1", Name: "VOID TEE", Price: 45,
		Description: "Premium heavyweight cotton tee. Drop shoulders, pre-washed.",
		Category:    "tops", Sizes: []string{"XS", "S", "M", "L", "XL"}, Colors: seedColors,
		InStock: true, Featured: true, CollectionID: "products", Created: "2025-01-01",
	},
	{
		ID: "2", Name: "OBLIVION HOODIE", Price: 89,
		Description: "Oversized French terry hoodie. Kangaroo pocket, 400gsm.",
		Category:    "tops", Sizes: []string{"S", "M", "L", "XL"},
		Colors:      models.ColorList{{Name: "Noir", Hex: "#0a0a0a"}, {Name: "Gris", Hex: "#888"}},
		InStock:     true, Featured: true, CollectionID: "products", Created: "2025-01-01",
	},
	{
		ID: "3", Name: "ABYSS CARGO PANT", Price: 110,
		Description: "Wide-leg cargo, zip pockets. Relaxed fit.",
		Category:    "bottoms", Sizes: []string{"XS", "S", "M", "L"},
		Colors:      models.ColorList{{Name: "Kaki", Hex: "#4a4a35"}, {Name: "Noir", Hex: "#0a0a0a"}},
		InStock:     true, Featured: true, CollectionID: "products", Created: "2025-01-01",
	},
	{
		ID: "4", Name: "ASCEND SET", Price: 145,
		Description: "Matching tee + shorts co-ord in structured cotton.",
		Category:    "sets", Sizes: []string{"XS", "S", "M", "L", "XL"}, Colors: seedColors,
		InStock:     true, Featured: false, CollectionID: "products", Created: "2025-01-01",
	},
	{
		ID: "5", Name: "TRANSCEND CAP", Price: 35,
		Description: "6-panel structured cap. Embroidered logo.",
		Category:    "accessories", Sizes: []string{"ONE SIZE"},
		Colors:      models.ColorList{{Name: "Noir", Hex: "#0a0a0a"}, {Name: "Blanc cassé", Hex: "#f5f4f0"}},
		InStock:     true, Featured: true, CollectionID: "products", Created: "2025-01-01",
	},
	{
		ID: "6", Name: "REWORK JACKET", Price: 195,
		Description: "One-of-a-kind upcycled denim jacket. Hand-customized.",
		Category:    "upcycling", Sizes: []string{"S", "M", "L"},
		Colors:      models.ColorList{{Name: "Denim", Hex: "#3a5a8a"}},
		InStock:     true, Featured: true, CollectionID: "products", Created: "2025-01-01",
	},
	{
		ID: "7", Name: "ECLIPSE SHORTS", Price: 65,
		Description: "Relaxed-fit shorts in heavy twill. Side seam pockets.",
		Category:    "bottoms", Sizes: []string{"XS", "S", "M", "L", "XL"},
		Colors:      models.ColorList{{Name: "Noir", Hex: "#0a0a0a"}, {Name: "Sable", Hex: "#c4a882"}},
		InStock:     true, Featured: true, CollectionID: "products", Created: "2025-01-01",
	},
	{
		ID: "8", Name: "ALTITUDE L/S TEE", Price: 58,
		Description: "Boxy long-sleeve tee in organic cotton.",
		Category:    "tops", Sizes: []string{"S", "M", "L", "XL"}, Colors: seedColors,
		InStock:     true, Featured: true, CollectionID: "products", Created: "2025-01-01",
	},
}

var seedHeroSlides = []models.HeroSlide{
	{
		ID: "h1", Title: "Collection 2025", Subtitle: "L'amour du dépassement",
		CTALabel: "DÉCOUVRIR", CTAURL: "/shop",
		Order:    1, Active: true, CollectionID: "hero_slides",
	},
	{
		ID: "h2", Title: "UPCYCLING", Subtitle: "Pièces uniques & handcrafted",
		CTALabel: "EXPLORER", CTAURL: "/shop?cat=upcycling",
		Order:    2, Active: true, CollectionID: "hero_slides",
	},
	{
		ID: "h3", Title: "NOUVEAUTÉS", Subtitle: "Drops exclusifs cette saison",
		CTALabel: "SHOP NOW", CTAURL: "/shop",
		Order:    3, Active: true, CollectionID: "hero_slides",
	},
}

// seedCategoryList returns a fresh copy so callers can't mutate the seeds.
func seedCategoryList() []models.Category {
	return append([]models.Category(nil), seedCategories...)
}

func seedProductList() []models.Product {
	return append([]models.Product(nil), seedProducts...)
}

func seedHeroSlideList() []models.HeroSlide {
	return append([]models.HeroSlide(nil), seedHeroSlides...)
}

// seedProduct finds a seed product by id, nil when absent.
func seedProduct(id string) *models.Product {
	for i := range seedProducts {
		if seedProducts[i].ID == id {
			p := seedProducts[i]
			return &p
		}
	}
	return nil
}
