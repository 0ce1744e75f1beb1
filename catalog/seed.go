package catalog

import (
	"cosmetics-storefront/models"

	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func oldPrice(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// SeedCategories are the catalog sections of the storefront
var SeedCategories = []models.Category{
	{ID: "1", Name: "Укладка волос", Slug: "styling", Icon: "✂️"},
	{ID: "2", Name: "Шампуни", Slug: "shampoo", Icon: "🧴"},
	{ID: "3", Name: "Парфюмерия", Slug: "perfume", Icon: "🌟"},
	{ID: "4", Name: "Гели для душа", Slug: "shower", Icon: "🚿"},
	{ID: "5", Name: "Уход за лицом", Slug: "face", Icon: "💆"},
	{ID: "6", Name: "Уход за бородой", Slug: "beard", Icon: "🧔"},
}

// SeedBrands are the brands the store carries
var SeedBrands = []string{
	"American Crew", "Baxter of California", "Proraso", "Acqua di Parma",
	"Molton Brown", "L'Occitane", "Dior", "Chanel",
}

// SeedProducts is the catalog used until products are managed in the database
var SeedProducts = []models.Product{
	{ID: "1", Name: "Fiber Cream Паста для укладки", Brand: "American Crew", Category: "styling", Price: price("45.90"), OldPrice: oldPrice("55.00"),
		Description: "Паста средней фиксации с матовым финишем.", Image: "https://images.unsplash.com/photo-1585751119414-ef2636f8aede?w=400&h=400&fit=crop",
		Rating: 4.8, InStock: true, Volume: "85 г", Tags: []string{TagHit, "матовая"}},
	{ID: "2", Name: "Daily Moisturizing Shampoo", Brand: "American Crew", Category: "shampoo", Price: price("32.50"),
		Description: "Ежедневный увлажняющий шампунь с мятой и чайным деревом.", Image: "https://images.unsplash.com/photo-1631729371254-42c2892f0e6e?w=400&h=400&fit=crop",
		Rating: 4.5, InStock: true, Volume: "250 мл"},
	{ID: "3", Name: "Colonia Eau de Cologne", Brand: "Acqua di Parma", Category: "perfume", Price: price("189.00"), OldPrice: oldPrice("220.00"),
		Description: "Итальянский одеколон с нотами лаванды, розмарина и цитрусовых.", Image: "https://images.unsplash.com/photo-1594035910387-fea081e83b32?w=400&h=400&fit=crop",
		Rating: 4.9, InStock: true, Volume: "100 мл", Tags: []string{TagPremium}},
	{ID: "4", Name: "Clay Pomade Глина для волос", Brand: "Baxter of California", Category: "styling", Price: price("52.00"),
		Description: "Глина сильной фиксации с натуральным матовым эффектом.", Image: "https://images.unsplash.com/photo-1626808642875-0aa545482dfb?w=400&h=400&fit=crop",
		Rating: 4.7, InStock: true, Volume: "60 мл", Tags: []string{TagNew}},
	{ID: "5", Name: "Крем для бритья с эвкалиптом", Brand: "Proraso", Category: "face", Price: price("18.90"),
		Description: "Освежающий крем для бритья с ментолом и эвкалиптом.", Image: "https://images.unsplash.com/photo-1621607512022-6aecc834d215?w=400&h=400&fit=crop",
		Rating: 4.6, InStock: true, Volume: "150 мл"},
	{ID: "6", Name: "Re-Charge Black Pepper Гель для душа", Brand: "Molton Brown", Category: "shower", Price: price("68.00"),
		Description: "Бодрящий гель для душа с нотами чёрного перца.", Image: "https://images.unsplash.com/photo-1556228578-0d85b1a4d571?w=400&h=400&fit=crop",
		Rating: 4.8, InStock: true, Volume: "300 мл", Tags: []string{TagPremium}},
	{ID: "7", Name: "Sauvage Eau de Parfum", Brand: "Dior", Category: "perfume", Price: price("245.00"),
		Description: "Мужской аромат с нотами бергамота, амброксана и ванили.", Image: "https://images.unsplash.com/photo-1523293182086-7651a899d37f?w=400&h=400&fit=crop",
		Rating: 4.9, InStock: true, Volume: "100 мл", Tags: []string{TagHit, TagPremium}},
	{ID: "8", Name: "Масло для бороды", Brand: "L'Occitane", Category: "beard", Price: price("38.50"),
		Description: "Питательное масло для ухода за бородой.", Image: "https://images.unsplash.com/photo-1608248543803-ba4f8c70ae0b?w=400&h=400&fit=crop",
		Rating: 4.4, InStock: true, Volume: "30 мл"},
	{ID: "9", Name: "Bleu de Chanel Eau de Toilette", Brand: "Chanel", Category: "perfume", Price: price("275.00"),
		Description: "Древесно-ароматический мужской аромат.", Image: "https://images.unsplash.com/photo-1541643600914-78b084683601?w=400&h=400&fit=crop",
		Rating: 4.9, InStock: true, Volume: "100 мл", Tags: []string{TagHit}},
	{ID: "10", Name: "Forming Cream средняя фиксация", Brand: "American Crew", Category: "styling", Price: price("39.90"),
		Description: "Крем для укладки средней фиксации со средним блеском.", Image: "https://images.unsplash.com/photo-1597854710175-2a3407f66690?w=400&h=400&fit=crop",
		Rating: 4.5, InStock: true, Volume: "85 г"},
	{ID: "11", Name: "Шампунь для бороды", Brand: "Proraso", Category: "beard", Price: price("22.50"),
		Description: "Шампунь для очищения и смягчения бороды.", Image: "https://images.unsplash.com/photo-1535585209827-a15fcdbc4c2d?w=400&h=400&fit=crop",
		Rating: 4.3, InStock: true, Volume: "200 мл"},
	{ID: "12", Name: "Увлажняющий крем для лица", Brand: "Baxter of California", Category: "face", Price: price("56.00"), OldPrice: oldPrice("65.00"),
		Description: "Лёгкий увлажняющий крем с витамином Е и алоэ вера.", Image: "https://images.unsplash.com/photo-1570194065650-d99fb4a38c0a?w=400&h=400&fit=crop",
		Rating: 4.6, InStock: true, Volume: "75 мл", Tags: []string{TagNew}},
}

// NewSeedIndex indexes the seed catalog
func NewSeedIndex() *Index {
	return NewIndex(SeedProducts, SeedCategories, SeedBrands)
}
