package seed

import "github.com/culinarynotes/culinarynotes/internal/model"

func sampleCategories() []*model.Category {
	return []*model.Category{
		{Name: "Ukrainian Cuisine", Description: "Traditional dishes from Ukraine"},
		{Name: "Soups", Description: "Warm and hearty soups for any occasion"},
		{Name: "Main Dishes", Description: "Substantial dishes that form the centerpiece of a meal"},
	}
}

func sampleIngredients() []*model.Ingredient {
	return []*model.Ingredient{
		{Name: "Beets", Unit: "pieces", Description: "Red root vegetable, essential for borsch"},
		{Name: "Potatoes", Unit: "pieces", Description: "Starchy tubers used in many Ukrainian dishes"},
		{Name: "Cabbage", Unit: "grams", Description: "Leafy green or purple vegetable"},
		{Name: "Carrots", Unit: "pieces", Description: "Orange root vegetable"},
		{Name: "Onions", Unit: "pieces", Description: "Pungent bulb vegetable"},
		{Name: "Chicken Breast", Unit: "pieces", Description: "Boneless, skinless chicken breast"},
		{Name: "Butter", Unit: "grams", Description: "Dairy product made from milk fat"},
		{Name: "Breadcrumbs", Unit: "grams", Description: "Dried, ground bread used for coating"},
		{Name: "Fresh Herbs", Unit: "grams", Description: "Mix of parsley, dill, and other herbs"},
	}
}

func sampleRecipes() []*model.Recipe {
	return []*model.Recipe{
		{
			Title:       "Ukrainian Borsch",
			Description: "Traditional Ukrainian beet soup with a rich and hearty flavor. Perfect for cold winter days!",
			Instructions: `1. In a large pot, sauté onions and carrots until soft.
2. Add beets and cook for 5 minutes.
3. Add potatoes, cabbage, and tomato paste, then pour in beef broth.
4. Simmer for 25-30 minutes until vegetables are tender.
5. Season with salt, pepper, and dill.
6. Serve hot with a dollop of sour cream and fresh bread.`,
			PreparationTimeMinutes: 20,
			CookingTimeMinutes:     40,
			Servings:               6,
		},
		{
			Title:       "Chicken Kyiv",
			Description: "Classic Ukrainian dish of chicken breast pounded and rolled around herb butter, then breaded and fried.",
			Instructions: `1. Mix softened butter with chopped herbs, garlic, salt, and pepper.
2. Form into small logs and freeze for 30 minutes.
3. Pound chicken breasts until thin.
4. Place a butter log in the center of each breast and roll tightly.
5. Dip each roll in flour, then beaten egg, then breadcrumbs.
6. Fry in hot oil until golden brown and cooked through, about 8-10 minutes.
7. Serve hot with mashed potatoes and vegetables.`,
			PreparationTimeMinutes: 45,
			CookingTimeMinutes:     15,
			Servings:               4,
		},
	}
}
