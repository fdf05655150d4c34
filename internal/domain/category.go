package domain

// CategoryOther используется, если категория не выбрана.
const CategoryOther = "Other"

// Categories — фиксированный список категорий формы добавления товара.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Home & Kitchen",
	"Beauty & Personal Care",
	"Toys & Games",
	"Books",
	"Sports & Outdoors",
	"Automotive",
	"Health & Wellness",
	"Grocery",
	CategoryOther,
}

// IsKnownCategory сообщает, входит ли категория в список.
func IsKnownCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
