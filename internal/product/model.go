package product

type Category string

const (
	Vegetables Category = "vegetables"
	Eggs       Category = "eggs"
	Mushrooms  Category = "mushrooms"
	Chicken    Category = "chicken"
	Fish       Category = "fish"
)

var Categories = []Category{Vegetables, Eggs, Mushrooms, Chicken, Fish}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Product is catalog reference data. The order core only refers to it by ID.
type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Unit     string   `json:"unit"`
	// Price in minor currency units
	Price int64 `json:"price"`
	Stock int   `json:"stock"`
}

// ListResponse represents the catalog listing.
// swagger:model
type ListResponse struct {
	Category Category  `json:"category,omitempty"`
	Items    []Product `json:"items"`
}
