package domain

type ProductCategory string

const (
	CategoryFruit     ProductCategory = "fruit"
	CategoryVegetable ProductCategory = "vegetable"
	CategoryHerb      ProductCategory = "herb"
	CategoryOther     ProductCategory = "other"
)

// Product is owned by the catalog. Cart lines reference it by value snapshot;
// InStock is advisory only, enforcement is the caller's responsibility.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    ProductCategory `json:"category"`
	Price       float64         `json:"price"`
	FarmerName  string          `json:"farmer_name"`
	InStock     bool            `json:"in_stock"`
}
