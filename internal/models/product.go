package models

// Product represents a catalog record as stored and as returned by the API
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

// ProductInput is the request body for create and update.
// Required fields are pointers so that an absent field can be told apart
// from an empty string or a zero price.
type ProductInput struct {
	Name        *string  `json:"name" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Category    *string  `json:"category" validate:"required"`
	ImageURL    string   `json:"image_url"`
}

// Apply overwrites every field of p except ID with the input values.
// Callers must validate the input first.
func (in ProductInput) Apply(p *Product) {
	p.Name = *in.Name
	p.Description = *in.Description
	p.Price = *in.Price
	p.Category = *in.Category
	p.ImageURL = in.ImageURL
}

// ListParams are the pagination and filter parameters of the list endpoint
type ListParams struct {
	Skip     int    `json:"skip" validate:"gte=0"`
	Limit    int    `json:"limit" validate:"gte=1,lte=100"`
	Category string `json:"category"`
}

// Defaults for ListParams
const (
	DefaultSkip  = 0
	DefaultLimit = 100
	MaxLimit     = 100
)
