// product.go
package dto

type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Color       string  `json:"color"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	ImageRef    string  `json:"imageRef"` // publicId devuelto por la subida
	Tag         string  `json:"tag"`
	Slogan      string  `json:"slogan"`
	OrderLink   string  `json:"orderLink"`
}
