package models

// Product represents a catalog product. Documents are keyed by an
// integer identifier assigned by the server at creation time.
type Product struct {
	ID            int     `json:"id" bson:"_id"`
	Name          string  `json:"name" bson:"name"`
	Type          string  `json:"type" bson:"type"`
	Price         float64 `json:"price" bson:"price"`
	Rating        float64 `json:"rating" bson:"rating"`
	WarrantyYears int     `json:"warranty_years" bson:"warranty_years"`
	Available     bool    `json:"available" bson:"available"`
}

// CreateProductRequest is the request body for product creation.
// Rating, WarrantyYears and Available are pointers so that an absent
// field can be told apart from an explicit zero value and defaulted.
// Bounds on rating and warranty_years are intentionally not checked
// here; the server accepts whatever the client sends.
type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required"`
	Type          string   `json:"type" validate:"required"`
	Price         *float64 `json:"price" validate:"required"`
	Rating        *float64 `json:"rating"`
	WarrantyYears *int     `json:"warranty_years"`
	Available     *bool    `json:"available"`
}

// ProductUpdate carries the mutable fields of a product for a partial
// update. A nil field is left unchanged. There is no ID field: the id
// in the request path is authoritative and an id in the body is
// silently ignored by the JSON decoder.
type ProductUpdate struct {
	Name          *string  `json:"name"`
	Type          *string  `json:"type"`
	Price         *float64 `json:"price"`
	Rating        *float64 `json:"rating"`
	WarrantyYears *int     `json:"warranty_years"`
	Available     *bool    `json:"available"`
}
