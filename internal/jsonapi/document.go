// Package jsonapi renders products as JSON:API documents and decodes
// JSON:API request documents.
package jsonapi

import (
	"strconv"

	"product-catalog/internal/domain"
)

// MediaType is the JSON:API media type used for requests and responses
const MediaType = "application/vnd.api+json"

// ProductType is the resource type of products
const ProductType = "products"

// ProductsPath is the collection path products are served under
const ProductsPath = "/products"

// Links holds resource-level links
type Links struct {
	Self string `json:"self"`
}

// ProductAttributes is the attributes member of a product resource
type ProductAttributes struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
}

// Resource is a serialized product resource object
type Resource struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Links      Links             `json:"links"`
	Attributes ProductAttributes `json:"attributes"`
}

// Document is a top-level document holding a single resource
type Document struct {
	Data Resource `json:"data"`
}

// CollectionDocument is a top-level document holding a resource array
type CollectionDocument struct {
	Data []Resource `json:"data"`
}

// ProductSerializer turns products into resource objects. Every handler
// goes through the same serializer so the document shape stays uniform.
type ProductSerializer struct {
	baseURL string
}

// NewProductSerializer creates a serializer building self links on baseURL
// (scheme and host, no trailing slash)
func NewProductSerializer(baseURL string) ProductSerializer {
	return ProductSerializer{baseURL: baseURL}
}

// SelfLink returns the absolute URL of the product with the given ID
func (s ProductSerializer) SelfLink(id int64) string {
	return s.baseURL + ProductsPath + "/" + strconv.FormatInt(id, 10)
}

// Resource serializes a single product
func (s ProductSerializer) Resource(p *domain.Product) Resource {
	return Resource{
		ID:   strconv.FormatInt(p.ID, 10),
		Type: ProductType,
		Links: Links{
			Self: s.SelfLink(p.ID),
		},
		Attributes: ProductAttributes{
			Name:     p.Name,
			Price:    p.Price,
			Category: p.Category,
		},
	}
}

// Document wraps a single product in a top-level document
func (s ProductSerializer) Document(p *domain.Product) Document {
	return Document{Data: s.Resource(p)}
}

// CollectionDocument wraps products in a top-level document. An empty
// input yields an empty array, never null.
func (s ProductSerializer) CollectionDocument(products []*domain.Product) CollectionDocument {
	data := make([]Resource, 0, len(products))
	for _, p := range products {
		data = append(data, s.Resource(p))
	}
	return CollectionDocument{Data: data}
}
