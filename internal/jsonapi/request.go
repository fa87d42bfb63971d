package jsonapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"product-catalog/internal/domain"
)

var (
	ErrMalformedDocument = errors.New("request body is not a valid JSON document")
	ErrMissingData       = errors.New("request document is missing primary data")
	ErrTypeMismatch      = errors.New("resource type does not match the endpoint")
	ErrIDMismatch        = errors.New("resource id does not match the URL")
)

// AttributeError reports an attribute whose value could not be decoded
type AttributeError struct {
	Pointer string
	Detail  string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pointer, e.Detail)
}

// ResourceID is a resource identifier. Clients send it as a string, but a
// bare JSON number is tolerated.
type ResourceID string

func (id *ResourceID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ResourceID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return &AttributeError{Pointer: "/data/id", Detail: "must be a string"}
	}
	*id = ResourceID(n.String())
	return nil
}

// Price is an integer price. Input may be a JSON number or a numeric string.
type Price int64

func (p *Price) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}

	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*p = Price(v)
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return &AttributeError{Pointer: "/data/attributes/price", Detail: "must be a number"}
	}
	if f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
		return &AttributeError{Pointer: "/data/attributes/price", Detail: "must be an integer"}
	}
	*p = Price(f)
	return nil
}

// RequestAttributes holds the attributes of a request resource. A nil
// field was absent from the document (or null).
type RequestAttributes struct {
	Name     *string `json:"name"`
	Price    *Price  `json:"price"`
	Category *string `json:"category"`
}

// ProductAttributes converts the decoded attributes to the domain type
func (a RequestAttributes) ProductAttributes() domain.ProductAttributes {
	attrs := domain.ProductAttributes{
		Name:     a.Name,
		Category: a.Category,
	}
	if a.Price != nil {
		price := int64(*a.Price)
		attrs.Price = &price
	}
	return attrs
}

// RequestResource is the primary data of a create or update document
type RequestResource struct {
	Type       string            `json:"type"`
	ID         ResourceID        `json:"id"`
	Attributes RequestAttributes `json:"attributes"`
}

type requestDocument struct {
	Data *RequestResource `json:"data"`
}

// DecodeProductDocument reads a JSON:API document whose primary data is a
// products resource
func DecodeProductDocument(r io.Reader) (*RequestResource, error) {
	var doc requestDocument
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		var attrErr *AttributeError
		if errors.As(err, &attrErr) {
			return nil, attrErr
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && isMemberField(typeErr.Field) {
			return nil, &AttributeError{
				Pointer: "/" + strings.ReplaceAll(typeErr.Field, ".", "/"),
				Detail:  "must be a " + jsonTypeName(typeErr.Type),
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	// The body must hold exactly one JSON value
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after the document", ErrMalformedDocument)
	}

	if doc.Data == nil {
		return nil, ErrMissingData
	}

	if doc.Data.Type != ProductType {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrTypeMismatch, ProductType, doc.Data.Type)
	}

	return doc.Data, nil
}

// isMemberField reports whether a decode path names a resource member a
// client can fix, as opposed to a document of the wrong shape
func isMemberField(field string) bool {
	return strings.HasPrefix(field, "data.attributes.") || field == "data.id" || field == "data.type"
}

func jsonTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

// CheckID verifies the document id matches the id addressed by the URL
func (res *RequestResource) CheckID(id int64) error {
	if string(res.ID) != strconv.FormatInt(id, 10) {
		return fmt.Errorf("%w: expected %d, got %q", ErrIDMismatch, id, res.ID)
	}
	return nil
}
