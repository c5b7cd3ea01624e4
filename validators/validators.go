// Package validators holds the request parsing helpers shared by the
// per-domain validator packages.
package validators

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"learnhub/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	// decimals validate as float64 so gt/gte/lte work on money fields
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// Normalizer trims and canonicalises input before validation
type Normalizer interface {
	Normalize()
}

// Checker adds cross-field rules after tag validation
type Checker interface {
	Check(errors map[string]string)
}

// Struct validates v and flattens the failures into field -> message
func Struct(v interface{}) map[string]string {
	errors := make(map[string]string)
	if err := validate.Struct(v); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				errors[fe.Field()] = message(fe)
			}
		} else {
			errors["body"] = err.Error()
		}
	}
	if c, ok := v.(Checker); ok {
		c.Check(errors)
	}
	return errors
}

func message(fe validator.FieldError) string {
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required!"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long!", label, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)!", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s!", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long!", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s!", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s!", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more!", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less!", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s!", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return label + " must be a valid email address!"
	case "url", "http_url":
		return label + " must be a valid URL!"
	case "excludesall":
		return label + " contains invalid characters!"
	default:
		return label + " is invalid!"
	}
}

func humanize(field string) string {
	words := strings.Split(field, "_")
	if len(words) > 0 && words[0] != "" {
		words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	}
	return strings.Join(words, " ")
}

// Body parses the JSON body into a new T, validates it and stores it under key
func Body[T any](key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		return finish(c, key, reqData)
	}
}

// Query parses query parameters into a new T, validates it and stores it under key
func Query[T any](key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		return finish(c, key, reqData)
	}
}

func finish(c *fiber.Ctx, key string, reqData interface{}) error {
	if n, ok := reqData.(Normalizer); ok {
		n.Normalize()
	}
	if errors := Struct(reqData); len(errors) > 0 {
		return middleware.ValidationErrorResponse(c, errors)
	}
	c.Locals(key, reqData)
	return c.Next()
}

// IDParams checks that each named path parameter is a positive integer and
// stores it as uint under the parameter's name.
func IDParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			raw := strings.TrimSpace(c.Params(name))
			if raw == "" {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, fmt.Sprintf("%s is required!", humanize(name)), nil)
			}
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, fmt.Sprintf("Invalid %s!", humanize(name)), nil)
			}
			c.Locals(name, uint(id))
		}
		return c.Next()
	}
}

// ID returns a path parameter stored by IDParams
func ID(c *fiber.Ctx, name string) uint {
	id, _ := c.Locals(name).(uint)
	return id
}

// Pagination is the page/limit pair shared by list endpoints
type Pagination struct {
	Page  int `query:"page" json:"page"`
	Limit int `query:"limit" json:"limit"`
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination block returned with list responses
func (p Pagination) Meta(total int64) fiber.Map {
	return fiber.Map{
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	}
}

// Paginate reads page and limit, applying defaults and the limit cap
func Paginate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := Pagination{}
		if err := c.QueryParser(&p); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)
		if p.Page < 0 {
			errors["page"] = "Page must be greater than 0!"
		}
		if p.Limit < 0 {
			errors["limit"] = "Limit must be greater than 0!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		if p.Page == 0 {
			p.Page = DefaultPage
		}
		if p.Limit == 0 {
			p.Limit = DefaultLimit
		}
		if p.Limit > MaxLimit {
			p.Limit = MaxLimit
		}

		c.Locals("pagination", p)
		return c.Next()
	}
}

// PageOf returns the pagination stored by Paginate, or the defaults
func PageOf(c *fiber.Ctx) Pagination {
	if p, ok := c.Locals("pagination").(Pagination); ok {
		return p
	}
	return Pagination{Page: DefaultPage, Limit: DefaultLimit}
}
