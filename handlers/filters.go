package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var filterMessages = map[string]string{
	"FilterText": "El texto de búsqueda es demasiado largo.",
	"DateFrom":   "La fecha desde no es válida.",
	"DateTo":     "La fecha hasta no es válida.",
}

// ParseFilters reads the table state from query parameters. Invalid
// fields fall back to their defaults; text and date problems are reported.
func ParseFilters(get func(key string) string, validate *validator.Validate) (models.PlanillaFilters, []string) {
	filters := models.PlanillaFilters{
		FilterText: strings.TrimSpace(get("filterText")),
		DateFrom:   strings.TrimSpace(get("dateFrom")),
		DateTo:     strings.TrimSpace(get("dateTo")),
		FilterSize: atoiOr(get("filterSize"), models.DefaultPageSize),
		FilterPage: atoiOr(get("filterPage"), models.FirstPage),
	}

	err := validate.Struct(filters)
	if err == nil {
		return filters, nil
	}

	var messages []string
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return models.DefaultFilters(), nil
	}

	for _, fieldErr := range validationErrors {
		switch fieldErr.Field() {
		case "FilterText":
			filters.FilterText = ""
		case "DateFrom":
			filters.DateFrom = ""
		case "DateTo":
			filters.DateTo = ""
		case "FilterSize":
			filters.FilterSize = models.DefaultPageSize
		case "FilterPage":
			filters.FilterPage = models.FirstPage
		}
		if message, ok := filterMessages[fieldErr.Field()]; ok {
			messages = append(messages, message)
		}
	}
	return filters, messages
}

func atoiOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}

// queryGetter adapts the request query to ParseFilters
func queryGetter(c *fiber.Ctx) func(string) string {
	return func(key string) string { return c.Query(key) }
}
