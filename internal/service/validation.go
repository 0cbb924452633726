package service

import (
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/noah-isme/settlement-api/internal/models"
	"github.com/noah-isme/settlement-api/pkg/config"
	appErrors "github.com/noah-isme/settlement-api/pkg/errors"
)

// NewValidator returns a validator reporting fields by their JSON or query
// names and understanding the notblank tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// resolvePage applies listing defaults and checks orderBy against the sortable columns.
func resolvePage(limit, offset *int, orderBy string, columns map[string]string, cfg config.PaginationConfig) (models.Page, error) {
	page := models.Page{Limit: cfg.DefaultLimit, OrderBy: models.DefaultOrderBy}
	if page.Limit <= 0 {
		page.Limit = 10
	}
	if limit != nil {
		page.Limit = *limit
	}
	if cfg.MaxLimit > 0 && page.Limit > cfg.MaxLimit {
		page.Limit = cfg.MaxLimit
	}
	if offset != nil {
		page.Offset = *offset
	}

	orderBy = strings.TrimSpace(orderBy)
	if orderBy != "" {
		if _, ok := columns[orderBy]; !ok {
			return models.Page{}, appErrors.InvalidField("orderBy", "must be one of "+strings.Join(sortKeys(columns), ", "))
		}
		page.OrderBy = orderBy
	}
	return page, nil
}

func sortKeys(columns map[string]string) []string {
	keys := make([]string, 0, len(columns))
	for key := range columns {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
