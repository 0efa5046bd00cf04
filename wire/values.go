package wire

import (
	"net/url"

	"github.com/code19m/errx"
	"github.com/spf13/cast"

	"github.com/rise-and-shine/cqsdata/cqrs"
	"github.com/rise-and-shine/cqsdata/filter"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageConfig bounds page sizes accepted from query strings.
type PageConfig struct {
	DefaultPageSize int `yaml:"default_page_size" default:"20"  validate:"gt=0"`
	MaxPageSize     int `yaml:"max_page_size"     default:"100" validate:"gtefield=DefaultPageSize"`
}

// DefaultPageConfig returns the page bounds used when none are configured.
func DefaultPageConfig() PageConfig {
	return PageConfig{DefaultPageSize: defaultPageSize, MaxPageSize: maxPageSize}
}

// ListParamsFromValues reads list parameters from a query string.
//
// Paging is given either as "page" (1-based) with "page_size", or as "start_index"
// with "page_size". A missing page size falls back to the configured default and
// larger sizes are capped. "sort" takes "field:asc|desc" and "filter" takes the JSON
// predicate; both may only reference allowedFields when given.
func ListParamsFromValues(values url.Values, cfg PageConfig, allowedFields ...string) (cqrs.ListParams, error) {
	size, err := intValue(values, "page_size")
	if err != nil {
		return cqrs.ListParams{}, err
	}
	if size <= 0 {
		size = cfg.DefaultPageSize
	}
	if size > cfg.MaxPageSize {
		size = cfg.MaxPageSize
	}

	params := cqrs.ListParams{PageSize: size}

	if values.Has("page") {
		page, err := intValue(values, "page")
		if err != nil {
			return cqrs.ListParams{}, err
		}
		params.StartIndex = (max(page, 1) - 1) * size
	} else {
		start, err := intValue(values, "start_index")
		if err != nil {
			return cqrs.ListParams{}, err
		}
		params.StartIndex = max(start, 0)
	}

	if raw := values.Get("sort"); raw != "" {
		s, ok := filter.ParseSort(raw, allowedFields...)
		if !ok {
			return cqrs.ListParams{}, invalidValue("sort", raw)
		}
		params.Sort = s
	}

	if raw := values.Get("filter"); raw != "" {
		e, err := filter.Decode([]byte(raw), allowedFields...)
		if err != nil {
			return cqrs.ListParams{}, errx.Wrap(err)
		}
		params.Filter = e
	}

	return params, nil
}

func intValue(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return 0, invalidValue(key, raw)
	}
	return n, nil
}

func invalidValue(key, raw string) error {
	return errx.New(
		"invalid query parameter "+key,
		errx.WithCode(CodeInvalidEnvelope),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{"parameter": key, "value": raw}),
	)
}
