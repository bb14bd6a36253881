package search

import (
	"net/url"
	"strconv"
	"strings"
)

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// EncodeQuery serializes filters, sort and pagination into URL query
// parameters. Only values that deviate from their defaults are emitted,
// so the unfiltered state encodes to an empty query and full ranges are
// never expressed as constraints.
func EncodeQuery(f SearchFilters, sort SortOption, page, limit int) url.Values {
	params := url.Values{}

	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Genre != "" {
		params.Set("genre", f.Genre)
	}
	if f.Author != "" {
		params.Set("author", f.Author)
	}
	if len(f.Status) > 0 {
		params.Set("status", strings.Join(f.Status, ","))
	}

	if f.Rating.Min > RatingMin {
		params.Set("minRating", strconv.Itoa(f.Rating.Min))
	}
	if f.Rating.Max < RatingMax {
		params.Set("maxRating", strconv.Itoa(f.Rating.Max))
	}
	if f.Year.Min > YearMin {
		params.Set("minYear", strconv.Itoa(f.Year.Min))
	}
	if f.Year.Max < YearMax() {
		params.Set("maxYear", strconv.Itoa(f.Year.Max))
	}
	if f.Pages.Min > PagesMin {
		params.Set("minPages", strconv.Itoa(f.Pages.Min))
	}
	if f.Pages.Max < PagesMax {
		params.Set("maxPages", strconv.Itoa(f.Pages.Max))
	}

	sort = sort.Normalize()
	if sort.Field != DefaultSort().Field {
		params.Set("sortBy", string(sort.Field))
	}
	if sort.Direction != DefaultSort().Direction {
		params.Set("sortDir", string(sort.Direction))
	}

	if page > DefaultPage {
		params.Set("page", strconv.Itoa(page))
	}
	if limit > 0 && limit != DefaultLimit {
		params.Set("limit", strconv.Itoa(limit))
	}

	return params
}

// DecodeQuery parses URL query parameters back into filters, sort and
// pagination. Unset parameters mean "no constraint" and resolve to the
// defaults, so Encode and Decode round-trip. Malformed numbers and
// unknown sort fields are silently replaced with defaults.
func DecodeQuery(params url.Values) (SearchFilters, SortOption, int, int) {
	f := DefaultFilters()

	f.Search = params.Get("search")
	f.Genre = params.Get("genre")
	f.Author = params.Get("author")
	if status := params.Get("status"); status != "" {
		f.Status = splitStatus(status)
	}

	f.Rating.Min = intParam(params, "minRating", RatingMin)
	f.Rating.Max = intParam(params, "maxRating", RatingMax)
	f.Year.Min = intParam(params, "minYear", YearMin)
	f.Year.Max = intParam(params, "maxYear", YearMax())
	f.Pages.Min = intParam(params, "minPages", PagesMin)
	f.Pages.Max = intParam(params, "maxPages", PagesMax)

	sort := SortOption{
		Field:     SortField(params.Get("sortBy")),
		Direction: SortDirection(params.Get("sortDir")),
	}
	if params.Get("sortBy") == "" {
		sort.Field = DefaultSort().Field
	}
	if params.Get("sortDir") == "" {
		sort.Direction = DefaultSort().Direction
	}
	sort = sort.Normalize()

	page := intParam(params, "page", DefaultPage)
	if page < 1 {
		page = DefaultPage
	}
	limit := intParam(params, "limit", DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return f, sort, page, limit
}

func splitStatus(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intParam(params url.Values, key string, def int) int {
	raw := params.Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
