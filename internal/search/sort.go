package search

// SortField is a sortable column of the book listing. Only allow-listed
// fields are accepted; anything else silently falls back to the default.
type SortField string

const (
	SortByTitle     SortField = "title"
	SortByAuthor    SortField = "author"
	SortByYear      SortField = "year"
	SortByRating    SortField = "rating"
	SortByPages     SortField = "pages"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
)

// sortColumns maps allow-listed sort fields to their database columns.
var sortColumns = map[SortField]string{
	SortByTitle:     "title",
	SortByAuthor:    "author",
	SortByYear:      "year",
	SortByRating:    "rating",
	SortByPages:     "pages",
	SortByCreatedAt: "created_at",
	SortByUpdatedAt: "updated_at",
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortOption pairs a sort field with a direction.
type SortOption struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// DefaultSort orders by creation time, newest first.
func DefaultSort() SortOption {
	return SortOption{Field: SortByCreatedAt, Direction: SortDesc}
}

// SortPatch carries partial sort changes.
type SortPatch struct {
	Field     *SortField
	Direction *SortDirection
}

// Merge applies the patch on top of s and returns the result.
func (s SortOption) Merge(p SortPatch) SortOption {
	if p.Field != nil {
		s.Field = *p.Field
	}
	if p.Direction != nil {
		s.Direction = *p.Direction
	}
	return s
}

// Normalize replaces unknown fields and directions with the defaults.
func (s SortOption) Normalize() SortOption {
	if _, ok := sortColumns[s.Field]; !ok {
		s.Field = DefaultSort().Field
	}
	if s.Direction != SortAsc && s.Direction != SortDesc {
		s.Direction = DefaultSort().Direction
	}
	return s
}

// OrderClause returns the SQL "ORDER BY" expression for the option,
// normalizing unknown values first.
func (s SortOption) OrderClause() string {
	s = s.Normalize()
	dir := "ASC"
	if s.Direction == SortDesc {
		dir = "DESC"
	}
	return sortColumns[s.Field] + " " + dir
}

// HasActiveFilters reports whether any filter field deviates from its
// default, or the sort differs from the default order.
func HasActiveFilters(f SearchFilters, s SortOption) bool {
	return !f.IsDefault() || s.Normalize() != DefaultSort()
}
