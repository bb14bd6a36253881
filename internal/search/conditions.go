package search

import (
	"strings"

	"gorm.io/gorm"
)

// Condition is one typed constraint of a listing query. Conditions lower
// deterministically onto a gorm query; a condition expressing its full
// default range lowers to nothing.
type Condition interface {
	Apply(db *gorm.DB) *gorm.DB
}

// TextContains matches rows where any of the columns contains the value,
// case-insensitively.
type TextContains struct {
	Columns []string
	Value   string
}

func (c TextContains) Apply(db *gorm.DB) *gorm.DB {
	if c.Value == "" || len(c.Columns) == 0 {
		return db
	}
	pattern := "%" + c.Value + "%"
	clauses := make([]string, len(c.Columns))
	args := make([]any, len(c.Columns))
	for i, col := range c.Columns {
		clauses[i] = "LOWER(" + col + ") LIKE LOWER(?)"
		args[i] = pattern
	}
	return db.Where(strings.Join(clauses, " OR "), args...)
}

// EnumIn matches rows whose column is any of the values (OR semantics).
type EnumIn struct {
	Column string
	Values []string
}

func (c EnumIn) Apply(db *gorm.DB) *gorm.DB {
	if len(c.Values) == 0 {
		return db
	}
	return db.Where(c.Column+" IN ?", c.Values)
}

// NumericRange constrains a column to [Range.Min, Range.Max]. Bounds that
// sit at their default are not expressed, so the full default range is a
// no-op constraint.
type NumericRange struct {
	Column  string
	Range   Range
	Default Range
}

func (c NumericRange) Apply(db *gorm.DB) *gorm.DB {
	if c.Range.Min > c.Default.Min {
		db = db.Where(c.Column+" >= ?", c.Range.Min)
	}
	if c.Range.Max < c.Default.Max {
		db = db.Where(c.Column+" <= ?", c.Range.Max)
	}
	return db
}

// GenreIs matches rows referencing a genre by ID or, failing that, by
// exact genre name.
type GenreIs struct {
	Value string
}

func (c GenreIs) Apply(db *gorm.DB) *gorm.DB {
	if c.Value == "" {
		return db
	}
	return db.Where("genre_id = ? OR genre_id IN (SELECT id FROM genres WHERE name = ?)", c.Value, c.Value)
}

// Conditions lowers the filter set into its typed constraints. Default
// valued fields produce conditions that lower to nothing, keeping the
// lowering deterministic without special cases at the call site.
func (f SearchFilters) Conditions() []Condition {
	return []Condition{
		TextContains{Columns: []string{"title", "author", "synopsis"}, Value: f.Search},
		TextContains{Columns: []string{"author"}, Value: f.Author},
		GenreIs{Value: f.Genre},
		EnumIn{Column: "status", Values: f.Status},
		NumericRange{Column: "rating", Range: f.Rating, Default: Range{Min: RatingMin, Max: RatingMax}},
		NumericRange{Column: "year", Range: f.Year, Default: Range{Min: YearMin, Max: YearMax()}},
		NumericRange{Column: "pages", Range: f.Pages, Default: Range{Min: PagesMin, Max: PagesMax}},
	}
}

// Lower applies every condition to the query.
func Lower(db *gorm.DB, conds []Condition) *gorm.DB {
	for _, c := range conds {
		db = c.Apply(db)
	}
	return db
}
