package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookStatus describes where a book sits in the reading lifecycle.
type BookStatus string

const (
	StatusWantToRead BookStatus = "WANT_TO_READ"
	StatusReading    BookStatus = "READING"
	StatusFinished   BookStatus = "FINISHED"
	StatusPaused     BookStatus = "PAUSED"
	StatusAbandoned  BookStatus = "ABANDONED"
)

// AllStatuses lists every valid status, in lifecycle order.
var AllStatuses = []BookStatus{
	StatusWantToRead,
	StatusReading,
	StatusFinished,
	StatusPaused,
	StatusAbandoned,
}

// Valid reports whether s is one of the known statuses.
func (s BookStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Genre is a named category referenced by zero or more books.
// Deletion is blocked at the application layer while books reference it.
type Genre struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	Books     []Book    `gorm:"foreignKey:GenreID" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// Book is a catalogued work with reading-progress and rating metadata.
// Invariant: 0 <= CurrentPage <= Pages whenever Pages > 0.
type Book struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"index;size:512" json:"title"`
	Author      string     `gorm:"index;size:256" json:"author"`
	Year        int        `json:"year"`
	Pages       int        `json:"pages"`
	Rating      int        `json:"rating"`
	Synopsis    string     `gorm:"type:text" json:"synopsis,omitempty"`
	Cover       string     `gorm:"size:2048" json:"cover,omitempty"`
	Status      BookStatus `gorm:"index;size:20;default:'WANT_TO_READ'" json:"status"`
	CurrentPage int        `json:"currentPage"`
	ISBN        *string    `gorm:"size:20" json:"isbn,omitempty"`
	Notes       *string    `gorm:"type:text" json:"notes,omitempty"`
	GenreID     string     `gorm:"index;size:36" json:"genreId"`
	Genre       Genre      `gorm:"foreignKey:GenreID" json:"genre,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// PagesRead returns how many pages of the book count as read for
// aggregate statistics: finished books count in full, in-progress and
// paused books count their current page, everything else counts zero.
func (b *Book) PagesRead() int {
	switch b.Status {
	case StatusFinished:
		return b.Pages
	case StatusReading, StatusPaused:
		return b.CurrentPage
	default:
		return 0
	}
}

func (Book) TableName() string {
	return "books"
}

func (Genre) TableName() string {
	return "genres"
}
