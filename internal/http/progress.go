package http

import (
	"math"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/config"
	"bookshelf/internal/entities"
)

// ProgressStore lists the books currently being read or paused.
type ProgressStore interface {
	InProgress() ([]entities.Book, error)
}

type ProgressController struct {
	store ProgressStore
	goals config.Goals
}

func NewProgressController(store ProgressStore, goals config.Goals) *ProgressController {
	return &ProgressController{store: store, goals: goals}
}

// BookProgress is one in-progress book with its completion percentage.
type BookProgress struct {
	Book       entities.Book `json:"book"`
	Percentage int           `json:"percentage"`
	PagesLeft  int           `json:"pagesLeft"`
}

// DailyProgress is the reading-session payload: what is open right now
// and the configured page goals.
type DailyProgress struct {
	Books       []BookProgress `json:"books"`
	DailyGoal   int            `json:"dailyGoal"`
	WeeklyGoal  int            `json:"weeklyGoal"`
	ActiveCount int            `json:"activeCount"`
}

// Get handles GET /api/daily-progress.
func (controller *ProgressController) Get(c *gin.Context) {
	inProgress, err := controller.store.InProgress()
	if err != nil {
		respondInternalError(c, err, "daily progress")
		return
	}

	progress := DailyProgress{
		Books:       make([]BookProgress, 0, len(inProgress)),
		DailyGoal:   controller.goals.DailyPages,
		WeeklyGoal:  controller.goals.WeeklyPages,
		ActiveCount: len(inProgress),
	}
	for _, book := range inProgress {
		entry := BookProgress{Book: book}
		if book.Pages > 0 {
			entry.Percentage = int(math.Round(float64(book.CurrentPage) / float64(book.Pages) * 100))
			entry.PagesLeft = book.Pages - book.CurrentPage
		}
		progress.Books = append(progress.Books, entry)
	}

	respondOK(c, progress)
}
