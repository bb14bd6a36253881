package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/stats"
)

type StatsController struct {
	aggregator *stats.Aggregator
}

func NewStatsController(aggregator *stats.Aggregator) *StatsController {
	return &StatsController{aggregator: aggregator}
}

// Get handles GET /api/stats. The provider chain guarantees an answer,
// so this endpoint only fails when every tier, including the canned demo
// data, is broken.
func (controller *StatsController) Get(c *gin.Context) {
	snap, err := controller.aggregator.Collect(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "collect stats")
		return
	}

	envelope := Envelope{
		Success:  true,
		Data:     snap.Stats,
		Fallback: snap.Fallback,
	}
	switch snap.Tier {
	case stats.TierEmpty:
		envelope.Empty = true
		envelope.Message = "No books yet. Add your first book to see statistics."
	case stats.TierDemo:
		envelope.Demo = true
		envelope.Message = "Showing demonstration data."
	}

	c.JSON(http.StatusOK, envelope)
}
