package plansapi

import (
	"net/http"

	"iptv-app/internal/domain/plans"

	"github.com/gin-gonic/gin"
)

type PublicPlan struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// ListPlans serves the pricing section of the landing page. The
// upstream playlist URLs stay admin-only.
func ListPlans(store *plans.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := store.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
			return
		}

		out := make([]PublicPlan, 0, len(rows))
		for _, p := range rows {
			out = append(out, PublicPlan{ID: p.ID, Name: p.Name, Price: p.Price})
		}
		c.JSON(http.StatusOK, out)
	}
}
