package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"mareblu/internal/domain/catalog"
)

type CatalogHandler struct {
	Catalog catalog.Repository
}

type apartmentView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Beds        int      `json:"beds"`
	Bedrooms    int      `json:"bedrooms"`
	Floor       int      `json:"floor"`
	Capacity    int      `json:"capacity"`
	Amenities   []string `json:"amenities"`
	CleaningFee int64    `json:"cleaning_fee"`
}

func (h CatalogHandler) List(c *gin.Context) {
	if h.Catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	apartments, err := h.Catalog.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog lookup failed"})
		return
	}
	views := make([]apartmentView, 0, len(apartments))
	for _, apt := range apartments {
		views = append(views, apartmentView{
			ID:          string(apt.ID),
			Name:        apt.Name,
			Beds:        apt.Beds,
			Bedrooms:    apt.Bedrooms,
			Floor:       apt.Floor,
			Capacity:    apt.Capacity,
			Amenities:   amenityNames(apt.Amenities),
			CleaningFee: apt.EffectiveCleaningFee().Amount,
		})
	}
	c.JSON(http.StatusOK, gin.H{"apartments": views})
}

func amenityNames(a catalog.Amenities) []string {
	var names []string
	if a.AirConditioning {
		names = append(names, "air_conditioning")
	}
	if a.Terrace {
		names = append(names, "terrace")
	}
	if a.Veranda {
		names = append(names, "veranda")
	}
	if a.SeaView {
		names = append(names, "sea_view")
	}
	return names
}

var _ CatalogHTTP = CatalogHandler{}
