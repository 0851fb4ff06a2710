package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cabbie/internal/models/request_models"
	"cabbie/internal/services"
	"cabbie/pkg/utils"
)

type PlacesController struct {
	places services.PlacesServiceInterface
	quotes services.QuoteServiceInterface
}

func NewPlacesController(places services.PlacesServiceInterface, quotes services.QuoteServiceInterface) *PlacesController {
	return &PlacesController{places: places, quotes: quotes}
}

// Autocomplete godoc
// @Summary Address suggestions
// @Description Suggests addresses for partial input. Fewer than three characters returns an empty list.
// @Tags Places
// @Produce json
// @Param input query string true "Partial address"
// @Param sessiontoken query string false "Autocomplete session token (uuid)"
// @Success 200 {object} utils.APIResponse
// @Router /places/autocomplete [get]
func (p *PlacesController) Autocomplete(c *gin.Context) {
	predictions, err := p.places.Autocomplete(c.Request.Context(), c.Query("input"), c.Query("sessiontoken"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, predictions, "Suggestions fetched successfully")
}

// Details godoc
// @Summary Place details
// @Tags Places
// @Produce json
// @Param placeId path string true "Place ID"
// @Param sessiontoken query string false "Autocomplete session token (uuid)"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /places/{placeId} [get]
func (p *PlacesController) Details(c *gin.Context) {
	details, err := p.places.Details(c.Request.Context(), c.Param("placeId"), c.Query("sessiontoken"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, details, "Place fetched successfully")
}

// Quote godoc
// @Summary Price a ride
// @Description Prices the outbound and optional return journey
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body request_models.RideDetails true "Ride details"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /quotes [post]
func (p *PlacesController) Quote(c *gin.Context) {
	var req request_models.RideDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	quote, err := p.quotes.Quote(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, quote, "Quote calculated successfully")
}
