package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cabbie/internal/models/request_models"
	"cabbie/internal/services"
	"cabbie/pkg/utils"
)

type WizardController struct {
	wizard services.WizardServiceInterface
}

func NewWizardController(wizard services.WizardServiceInterface) *WizardController {
	return &WizardController{wizard: wizard}
}

// CreateDraft godoc
// @Summary Start a booking
// @Description Opens a new booking draft at the ride details step
// @Tags Wizard
// @Produce json
// @Success 201 {object} utils.APIResponse
// @Router /wizard/drafts [post]
func (w *WizardController) CreateDraft(c *gin.Context) {
	draft, err := w.wizard.CreateDraft(c.Request.Context(), optionalAccountID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, draft, "Draft created")
}

// GetDraft godoc
// @Summary Get a booking draft
// @Tags Wizard
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /wizard/drafts/{id} [get]
func (w *WizardController) GetDraft(c *gin.Context) {
	draft, err := w.wizard.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, draft, "Draft fetched")
}

// SubmitRideDetails godoc
// @Summary Submit ride details
// @Description Prices the ride and moves the draft to passenger info
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param request body request_models.RideDetails true "Ride details"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /wizard/drafts/{id}/ride-details [put]
func (w *WizardController) SubmitRideDetails(c *gin.Context) {
	var req request_models.RideDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	draft, err := w.wizard.SubmitRideDetails(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, draft, "Ride details saved")
}

// SubmitPassengerInfo godoc
// @Summary Submit passenger details
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param request body request_models.PassengerInfo true "Passenger"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /wizard/drafts/{id}/passenger-info [put]
func (w *WizardController) SubmitPassengerInfo(c *gin.Context) {
	var req request_models.PassengerInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	draft, err := w.wizard.SubmitPassengerInfo(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, draft, "Passenger details saved")
}

// Back godoc
// @Summary Go back one step
// @Tags Wizard
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} utils.APIResponse
// @Router /wizard/drafts/{id}/back [post]
func (w *WizardController) Back(c *gin.Context) {
	draft, err := w.wizard.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, draft, "Moved back")
}
