package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cabbie/internal/models/request_models"
	"cabbie/internal/services"
	"cabbie/pkg/utils"
)

const (
	pdfContentType  = "application/pdf"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type BookingController struct {
	bookings services.BookingServiceInterface
}

func NewBookingController(bookings services.BookingServiceInterface) *BookingController {
	return &BookingController{bookings: bookings}
}

func requesterOf(c *gin.Context) (services.Requester, bool) {
	id, ok := currentAccountID(c)
	if !ok {
		return services.Requester{}, false
	}
	return services.Requester{AccountID: id, Role: c.GetString("Role")}, true
}

// bookingTarget resolves the caller and the :id path parameter, answering
// the request itself when either is unusable.
func bookingTarget(c *gin.Context) (services.Requester, uuid.UUID, bool) {
	r, ok := requesterOf(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthorized)
		return r, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrBookingNotFound)
		return r, uuid.Nil, false
	}
	return r, id, true
}

// ListMine godoc
// @Summary My bookings
// @Tags Bookings
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /bookings [get]
func (b *BookingController) ListMine(c *gin.Context) {
	r, ok := requesterOf(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthorized)
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidPage)
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidPageSize)
		return
	}

	bookings, err := b.bookings.ListMyBookings(c.Request.Context(), r.AccountID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, bookings, "Bookings fetched successfully")
}

// Get godoc
// @Summary Booking detail
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /bookings/{id} [get]
func (b *BookingController) Get(c *gin.Context) {
	r, id, ok := bookingTarget(c)
	if !ok {
		return
	}

	booking, err := b.bookings.GetBooking(c.Request.Context(), r, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, booking, "Booking fetched successfully")
}

// Lookup godoc
// @Summary Find a booking by reference
// @Description Guest access to a booking using its reference and the passenger email
// @Tags Bookings
// @Produce json
// @Param reference query string true "Booking reference"
// @Param email query string true "Passenger email"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /bookings/lookup [get]
func (b *BookingController) Lookup(c *gin.Context) {
	booking, err := b.bookings.GetBookingByReference(c.Request.Context(), c.Query("reference"), c.Query("email"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, booking, "Booking fetched successfully")
}

// Cancel godoc
// @Summary Cancel a booking
// @Description Cancels and refunds a paid booking outside the cancellation window
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /bookings/{id}/cancel [post]
func (b *BookingController) Cancel(c *gin.Context) {
	r, id, ok := bookingTarget(c)
	if !ok {
		return
	}

	booking, err := b.bookings.CancelBooking(c.Request.Context(), r, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, booking, "Booking cancelled")
}

// Receipt godoc
// @Summary Download a receipt
// @Tags Bookings
// @Produce application/pdf
// @Param id path string true "Booking ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /bookings/{id}/receipt [get]
func (b *BookingController) Receipt(c *gin.Context) {
	r, id, ok := bookingTarget(c)
	if !ok {
		return
	}

	pdf, reference, err := b.bookings.Receipt(c.Request.Context(), r, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, reference))
	c.Data(http.StatusOK, pdfContentType, pdf)
}

// AdminList godoc
// @Summary List all bookings
// @Tags Admin
// @Produce json
// @Param status query string false "pending, confirmed or cancelled"
// @Param from query string false "Pickup date from (YYYY-MM-DD)"
// @Param to query string false "Pickup date to (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/bookings [get]
func (b *BookingController) AdminList(c *gin.Context) {
	var filter request_models.BookingListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	bookings, err := b.bookings.ListBookings(c.Request.Context(), filter)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, bookings, "Bookings fetched successfully")
}

// AdminUpdateStatus godoc
// @Summary Change booking status
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body request_models.UpdateBookingStatusRequest true "New status"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/bookings/{id}/status [patch]
func (b *BookingController) AdminUpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrBookingNotFound)
		return
	}

	var req request_models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	booking, err := b.bookings.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, booking, "Booking updated")
}

// AdminExport godoc
// @Summary Export bookings to Excel
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "pending, confirmed or cancelled"
// @Param from query string false "Pickup date from (YYYY-MM-DD)"
// @Param to query string false "Pickup date to (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /admin/bookings/export [get]
func (b *BookingController) AdminExport(c *gin.Context) {
	filter := request_models.BookingListFilter{
		Status: c.Query("status"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}

	xlsx, err := b.bookings.ExportBookings(c.Request.Context(), filter)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, xlsx)
}
