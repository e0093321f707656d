package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/okunev/spotbooking/internal/domain"
	"github.com/okunev/spotbooking/internal/refund"
	"github.com/okunev/spotbooking/internal/repository"
	"github.com/okunev/spotbooking/internal/service/booking"
)

type ReservationHandler struct {
	service booking.BookingUseCase
}

type reservationResponse struct {
	Code       string              `json:"code"`
	ResourceID string              `json:"resource_id"`
	Start      string              `json:"start"`
	End        string              `json:"end"`
	Status     string              `json:"status"`
	Email      string              `json:"email"`
	Refund     *refund.Calculation `json:"refund,omitempty"`
}

func NewReservationHandler(service booking.BookingUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.PUT("/:code", h.confirm)
	router.DELETE("/:code", h.cancel)
}

func (h *ReservationHandler) create(c *gin.Context) {
	var input booking.CreateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.service.CreateReservation(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSlotUnavailable), errors.Is(err, booking.ErrSlotHeld):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrResourceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, toReservationResponse(reservation, nil))
}

func (h *ReservationHandler) confirm(c *gin.Context) {
	code := c.Param("code")
	reservation, err := h.service.ConfirmReservation(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toReservationResponse(reservation, nil))
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	code := c.Param("code")
	reservation, calc, err := h.service.CancelReservation(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toReservationResponse(reservation, calc))
}

func toReservationResponse(r *domain.Reservation, calc *refund.Calculation) reservationResponse {
	return reservationResponse{
		Code:       r.Code,
		ResourceID: r.ResourceID,
		Start:      r.Interval.Start.Format(time.RFC3339),
		End:        r.Interval.End.Format(time.RFC3339),
		Status:     string(r.Status),
		Email:      r.Email,
		Refund:     calc,
	}
}
