package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/okunev/spotbooking/internal/refund"
	"github.com/okunev/spotbooking/internal/service/booking"
)

type RefundHandler struct {
	service booking.BookingUseCase
}

type refundQuoteRequest struct {
	OriginalAmount   float64 `json:"original_amount"`
	StartTime        string  `json:"start_time"`
	CancellationTime string  `json:"cancellation_time,omitempty"`
	PolicyID         string  `json:"policy_id,omitempty"`
}

func NewRefundHandler(service booking.BookingUseCase) *RefundHandler {
	return &RefundHandler{service: service}
}

func (h *RefundHandler) Register(router *gin.RouterGroup) {
	router.POST("/quote", h.quote)
}

func (h *RefundHandler) quote(c *gin.Context) {
	var req refundQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startAt, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be an RFC3339 timestamp"})
		return
	}
	var cancelAt time.Time
	if req.CancellationTime != "" {
		cancelAt, err = time.Parse(time.RFC3339, req.CancellationTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cancellation_time must be an RFC3339 timestamp"})
			return
		}
	}

	calc, err := h.service.QueryRefund(c.Request.Context(), booking.RefundQuery{
		OriginalAmount:   req.OriginalAmount,
		StartTime:        startAt,
		CancellationTime: cancelAt,
		PolicyID:         req.PolicyID,
	})
	if err != nil {
		if errors.Is(err, refund.ErrMalformedAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, calc)
}
