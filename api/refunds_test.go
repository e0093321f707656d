package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/okunev/spotbooking/internal/refund"
	"github.com/okunev/spotbooking/internal/service/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func refundRouter(service booking.BookingUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewRefundHandler(service).Register(router.Group("/refunds"))
	return router
}

func TestRefundQuote_OK(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := refundRouter(mockService)

	calc := &refund.Calculation{
		OriginalAmount:   200,
		RefundAmount:     150,
		CancellationFee:  50,
		PolicyApplied:    "moderate",
		HoursBeforeStart: 30,
	}
	mockService.On("QueryRefund", mock.Anything, booking.RefundQuery{
		OriginalAmount:   200,
		StartTime:        time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
		CancellationTime: time.Date(2025, 6, 9, 6, 0, 0, 0, time.UTC),
	}).Return(calc, nil).Once()

	w := performJSON(t, router, http.MethodPost, "/refunds/quote", refundQuoteRequest{
		OriginalAmount:   200,
		StartTime:        "2025-06-10T12:00:00Z",
		CancellationTime: "2025-06-09T06:00:00Z",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var got refund.Calculation
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, *calc, got)
	mockService.AssertExpectations(t)
}

func TestRefundQuote_BadTimestamps(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := refundRouter(mockService)

	cases := []struct {
		name string
		req  refundQuoteRequest
	}{
		{"missing start time", refundQuoteRequest{OriginalAmount: 100}},
		{"garbage start time", refundQuoteRequest{OriginalAmount: 100, StartTime: "tomorrow"}},
		{"garbage cancellation time", refundQuoteRequest{OriginalAmount: 100, StartTime: "2025-06-10T12:00:00Z", CancellationTime: "later"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performJSON(t, router, http.MethodPost, "/refunds/quote", tc.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	mockService.AssertNotCalled(t, "QueryRefund")
}

func TestRefundQuote_MalformedAmount(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := refundRouter(mockService)

	mockService.On("QueryRefund", mock.Anything, mock.Anything).Return(nil, refund.ErrMalformedAmount).Once()

	w := performJSON(t, router, http.MethodPost, "/refunds/quote", refundQuoteRequest{
		OriginalAmount: -5,
		StartTime:      "2025-06-10T12:00:00Z",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
