package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/okunev/spotbooking/internal/domain"
	"github.com/okunev/spotbooking/internal/repository"
	"github.com/okunev/spotbooking/internal/service/booking"
)

type AvailabilityHandler struct {
	service booking.BookingUseCase
}

type availabilityRequest struct {
	ResourceID string `json:"resource_id"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Now        string `json:"now,omitempty"`
}

type intervalResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type conflictResponse struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status"`
}

type availabilityResponse struct {
	Available   bool               `json:"available"`
	Reason      string             `json:"reason,omitempty"`
	Message     string             `json:"message,omitempty"`
	Conflicts   []conflictResponse `json:"conflicts,omitempty"`
	Suggestions []intervalResponse `json:"suggestions,omitempty"`
}

func NewAvailabilityHandler(service booking.BookingUseCase) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

func (h *AvailabilityHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.check)
}

func (h *AvailabilityHandler) check(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ResourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource_id is required"})
		return
	}

	candidate, err := parseCandidate(req.Start, req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var now time.Time
	if req.Now != "" {
		now, err = time.Parse(time.RFC3339, req.Now)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "now must be an RFC3339 timestamp"})
			return
		}
	}

	report, err := h.service.QueryAvailability(c.Request.Context(), booking.AvailabilityQuery{
		ResourceID: req.ResourceID,
		Candidate:  candidate,
		Now:        now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := availabilityResponse{
		Available: report.Available,
		Reason:    string(report.Reason),
		Message:   reasonMessage(&report.Result),
	}
	for _, conflict := range report.Conflicts {
		resp.Conflicts = append(resp.Conflicts, conflictResponse{
			Start:  conflict.Interval.Start.Format(time.RFC3339),
			End:    conflict.Interval.End.Format(time.RFC3339),
			Status: string(conflict.Status),
		})
	}
	for _, suggestion := range report.Suggestions {
		resp.Suggestions = append(resp.Suggestions, intervalResponse{
			Start: suggestion.Start.Format(time.RFC3339),
			End:   suggestion.End.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func parseCandidate(start, end string) (domain.TimeInterval, error) {
	startAt, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return domain.TimeInterval{}, errors.New("start must be an RFC3339 timestamp")
	}
	endAt, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return domain.TimeInterval{}, errors.New("end must be an RFC3339 timestamp")
	}
	return domain.NewInterval(startAt, endAt)
}
