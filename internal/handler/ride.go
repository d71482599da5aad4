package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carshare/internal/domain"
	"carshare/internal/middleware"
	"carshare/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// CreateRideRequest is the HTTP request body for offering a ride.
type CreateRideRequest struct {
	StartLocation string    `json:"start_location"`
	EndLocation   string    `json:"end_location"`
	DepartureTime time.Time `json:"departure_time"`
	TotalSeats    int       `json:"total_seats"`
	PricePerSeat  float64   `json:"price_per_seat"`
	CarModel      string    `json:"car_model,omitempty"`
	CarColor      string    `json:"car_color,omitempty"`
	Description   string    `json:"description,omitempty"`
}

// UpdateRideRequest is the HTTP request body for updating a ride.
type UpdateRideRequest struct {
	StartLocation string    `json:"start_location"`
	EndLocation   string    `json:"end_location"`
	DepartureTime time.Time `json:"departure_time"`
	PricePerSeat  float64   `json:"price_per_seat"`
	CarModel      string    `json:"car_model,omitempty"`
	CarColor      string    `json:"car_color,omitempty"`
	Description   string    `json:"description,omitempty"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID             string  `json:"id"`
	DriverID       string  `json:"driver_id"`
	StartLocation  string  `json:"start_location"`
	EndLocation    string  `json:"end_location"`
	DepartureTime  string  `json:"departure_time"`
	TotalSeats     int     `json:"total_seats"`
	AvailableSeats int     `json:"available_seats"`
	PricePerSeat   float64 `json:"price_per_seat"`
	Status         string  `json:"status"`
	CarModel       string  `json:"car_model,omitempty"`
	CarColor       string  `json:"car_color,omitempty"`
	Description    string  `json:"description,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

func toRideResponse(r *domain.Ride) RideResponse {
	resp := RideResponse{
		ID:             r.ID,
		DriverID:       r.DriverID,
		StartLocation:  r.StartLocation,
		EndLocation:    r.EndLocation,
		DepartureTime:  r.DepartureTime.Format(time.RFC3339),
		TotalSeats:     r.TotalSeats,
		AvailableSeats: r.AvailableSeats,
		PricePerSeat:   r.PricePerSeat,
		Status:         string(r.Status),
		CarModel:       r.CarModel,
		CarColor:       r.CarColor,
		Description:    r.Description,
	}
	if !r.CreatedAt.IsZero() {
		resp.CreatedAt = r.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

func toRideResponses(rides []*domain.Ride) []RideResponse {
	response := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		response = append(response, toRideResponse(r))
	}
	return response
}

// CreateRide handles POST /v1/rides. The driver is the authenticated caller.
func (h *RideHandler) CreateRide(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.CreateRide(c.Request.Context(), service.CreateRideRequest{
		DriverID:      c.GetString(middleware.ContextUserID),
		StartLocation: req.StartLocation,
		EndLocation:   req.EndLocation,
		DepartureTime: req.DepartureTime,
		TotalSeats:    req.TotalSeats,
		PricePerSeat:  req.PricePerSeat,
		CarModel:      req.CarModel,
		CarColor:      req.CarColor,
		Description:   req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// GetAll handles GET /v1/rides
func (h *RideHandler) GetAll(c *gin.Context) {
	rides, err := h.rideService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponses(rides))
}

// Search handles GET /v1/rides/search?from=...&to=...
func (h *RideHandler) Search(c *gin.Context) {
	rides, err := h.rideService.SearchRides(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponses(rides))
}

// Upcoming handles GET /v1/rides/upcoming
func (h *RideHandler) Upcoming(c *gin.Context) {
	rides, err := h.rideService.ListUpcoming(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponses(rides))
}

// ByDriver handles GET /v1/rides/driver/:driverId
func (h *RideHandler) ByDriver(c *gin.Context) {
	rides, err := h.rideService.ListByDriver(c.Request.Context(), c.Param("driverId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponses(rides))
}

// Update handles PUT /v1/rides/:id
func (h *RideHandler) Update(c *gin.Context) {
	var req UpdateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.UpdateRide(c.Request.Context(), service.UpdateRideRequest{
		RideID:         c.Param("id"),
		ActingDriverID: c.GetString(middleware.ContextUserID),
		StartLocation:  req.StartLocation,
		EndLocation:    req.EndLocation,
		DepartureTime:  req.DepartureTime,
		PricePerSeat:   req.PricePerSeat,
		CarModel:       req.CarModel,
		CarColor:       req.CarColor,
		Description:    req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// Cancel handles POST /v1/rides/:id/cancel
func (h *RideHandler) Cancel(c *gin.Context) {
	ride, err := h.rideService.CancelRide(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// Complete handles POST /v1/rides/:id/complete
func (h *RideHandler) Complete(c *gin.Context) {
	ride, err := h.rideService.CompleteRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// Delete handles DELETE /v1/rides/:id
func (h *RideHandler) Delete(c *gin.Context) {
	if err := h.rideService.DeleteRide(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
