package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
	"github.com/princeprakhar/tours-backend/internal/services"
	"github.com/princeprakhar/tours-backend/internal/utils"
)

type TourHandler struct {
	tourService *services.TourService
}

func NewTourHandler(tourService *services.TourService) *TourHandler {
	return &TourHandler{tourService: tourService}
}

// AliasTopTours rewrites the query string into the five best cheap tours.
func AliasTopTours() gin.HandlerFunc {
	return func(c *gin.Context) {
		values := c.Request.URL.Query()
		values.Set("limit", "5")
		values.Set("sort", "-ratingsAverage,price")
		values.Set("fields", "name,price,ratingsAverage,summary,difficulty")
		c.Request.URL.RawQuery = values.Encode()
		c.Next()
	}
}

func (h *TourHandler) GetAllTours(c *gin.Context) {
	tours, proj, err := h.tourService.ListTours(c.Request.Context(), query.FromValues(c.Request.URL.Query()))
	if err != nil {
		respondError(c, "Failed to fetch tours", err)
		return
	}
	data, ok := shaped(c, proj, tours)
	if !ok {
		return
	}
	utils.SendList(c, "Tours retrieved successfully", len(tours), data)
}

func (h *TourHandler) GetTour(c *gin.Context) {
	tour, err := h.tourService.GetTour(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "No tour found with that ID", err)
		return
	}
	utils.SendSuccess(c, "Tour retrieved successfully", tour)
}

func (h *TourHandler) CreateTour(c *gin.Context) {
	var tour models.Tour
	if err := c.ShouldBindJSON(&tour); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	created, err := h.tourService.CreateTour(c.Request.Context(), &tour)
	if err != nil {
		respondError(c, "Failed to create tour", err)
		return
	}
	utils.SendCreated(c, "Tour created successfully", created)
}

func (h *TourHandler) UpdateTour(c *gin.Context) {
	var patch models.TourPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	tour, err := h.tourService.UpdateTour(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, "Failed to update tour", err)
		return
	}
	utils.SendSuccess(c, "Tour updated successfully", tour)
}

func (h *TourHandler) DeleteTour(c *gin.Context) {
	if err := h.tourService.DeleteTour(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "No tour found with that ID", err)
		return
	}
	utils.SendNoContent(c)
}

func (h *TourHandler) GetTourStats(c *gin.Context) {
	stats, err := h.tourService.TourStats(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to compute tour stats", err)
		return
	}
	utils.SendList(c, "Tour stats retrieved successfully", len(stats), stats)
}

func (h *TourHandler) GetMonthlyPlan(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		respondError(c, "Invalid year", services.ErrInvalidYear)
		return
	}

	plan, err := h.tourService.MonthlyPlan(c.Request.Context(), year)
	if err != nil {
		respondError(c, "Invalid year", err)
		return
	}
	utils.SendList(c, "Monthly plan retrieved successfully", len(plan), plan)
}

// GetToursWithin serves /tours-within/:distance/center/:latlng/unit/:unit.
func (h *TourHandler) GetToursWithin(c *gin.Context) {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil {
		respondError(c, "Invalid distance", services.ErrInvalidRadius)
		return
	}

	tours, err := h.tourService.ToursWithin(c.Request.Context(), distance, c.Param("latlng"), c.Param("unit"))
	if err != nil {
		respondError(c, "Please provide latitude and longitude in the format lat,lng", err)
		return
	}
	utils.SendList(c, "Tours retrieved successfully", len(tours), tours)
}

func (h *TourHandler) GetDistances(c *gin.Context) {
	distances, err := h.tourService.Distances(c.Request.Context(), c.Param("latlng"), c.Param("unit"))
	if err != nil {
		respondError(c, "Please provide latitude and longitude in the format lat,lng", err)
		return
	}
	utils.SendList(c, "Distances retrieved successfully", len(distances), distances)
}
