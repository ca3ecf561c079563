package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/booking"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// CatalogHandler serves the read-only reference data (areas, tables) and
// the availability query.  None of these endpoints mutate state.
type CatalogHandler struct {
	AreaRepo  *repository.AreaRepo
	TableRepo *repository.TableRepo
}

// NewCatalogHandler constructs a CatalogHandler.  Both repositories must
// be non-nil.
func NewCatalogHandler(areaRepo *repository.AreaRepo, tableRepo *repository.TableRepo) *CatalogHandler {
	if areaRepo == nil || tableRepo == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{AreaRepo: areaRepo, TableRepo: tableRepo}
}

// GetAreas handles GET /v1/areas and returns every seating area.
func (h *CatalogHandler) GetAreas(c echo.Context) error {
	areas, err := h.AreaRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": areas})
}

// GetTables handles GET /v1/tables.  The optional ?area_id= query
// parameter restricts the listing to a single area.
func (h *CatalogHandler) GetTables(c echo.Context) error {
	var areaID *uint64
	if raw := c.QueryParam("area_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area id"})
		}
		areaID = &id
	}
	tables, err := h.TableRepo.List(c.Request().Context(), areaID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tables})
}

// GetAvailableTables handles GET /v1/tables/available.  All of date, time,
// party_size, level and outdoor are required; level must be 1 or 2 and
// outdoor 0 or 1.  An empty item list means fully booked, not an error.
func (h *CatalogHandler) GetAvailableTables(c echo.Context) error {
	date := c.QueryParam("date")
	timeOfDay := c.QueryParam("time")
	if date == "" || timeOfDay == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date and time are required"})
	}
	if _, err := booking.ParseSlot(date, timeOfDay); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date or time"})
	}
	guests, err := strconv.Atoi(c.QueryParam("party_size"))
	if err != nil || guests < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size must be a positive integer"})
	}
	level, err := strconv.Atoi(c.QueryParam("level"))
	if err != nil || (level != 1 && level != 2) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "level must be 1 or 2"})
	}
	outdoor := c.QueryParam("outdoor")
	if outdoor != "0" && outdoor != "1" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "outdoor must be 0 or 1"})
	}

	tables, err := h.TableRepo.FindAvailable(c.Request().Context(), repository.AvailabilityQuery{
		Date:    date,
		Time:    timeOfDay,
		Guests:  guests,
		Level:   level,
		Outdoor: outdoor == "1",
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tables})
}
