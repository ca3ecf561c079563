package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/booking"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// ReservationHandler drives the reservation lifecycle: admission, status
// transitions, cancellation and listing.  All writes go through the
// reservation repository's transactional operations; the handler's job is
// request decoding, policy checks and error mapping.  Publish may be nil,
// in which case lifecycle events are simply not emitted.
type ReservationHandler struct {
	Policy          *booking.Policy
	TableRepo       *repository.TableRepo
	ReservationRepo *repository.ReservationRepo
	Publish         queue.PublishFunc
}

// NewReservationHandler constructs a ReservationHandler.  Policy and the
// repositories must be non-nil.
func NewReservationHandler(policy *booking.Policy, tableRepo *repository.TableRepo, reservationRepo *repository.ReservationRepo, publish queue.PublishFunc) *ReservationHandler {
	if policy == nil || tableRepo == nil || reservationRepo == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{
		Policy:          policy,
		TableRepo:       tableRepo,
		ReservationRepo: reservationRepo,
		Publish:         publish,
	}
}

// Create handles POST /v1/reservations.  The flow is: decode and check
// required fields, run the booking policy, then let the repository do the
// conflict-guarded insert.  Policy violations and missing fields are 400,
// an unknown table 404, an occupied slot 409.
func (h *ReservationHandler) Create(c echo.Context) error {
	var body struct {
		TableID uint64  `json:"table_id"`
		Name    string  `json:"name"`
		Phone   *string `json:"phone"`
		Date    string  `json:"date"`
		Time    string  `json:"time"`
		Guests  int     `json:"guests"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.TableID == 0 || body.Name == "" || body.Date == "" || body.Time == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id, name, date and time are required"})
	}
	if h.Policy.RequirePhone && (body.Phone == nil || strings.TrimSpace(*body.Phone) == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone is required"})
	}

	if _, err := h.Policy.Validate(body.Date, body.Time, body.Guests); err != nil {
		var violation *booking.RuleViolation
		if errors.As(err, &violation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": violation.Reason})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "validation failed"})
	}

	now := h.Policy.Clock.Now()
	expiresAt := h.Policy.ExpiryFor(now)
	rec := &repository.ReservationRecord{
		TableID:   body.TableID,
		Name:      body.Name,
		Phone:     body.Phone,
		Date:      body.Date,
		Time:      body.Time,
		Guests:    body.Guests,
		CreatedAt: now,
		ExpiresAt: &expiresAt,
	}
	if err := h.ReservationRepo.Create(c.Request().Context(), rec); err != nil {
		switch {
		case errors.Is(err, repository.ErrTableNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		case errors.Is(err, repository.ErrSlotTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "table already reserved for this slot"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
		}
	}

	h.publish(c, queue.ActionCreated, rec)
	return c.JSON(http.StatusCreated, echo.Map{
		"id":     rec.ID,
		"status": rec.Status,
	})
}

// List handles GET /v1/reservations and returns every reservation joined
// with table and area names, ordered by date and time.
func (h *ReservationHandler) List(c echo.Context) error {
	details, err := h.ReservationRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// Accept handles POST /v1/reservations/:id/accept.  Only a pending
// reservation can be accepted.
func (h *ReservationHandler) Accept(c echo.Context) error {
	return h.transition(c, queue.ActionAccepted, h.ReservationRepo.Accept)
}

// Decline handles POST /v1/reservations/:id/decline.  Pending and
// accepted reservations can be declined.
func (h *ReservationHandler) Decline(c echo.Context) error {
	return h.transition(c, queue.ActionDeclined, h.ReservationRepo.Decline)
}

func (h *ReservationHandler) transition(c echo.Context, action string, op func(ctx context.Context, id uint64) (*repository.ReservationRecord, error)) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	rec, err := op(c.Request().Context(), id)
	if err != nil {
		var wrong *repository.WrongStatusError
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.As(err, &wrong):
			return c.JSON(http.StatusConflict, echo.Map{"error": wrong.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
		}
	}
	h.publish(c, action, rec)
	return c.JSON(http.StatusOK, echo.Map{
		"id":     rec.ID,
		"status": rec.Status,
	})
}

// Cancel handles DELETE /v1/reservations/:id.  Cancellation removes the
// row outright regardless of status and cannot be undone.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	rec, err := h.ReservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	if err := h.ReservationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete reservation"})
	}
	h.publish(c, queue.ActionCancelled, rec)
	return c.JSON(http.StatusOK, echo.Map{
		"deleted": true,
		"id":      id,
	})
}

// publish emits a lifecycle event, ignoring failures: the broker is an
// observer of the engine, never a dependency of it.
func (h *ReservationHandler) publish(c echo.Context, action string, rec *repository.ReservationRecord) {
	if h.Publish == nil {
		return
	}
	ev := queue.ReservationEvent{
		Action:        action,
		ReservationID: rec.ID,
		TableID:       rec.TableID,
		GuestName:     rec.Name,
		Phone:         rec.Phone,
		Date:          rec.Date,
		Time:          rec.Time,
		Guests:        rec.Guests,
		Status:        rec.Status,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	_ = h.Publish(c.Request().Context(), ev)
}
