package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"quickgo/internal/core/application/usecases/commands"
	"quickgo/internal/core/domain/model/delivery"
	"quickgo/internal/core/domain/model/kernel"
)

type assignDriverRequest struct {
	DriverID string `json:"driver_id"`
}

// AssignDriver handles POST /api/v1/deliveries/:id/assign.
func (s *Server) AssignDriver(ctx echo.Context) error {
	deliveryID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req assignDriverRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewAssignDriverCommand(deliveryID, driverID)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.AssignDriver.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// StartPickup handles POST /api/v1/deliveries/:id/start-pickup.
func (s *Server) StartPickup(ctx echo.Context) error {
	deliveryID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewStartPickupCommand(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.StartPickup.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ConfirmPickup handles POST /api/v1/deliveries/:id/confirm-pickup.
func (s *Server) ConfirmPickup(ctx echo.Context) error {
	deliveryID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewConfirmPickupCommand(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.ConfirmPickup.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// StartTransit handles POST /api/v1/deliveries/:id/start-transit.
func (s *Server) StartTransit(ctx echo.Context) error {
	deliveryID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewStartTransitCommand(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.StartTransit.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// MarkArrived handles POST /api/v1/deliveries/:id/arrived.
func (s *Server) MarkArrived(ctx echo.Context) error {
	deliveryID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewMarkArrivedCommand(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.MarkArrived.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type completeDeliveryRequest struct {
	ProofPhotoURL string `json:"proof_photo_url"`
	Signature     string `json:"signature"`
	Notes         string `json:"notes"`
}

// CompleteDelivery handles POST /api/v1/deliveries/:id/complete.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	deliveryID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req completeDeliveryRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewCompleteDeliveryCommand(deliveryID, req.ProofPhotoURL, req.Signature, req.Notes)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.CompleteDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type failDeliveryRequest struct {
	Reason   string `json:"reason"`
	Notes    string `json:"notes"`
	PhotoURL string `json:"photo_url"`
}

// FailDelivery handles POST /api/v1/deliveries/:id/fail.
func (s *Server) FailDelivery(ctx echo.Context) error {
	deliveryID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req failDeliveryRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewFailDeliveryCommand(
		deliveryID, delivery.FailureReason(req.Reason), req.Notes, req.PhotoURL)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.FailDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type cancelDeliveryRequest struct {
	Notes string `json:"notes"`
}

// CancelDelivery handles POST /api/v1/deliveries/:id/cancel.
func (s *Server) CancelDelivery(ctx echo.Context) error {
	deliveryID, err := pathID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var req cancelDeliveryRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewCancelDeliveryCommand(deliveryID, req.Notes)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = s.handlers.CancelDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}
