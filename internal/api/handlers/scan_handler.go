package handlers

import (
	"GreenChoice-Backend/domain"
	"GreenChoice-Backend/internal/api/presenters"
	"GreenChoice-Backend/internal/realtime"
	"GreenChoice-Backend/pkg/scan"
	"GreenChoice-Backend/pkg/stats"
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type (
	ScanHandler interface {
		Predict(c *fiber.Ctx) error
		SaveScan(c *fiber.Ctx) error
		GetHistory(c *fiber.Ctx) error
		GetHomeStats(c *fiber.Ctx) error
		Live() fiber.Handler
	}

	scanHandler struct {
		scanService  scan.ScanService
		statsService stats.StatsService
		hub          *realtime.Hub
		validator    *validator.Validate
	}
)

func NewScanHandler(scanService scan.ScanService, statsService stats.StatsService, hub *realtime.Hub, validator *validator.Validate) ScanHandler {
	return &scanHandler{
		scanService:  scanService,
		statsService: statsService,
		hub:          hub,
		validator:    validator,
	}
}

func (h *scanHandler) Predict(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedPredict, domain.ErrImageRequired)
	}

	res, err := h.scanService.Analyze(c.Context(), file)
	if err != nil {
		var apiErr *domain.APIError
		switch {
		case errors.Is(err, domain.ErrPredictTimeout):
			return presenters.ErrorResponse(c, fiber.StatusGatewayTimeout, domain.MessageFailedPredictTimeout, err)
		case errors.As(err, &apiErr):
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedPredict, err)
		case errors.Is(err, domain.ErrMalformedResponse):
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedPredict, err)
		case errors.Is(err, domain.ErrNotFoodProduct):
			return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedPredict, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedPredict, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessPredict)
}

func (h *scanHandler) SaveScan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.SaveScanRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveScan, domain.ErrImageRequired)
	}
	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveScan, err)
	}

	res, err := h.scanService.SaveScan(c.Context(), *req, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSaveScanFailed) {
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedSaveScan, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveScan, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSaveScan)
}

func (h *scanHandler) GetHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	history, err := h.scanService.GetHistory(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetHistory, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"scans": history,
		"total": len(history),
	}, fiber.StatusOK, domain.MessageSuccessGetHistory)
}

func (h *scanHandler) GetHomeStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.statsService.GetHomeStats(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetHomeStats, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetHomeStats)
}

// Live upgrades to a websocket and streams the user's full scan history:
// once on subscribe, then again after every saved scan. The subscription is
// torn down when the peer disconnects.
func (h *scanHandler) Live() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("user_id").(string)
		if !ok {
			_ = conn.Close()
			return
		}

		client := realtime.NewClient(userID)
		h.hub.Register(client)

		history, err := h.scanService.GetHistory(context.Background(), userID)
		if err != nil {
			log.Printf("Error loading initial history snapshot: %v", err)
		} else {
			h.hub.PublishSnapshot(userID, history)
		}

		realtime.ServeConn(h.hub, conn, client)
	})
}
