package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"givehubtel/internal/checkout"
	"givehubtel/internal/pkg/telegram"
)

// CallbackHandler receives Hubtel's server-to-server payment notifications.
type CallbackHandler struct {
	reconciler *checkout.Reconciler
	store      checkout.DonationStore
	botAPI     *telegram.BotAPI
	channel    string
	logger     *zap.Logger
}

// NewCallbackHandler creates the callback handler. botAPI may be nil when
// operator reports are not configured.
func NewCallbackHandler(reconciler *checkout.Reconciler, store checkout.DonationStore, botAPI *telegram.BotAPI, channel string, logger *zap.Logger) *CallbackHandler {
	return &CallbackHandler{
		reconciler: reconciler,
		store:      store,
		botAPI:     botAPI,
		channel:    channel,
		logger:     logger,
	}
}

// Handle processes one callback delivery. Hubtel only needs a 2xx to stop
// retrying, so the endpoint acknowledges every request, including ones the
// reconciler dropped.
func (h *CallbackHandler) Handle(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Warn("callback: body read failed", zap.Error(err))
		return c.NoContent(http.StatusOK)
	}

	result := h.reconciler.Handle(raw)

	if result.Completed {
		go h.reportCompleted(result.DonationID)
	}

	return c.NoContent(http.StatusOK)
}

func (h *CallbackHandler) reportCompleted(id uint) {
	if h.botAPI == nil || h.channel == "" {
		return
	}

	donation, err := h.store.FindByID(id)
	if err != nil {
		return
	}

	text := fmt.Sprintf(
		"💵 New donation\n\nDonation: #%d\nDonor: %s %s (%s)\nAmount: %s\nTransaction: %s\nMethod: Hubtel checkout",
		donation.ID, donation.FirstName, donation.LastName, donation.Email,
		donation.Amount, donation.TransactionID,
	)
	if _, err := h.botAPI.SendMessage(h.channel, text); err != nil {
		h.logger.Warn("payment report failed", zap.Error(err))
	}
}
