package handler

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"givehubtel/internal/checkout"
	"givehubtel/internal/models"
	"givehubtel/internal/nonce"
)

// DonationHandler serves the donation form, runs checkout and renders the
// confirmation pages.
type DonationHandler struct {
	svc    *checkout.Service
	store  checkout.DonationStore
	issuer *nonce.Issuer
	logger *zap.Logger
}

func NewDonationHandler(svc *checkout.Service, store checkout.DonationStore, issuer *nonce.Issuer, logger *zap.Logger) *DonationHandler {
	return &DonationHandler{
		svc:    svc,
		store:  store,
		issuer: issuer,
		logger: logger,
	}
}

// New renders the donation form with a fresh single-use token.
func (h *DonationHandler) New(c echo.Context) error {
	return renderHTML(c, formTemplate, map[string]interface{}{
		"Nonce":   h.issuer.Issue(),
		"Gateway": checkout.GatewayName,
	})
}

// Checkout handles the donation form submission. On success the donor is sent
// to the Hubtel hosted page; on any failure back to the checkout page with
// the chosen gateway preserved.
func (h *DonationHandler) Checkout(c echo.Context) error {
	req := checkout.Request{
		Amount:    c.FormValue("amount"),
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		Email:     c.FormValue("email"),
		Gateway:   c.FormValue("gateway"),
		Nonce:     c.FormValue("gateway_nonce"),
	}

	outcome, err := h.svc.Initiate(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, checkout.ErrInvalidNonce) {
			return c.String(http.StatusForbidden, "Invalid or expired form token. Please reload the donation form.")
		}
		h.logger.Error("checkout failed", zap.Error(err))
		return c.String(http.StatusInternalServerError, "checkout error")
	}

	return c.Redirect(http.StatusSeeOther, outcome.RedirectURL)
}

// Confirm is the return URL target. Payment confirmation arrives out of band,
// so a donation that is still pending gets a "processing" page rather than a
// receipt.
func (h *DonationHandler) Confirm(c echo.Context) error {
	id, err := strconv.ParseUint(c.QueryParam("payment-id"), 10, 32)
	if err != nil || id == 0 {
		return renderHTML(c, resultTemplate, map[string]interface{}{
			"Title":   "Donation not found",
			"Message": "We could not find this donation. If you completed a payment, our team will reconcile it shortly.",
		})
	}

	donation, err := h.store.FindByID(uint(id))
	if err != nil {
		return renderHTML(c, resultTemplate, map[string]interface{}{
			"Title":   "Donation not found",
			"Message": "We could not find this donation. If you completed a payment, our team will reconcile it shortly.",
		})
	}

	switch donation.Status {
	case models.StatusCompleted:
		return renderHTML(c, resultTemplate, map[string]interface{}{
			"Title":    "Thank you for your donation!",
			"Message":  "Your payment has been confirmed.",
			"Donation": donation,
		})
	case models.StatusPending:
		return renderHTML(c, resultTemplate, map[string]interface{}{
			"Title":      "Payment processing",
			"Message":    "Your payment is being confirmed by the payment provider. This page can be refreshed in a few moments.",
			"Donation":   donation,
			"Processing": true,
		})
	default:
		return renderHTML(c, resultTemplate, map[string]interface{}{
			"Title":    "Payment not completed",
			"Message":  "This payment was not completed. You can return to the donation page and try again.",
			"Donation": donation,
		})
	}
}

// Failed is the cancellation URL target.
func (h *DonationHandler) Failed(c echo.Context) error {
	return renderHTML(c, resultTemplate, map[string]interface{}{
		"Title":   "Payment cancelled",
		"Message": "The payment was cancelled. No money has been taken; you can return to the donation page and try again.",
	})
}

func renderHTML(c echo.Context, tmpl *template.Template, data interface{}) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/html; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return tmpl.Execute(c.Response().Writer, data)
}

var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Make a Donation</title>
    <style>
        body { font-family: sans-serif; background: #f2f2f2; margin: 0; padding: 20px; display: flex; justify-content: center; }
        .box { background: #fff; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); padding: 40px; max-width: 420px; width: 100%; }
        label { display: block; margin: 12px 0 4px; color: #333; }
        input { width: 100%; padding: 8px; box-sizing: border-box; }
        button { margin-top: 20px; padding: 10px 24px; }
    </style>
</head>
<body>
    <div class="box">
        <h1>Make a Donation</h1>
        <form method="POST" action="/donations/checkout">
            <label>Amount</label>
            <input type="text" name="amount" required>
            <label>First name</label>
            <input type="text" name="first_name">
            <label>Last name</label>
            <input type="text" name="last_name">
            <label>Email</label>
            <input type="email" name="email" required>
            <input type="hidden" name="gateway" value="{{.Gateway}}">
            <input type="hidden" name="gateway_nonce" value="{{.Nonce}}">
            <button type="submit">Donate with Bank Card / Mobile Money</button>
        </form>
    </div>
</body>
</html>`))

var resultTemplate = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    {{if .Processing}}<meta http-equiv="refresh" content="10">{{end}}
    <style>
        body { font-family: sans-serif; background: #f2f2f2; margin: 0; padding: 20px; display: flex; justify-content: center; align-items: center; min-height: 100vh; }
        .box { background: #fff; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); padding: 40px; text-align: center; max-width: 420px; width: 100%; }
        h1 { color: #333; margin-bottom: 20px; }
        p { color: #666; margin-bottom: 10px; }
    </style>
</head>
<body>
    <div class="box">
        <h1>{{.Title}}</h1>
        {{with .Donation}}
        <p>Donation #{{.ID}}</p>
        <p>Amount: {{.Amount}}</p>
        {{if .TransactionID}}<p>Transaction: {{.TransactionID}}</p>{{end}}
        {{end}}
        <p>{{.Message}}</p>
    </div>
</body>
</html>`))
