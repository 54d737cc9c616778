package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"givehubtel/internal/checkout"
	"givehubtel/internal/config"
	"givehubtel/internal/hubtel"
	"givehubtel/internal/models"
	"givehubtel/internal/nonce"
)

type rejectAll struct{}

func (rejectAll) Validate(context.Context, string) bool { return false }

func testIssuer(t *testing.T) *nonce.Issuer {
	t.Helper()
	store, err := nonce.NewStore("", "", 0)
	require.NoError(t, err)
	return nonce.NewIssuer("secret", time.Minute, store)
}

func TestNewRendersFormWithNonce(t *testing.T) {
	store := &memStore{donations: map[uint]*models.Donation{}}
	h := NewDonationHandler(nil, store, testIssuer(t), zap.NewNop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/donations/new", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.New(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="gateway_nonce"`)
	assert.Contains(t, rec.Body.String(), `value="hubtel"`)
}

func TestCheckoutInvalidNonceForbidden(t *testing.T) {
	cfg := &config.Config{Site: config.SiteConfig{BaseURL: "https://donate.example.org"}}
	client := hubtel.NewClient("id", "key", "https://api.invalid", false)
	store := &memStore{donations: map[uint]*models.Donation{}}
	svc := checkout.NewService(store, client, rejectAll{}, cfg, zap.NewNop())
	h := NewDonationHandler(svc, store, testIssuer(t), zap.NewNop())

	form := url.Values{}
	form.Set("amount", "50")
	form.Set("email", "a@b.com")
	form.Set("gateway_nonce", "stale")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/donations/checkout", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Checkout(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestConfirmPages(t *testing.T) {
	store := &memStore{donations: map[uint]*models.Donation{
		1: {ID: 1, Status: models.StatusPending, Amount: "50"},
		2: {ID: 2, Status: models.StatusCompleted, Amount: "75", TransactionID: "chk-2"},
	}}
	h := NewDonationHandler(nil, store, testIssuer(t), zap.NewNop())

	cases := []struct {
		paymentID string
		want      string
	}{
		{"1", "Payment processing"},
		{"2", "Thank you for your donation!"},
		{"99", "Donation not found"},
		{"", "Donation not found"},
	}

	for _, tc := range cases {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/donations/confirm?payment-confirmation=hubtel&payment-id="+tc.paymentID, nil)
		rec := httptest.NewRecorder()
		require.NoError(t, h.Confirm(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), tc.want)
	}
}
