package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"givehubtel/internal/checkout"
	"givehubtel/internal/models"
)

// memStore is a minimal DonationStore for handler tests.
type memStore struct {
	donations map[uint]*models.Donation
	notes     int
}

func (s *memStore) CreatePending(d *models.Donation) (uint, error) { return 0, nil }

func (s *memStore) FindByID(id uint) (*models.Donation, error) {
	d, ok := s.donations[id]
	if !ok {
		return nil, fmt.Errorf("donation %d not found", id)
	}
	return d, nil
}

func (s *memStore) Status(id uint) (string, error) {
	d, err := s.FindByID(id)
	if err != nil {
		return "", err
	}
	return d.Status, nil
}

func (s *memStore) MarkCompleted(id uint, txn string) (bool, error) {
	d, err := s.FindByID(id)
	if err != nil || d.Status == models.StatusCompleted {
		return false, nil
	}
	d.Status = models.StatusCompleted
	d.TransactionID = txn
	return true, nil
}

func (s *memStore) AppendNote(id uint, note string) error { s.notes++; return nil }

func (s *memStore) RecordGatewayError(title, message string, id uint) error { return nil }

func postCallback(t *testing.T, h *CallbackHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/give-hubtel/callback", strings.NewReader(body))
	rec := httptest.NewRecorder()
	require.NoError(t, h.Handle(e.NewContext(req, rec)))
	return rec
}

func TestCallbackAlwaysAcknowledges(t *testing.T) {
	store := &memStore{donations: map[uint]*models.Donation{}}
	h := NewCallbackHandler(checkout.NewReconciler(store, zap.NewNop()), store, nil, "", zap.NewNop())

	for _, body := range []string{
		"",
		"not json at all",
		`{"Status":"Success","ResponseCode":"0000","Data":{"ClientReference":"dn12345"}}`,
	} {
		rec := postCallback(t, h, body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	}
}

func TestCallbackCompletesPendingDonation(t *testing.T) {
	store := &memStore{donations: map[uint]*models.Donation{
		42: {ID: 42, Status: models.StatusPending, Amount: "50"},
	}}
	h := NewCallbackHandler(checkout.NewReconciler(store, zap.NewNop()), store, nil, "", zap.NewNop())

	rec := postCallback(t, h, `{"Status":"Success","ResponseCode":"0000","Data":{"ClientReference":"dn42","CheckoutId":"chk-7"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusCompleted, store.donations[42].Status)
	assert.Equal(t, "chk-7", store.donations[42].TransactionID)
	assert.Equal(t, 1, store.notes)
}
