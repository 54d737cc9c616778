package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"givehubtel/internal/config"
	"givehubtel/internal/hubtel"
	"givehubtel/internal/models"
)

// GatewayName identifies this gateway in form submissions and return URLs.
const GatewayName = "hubtel"

// CallbackPath is where Hubtel delivers payment notifications.
const CallbackPath = "/give-hubtel/callback"

// ErrInvalidNonce aborts a checkout before any record is created.
var ErrInvalidNonce = errors.New("checkout: invalid or expired form token")

// NonceValidator checks and consumes the donation form's authenticity token.
type NonceValidator interface {
	Validate(ctx context.Context, token string) bool
}

// Request is one submitted donation form.
type Request struct {
	Amount    string
	FirstName string
	LastName  string
	Email     string
	Gateway   string
	Nonce     string
}

// Outcome tells the HTTP layer where to send the donor. Failed outcomes point
// back at the checkout page with the originally selected gateway preserved.
type Outcome struct {
	RedirectURL string
	Failed      bool
	DonationID  uint
}

// Service orchestrates a single checkout attempt: validate the token, create
// a pending donation, build the invoice, call Hubtel, and branch on the
// synchronous response. No retries; the donor retries by resubmitting.
type Service struct {
	store  DonationStore
	client *hubtel.Client
	nonce  NonceValidator
	site   config.SiteConfig
	hub    config.HubtelConfig
	logger *zap.Logger
}

func NewService(store DonationStore, client *hubtel.Client, nonce NonceValidator, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		client: client,
		nonce:  nonce,
		site:   cfg.Site,
		hub:    cfg.Hubtel,
		logger: logger,
	}
}

// Initiate runs one checkout attempt. The pending donation is created before
// the invoice request is sent, because the client reference embeds its id; if
// creation fails no provider call is made. Provider-side failures of any kind
// resolve to a failure outcome, never an error.
func (s *Service) Initiate(ctx context.Context, req Request) (Outcome, error) {
	if req.Gateway == "" {
		req.Gateway = GatewayName
	}

	if !s.nonce.Validate(ctx, req.Nonce) {
		return Outcome{}, ErrInvalidNonce
	}

	donation := &models.Donation{
		Amount:    req.Amount,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Gateway:   req.Gateway,
	}
	id, err := s.store.CreatePending(donation)
	if err != nil || id == 0 {
		formJSON, _ := json.Marshal(req)
		_ = s.store.RecordGatewayError(
			"Payment Error",
			"Donation creation failed before sending donor to Hubtel. Form data: "+string(formJSON),
			0,
		)
		s.logger.Error("donation creation failed", zap.Error(err))
		return s.failure(req.Gateway), nil
	}

	invoice := hubtel.BuildInvoice(hubtel.InvoiceParams{
		DonationID:  id,
		Amount:      req.Amount,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		CallbackURL: s.pageURL(CallbackPath),
		ReturnURL:   s.returnURL(id),
		CancelURL:   s.cancelURL(id),
		AccountID:   s.hub.AccountID,
		LogoURL:     s.hub.LogoURL,
	})

	resp, err := s.client.Request(ctx, hubtel.InitiatePath, http.MethodPost, invoice)
	if err != nil {
		s.logger.Error("hubtel initiate failed",
			zap.Uint("donation_id", id),
			zap.Error(err))
		return s.failureFor(req.Gateway, id), nil
	}

	parsed, ok := hubtel.DecodeInitiate(resp.Body)
	if ok && parsed.Status == hubtel.StatusSuccess && parsed.Data.CheckoutURL != "" {
		return Outcome{RedirectURL: parsed.Data.CheckoutURL, DonationID: id}, nil
	}

	s.logger.Warn("hubtel initiate rejected",
		zap.Uint("donation_id", id),
		zap.Int("status_code", resp.StatusCode),
		zap.ByteString("body", resp.Body))
	return s.failureFor(req.Gateway, id), nil
}

func (s *Service) failure(gateway string) Outcome {
	return Outcome{
		Failed:      true,
		RedirectURL: s.pageURL(s.site.CheckoutPage) + "?payment-mode=" + url.QueryEscape(gateway),
	}
}

func (s *Service) failureFor(gateway string, id uint) Outcome {
	out := s.failure(gateway)
	out.DonationID = id
	return out
}

func (s *Service) returnURL(id uint) string {
	q := url.Values{}
	q.Set("payment-confirmation", GatewayName)
	q.Set("payment-id", strconv.FormatUint(uint64(id), 10))
	return s.pageURL(s.site.SuccessPage) + "?" + q.Encode()
}

func (s *Service) cancelURL(id uint) string {
	return s.pageURL(s.site.FailedPage) + "?payment-id=" + strconv.FormatUint(uint64(id), 10)
}

// pageURL resolves a configured page against the site base URL. Absolute
// URLs pass through.
func (s *Service) pageURL(page string) string {
	if strings.HasPrefix(page, "http://") || strings.HasPrefix(page, "https://") {
		return page
	}
	return strings.TrimRight(s.site.BaseURL, "/") + page
}
