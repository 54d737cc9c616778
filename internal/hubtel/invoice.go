package hubtel

import (
	"fmt"
	"strconv"
	"strings"
)

// BuildReference builds the client reference embedded in the invoice and
// echoed back by the callback.
func BuildReference(donationID uint) string {
	return ReferencePrefix + strconv.FormatUint(uint64(donationID), 10)
}

// StripReference recovers the donation id from a client reference. References
// without the prefix, or whose remainder is not a positive integer, belong to
// someone else and report ok=false.
func StripReference(ref string) (uint, bool) {
	rest, found := strings.CutPrefix(ref, ReferencePrefix)
	if !found || rest == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(rest, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// InvoiceParams is everything BuildInvoice needs. The caller must have
// allocated a fresh donation id first; the client reference embeds it.
type InvoiceParams struct {
	DonationID uint
	Amount     string
	FirstName  string
	LastName   string
	Email      string

	CallbackURL string
	ReturnURL   string
	CancelURL   string

	AccountID string
	LogoURL   string
}

// BuildInvoice maps a donation to the Hubtel invoice payload. Pure: no I/O,
// deterministic given its inputs. Amount passes through exactly as submitted.
func BuildInvoice(p InvoiceParams) InvoicePayload {
	return InvoicePayload{
		Items: []InvoiceItem{
			{Name: "Donation", Quantity: 1, UnitPrice: p.Amount},
		},
		TotalAmount:             p.Amount,
		Description:             fmt.Sprintf("Donation by %s %s (%s)", p.FirstName, p.LastName, p.Email),
		CallbackURL:             p.CallbackURL,
		ReturnURL:               p.ReturnURL,
		CancellationURL:         p.CancelURL,
		MerchantBusinessLogoURL: p.LogoURL,
		MerchantAccountNumber:   p.AccountID,
		ClientReference:         BuildReference(p.DonationID),
	}
}
