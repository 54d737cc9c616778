package hubtel

import "encoding/json"

// Literals of the Hubtel POS wire contract.
const (
	// StatusSuccess is the top-level status marker on both the initiate
	// response and the callback.
	StatusSuccess = "Success"
	// ResponseCodeOK is the "no error" response code on callbacks.
	ResponseCodeOK = "0000"
	// ReferencePrefix marks client references issued by this service; a
	// callback whose reference lacks it is not ours.
	ReferencePrefix = "dn"
	// InitiatePath creates a hosted checkout invoice.
	InitiatePath = "onlinecheckout/items/initiate"
)

// InvoiceItem is one line item on a checkout invoice.
type InvoiceItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

// InvoicePayload is the invoice-creation request body. It is built fresh per
// checkout attempt and never persisted.
type InvoicePayload struct {
	Items                   []InvoiceItem `json:"items"`
	TotalAmount             string        `json:"totalAmount"`
	Description             string        `json:"description"`
	CallbackURL             string        `json:"callbackUrl"`
	ReturnURL               string        `json:"returnUrl"`
	CancellationURL         string        `json:"cancellationUrl"`
	MerchantBusinessLogoURL string        `json:"merchantBusinessLogoUrl"`
	MerchantAccountNumber   string        `json:"merchantAccountNumber"`
	ClientReference         string        `json:"clientReference"`
}

// InitiateResponse is the parsed body of a successful invoice creation. The
// synchronous response only yields the hosted checkout URL; it is not proof
// of payment.
type InitiateResponse struct {
	Status string `json:"status"`
	Data   struct {
		CheckoutURL string `json:"checkoutUrl"`
	} `json:"data"`
}

// DecodeInitiate parses an initiate response body. A body that is not valid
// JSON reports ok=false; the HTTP round trip itself is still a success as far
// as the transport layer is concerned.
func DecodeInitiate(body []byte) (*InitiateResponse, bool) {
	var parsed InitiateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, false
	}
	return &parsed, true
}

// Callback is the provider-initiated payment notification. Data is kept raw
// so the exact payload can be attached to the donation as an audit note.
type Callback struct {
	Status       string          `json:"Status"`
	ResponseCode string          `json:"ResponseCode"`
	Data         json.RawMessage `json:"Data"`
}

// CallbackData is the subset of the callback data section this service acts
// on. Hubtel sends more fields; they ride along in the raw note.
type CallbackData struct {
	ClientReference string `json:"ClientReference"`
	CheckoutID      string `json:"CheckoutId"`
}
