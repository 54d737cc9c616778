package checkout

import (
	"encoding/json"

	"go.uber.org/zap"

	"givehubtel/internal/hubtel"
	"givehubtel/internal/models"
)

// Result describes what one callback delivery did. The HTTP layer always
// acknowledges with 200 regardless; this exists for logging and reporting.
type Result struct {
	DonationID uint
	// Completed is true only when this delivery performed the pending ->
	// completed transition.
	Completed bool
	// Duplicate is true when the donation was already completed (or a
	// concurrent delivery won the transition race).
	Duplicate bool
}

// Reconciler applies provider callbacks to donation records. Callbacks are
// the only source of truth for whether money moved; everything about them is
// untrusted until parsed and matched to a donation of ours.
type Reconciler struct {
	store  DonationStore
	logger *zap.Logger
}

func NewReconciler(store DonationStore, logger *zap.Logger) *Reconciler {
	return &Reconciler{store: store, logger: logger}
}

// Handle processes one raw callback body. Malformed or foreign payloads are
// logged and dropped without touching any record. For recognized donations
// the raw data section is always appended as an audit note, then the status
// transition runs behind the store's at-most-once guard. Failure callbacks
// never write a failed status; the donation stays pending for follow-up.
func (r *Reconciler) Handle(raw []byte) Result {
	var cb hubtel.Callback
	if err := json.Unmarshal(raw, &cb); err != nil || len(cb.Data) == 0 {
		r.logger.Warn("callback: malformed body dropped",
			zap.Int("size", len(raw)))
		return Result{}
	}

	var data hubtel.CallbackData
	if err := json.Unmarshal(cb.Data, &data); err != nil {
		r.logger.Warn("callback: unreadable data section dropped")
		return Result{}
	}

	id, ok := hubtel.StripReference(data.ClientReference)
	if !ok {
		r.logger.Warn("callback: unrecognized client reference dropped",
			zap.String("client_reference", data.ClientReference))
		return Result{}
	}

	// Durable record that a callback arrived, independent of what it changes.
	if err := r.store.AppendNote(id, string(cb.Data)); err != nil {
		r.logger.Warn("callback: audit note failed",
			zap.Uint("donation_id", id),
			zap.Error(err))
	}

	status, err := r.store.Status(id)
	if err != nil {
		r.logger.Warn("callback: donation not found",
			zap.Uint("donation_id", id),
			zap.Error(err))
		_ = r.store.RecordGatewayError(
			"Callback Error",
			"Callback received for unknown donation. Reference: "+data.ClientReference,
			id,
		)
		return Result{DonationID: id}
	}

	if status == models.StatusCompleted {
		r.logger.Info("callback: duplicate for completed donation",
			zap.Uint("donation_id", id))
		return Result{DonationID: id, Duplicate: true}
	}

	if cb.Status == hubtel.StatusSuccess && cb.ResponseCode == hubtel.ResponseCodeOK {
		done, err := r.store.MarkCompleted(id, data.CheckoutID)
		if err != nil {
			r.logger.Error("callback: completion update failed",
				zap.Uint("donation_id", id),
				zap.Error(err))
			return Result{DonationID: id}
		}
		if !done {
			// A concurrent delivery got there first.
			return Result{DonationID: id, Duplicate: true}
		}
		r.logger.Info("donation completed",
			zap.Uint("donation_id", id),
			zap.String("transaction_id", data.CheckoutID))
		return Result{DonationID: id, Completed: true}
	}

	r.logger.Info("callback: non-success outcome recorded",
		zap.Uint("donation_id", id),
		zap.String("status", cb.Status),
		zap.String("response_code", cb.ResponseCode))
	return Result{DonationID: id}
}
