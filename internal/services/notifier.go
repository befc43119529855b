package services

import "github.com/BasanLidzhiev/bank-rest/internal/models"

// Notifier sends user-facing notifications. A nil Notifier disables
// them; sends run on the worker pool and never block a request.
type Notifier interface {
	CardBlocked(to, username string, card models.CardView) error
	// BlockRequested alerts the admin inbox that a user asked for a
	// card block.
	BlockRequested(username string, card models.CardView) error
	TransferCompleted(to, username string, txn models.Transaction) error
}
