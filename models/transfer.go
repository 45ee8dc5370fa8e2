package models

// TransferResult describes a committed transfer from the sender's perspective
type TransferResult struct {
	Amount        int64
	RecipientID   int64
	RecipientName string
	NewBalance    int64
}
