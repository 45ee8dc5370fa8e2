package models

// LeaderboardEntry is one row of the ranked balance view.
// DisplayName may be empty when the user never set one; callers
// fall back to the numeric identity for display.
type LeaderboardEntry struct {
	Rank        int
	UserID      int64
	DisplayName string
	Balance     int64
}
