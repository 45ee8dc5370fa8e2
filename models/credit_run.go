package models

import (
	"time"
)

// CreditRun records one completed daily credit distribution.
// RunDate is normalized to the start of the credited day; the unique
// constraint on it is what makes the job exactly-once per day.
type CreditRun struct {
	ID            int64     `db:"id"`
	RunDate       time.Time `db:"run_date"`
	Amount        int64     `db:"amount"`
	UsersCredited int       `db:"users_credited"`
	CreatedAt     time.Time `db:"created_at"`
}
