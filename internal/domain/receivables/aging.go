package receivables

import "time"

// Bucket is a derived classification of a receivable's age relative to its
// due date. It is recomputed on demand and never persisted.
type Bucket string

const (
	BucketCurrent Bucket = "current"
	Bucket1To30   Bucket = "1-30"
	Bucket31To60  Bucket = "31-60"
	Bucket61To90  Bucket = "61-90"
	BucketOver90  Bucket = "90+"
)

// AgingBucket classifies how many whole days overdue a receivable is as of
// the given instant. Anything not yet past due is current.
func AgingBucket(dueDate, asOf time.Time) Bucket {
	if !dueDate.Before(asOf) {
		return BucketCurrent
	}

	days := int(asOf.Sub(dueDate).Hours() / 24)
	switch {
	case days < 1:
		return BucketCurrent
	case days <= 30:
		return Bucket1To30
	case days <= 60:
		return Bucket31To60
	case days <= 90:
		return Bucket61To90
	default:
		return BucketOver90
	}
}

// DaysOverdue returns the number of whole days past due, zero if not overdue
func DaysOverdue(dueDate, asOf time.Time) int {
	if !dueDate.Before(asOf) {
		return 0
	}
	return int(asOf.Sub(dueDate).Hours() / 24)
}
