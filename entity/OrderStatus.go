package entity

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
)

// StatusSequence is the canonical order workflow. Orders only move forward,
// one step at a time, and stop at StatusDelivered.
var StatusSequence = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusDelivered,
}

// Bucket groups orders for the admin board.
type Bucket string

const (
	BucketPending   Bucket = "pending"
	BucketActive    Bucket = "active"
	BucketCompleted Bucket = "completed"
)

func (s OrderStatus) index() int {
	for i, st := range StatusSequence {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s belongs to the canonical sequence.
func (s OrderStatus) Valid() bool { return s.index() >= 0 }

// Terminal reports whether no further transition exists from s.
func (s OrderStatus) Terminal() bool { return s == StatusDelivered }

// NextStatus returns the successor of s, or false at the terminal state and
// for unknown statuses.
func NextStatus(s OrderStatus) (OrderStatus, bool) {
	i := s.index()
	if i < 0 || i == len(StatusSequence)-1 {
		return "", false
	}
	return StatusSequence[i+1], true
}

// CanAdvance reports whether to is the immediate successor of from.
func CanAdvance(from, to OrderStatus) bool {
	next, ok := NextStatus(from)
	return ok && next == to
}

// BucketOf places a status in exactly one bucket. Unknown statuses have none.
func BucketOf(s OrderStatus) (Bucket, bool) {
	switch s {
	case StatusPending:
		return BucketPending, true
	case StatusConfirmed, StatusPreparing, StatusReady:
		return BucketActive, true
	case StatusDelivered:
		return BucketCompleted, true
	}
	return "", false
}

// Classify keeps the orders that fall into bucket. An unknown bucket keeps
// every order, which is what the "all" tab of the admin board shows.
func Classify(orders []Order, bucket Bucket) []Order {
	switch bucket {
	case BucketPending, BucketActive, BucketCompleted:
	default:
		return orders
	}
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if b, ok := BucketOf(o.Status); ok && b == bucket {
			out = append(out, o)
		}
	}
	return out
}
