// Package payment contains the Payment aggregate, its state machine, and
// the Refund child record.
//
// A Payment moves through:
//
//	PENDING -> PROCESSING -> COMPLETED -> REFUNDED / PARTIALLY_REFUNDED
//
// with FAILED and CANCELLED reachable from every state except COMPLETED and
// REFUNDED. The three-way distribution (platform fee, restaurant amount,
// driver amount) is computed from a commission-rate snapshot taken at
// creation and recomputed idempotently when amounts change. Refunds
// accumulate against the completed amount, guarded so the refunded total
// never exceeds it.
package payment
