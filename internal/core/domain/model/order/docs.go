// Package order contains the Order aggregate and its state machine.
//
// An Order moves along a strict linear path:
//
//	PENDING -> CONFIRMED -> PREPARING -> READY -> PICKED_UP -> IN_TRANSIT -> DELIVERED
//
// with CANCELLED reachable from PENDING and CONFIRMED through the customer
// cancellation window, and from any non-terminal state when the system
// force-cancels after a terminally failed delivery.
//
// The aggregate owns its lines and status history. Totals are recomputed on
// every line mutation so that
//
//	total = subtotal + delivery fee + service fee + tax + tip - discount
//
// holds at all times. Cross-aggregate side effects of transitions (statistics
// counters, stock restoration, delivery creation) are coordinated by the
// application layer inside a single transaction.
package order
