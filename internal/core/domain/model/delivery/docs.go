// Package delivery contains the Delivery aggregate and its state machine.
//
// A Delivery tracks the physical handling of an order, on a parallel track
// to the kitchen status:
//
//	PENDING -> ASSIGNED -> PICKING_UP -> PICKED_UP -> IN_TRANSIT -> ARRIVED -> DELIVERED
//
// FAILED and CANCELLED are terminal escape states. FAILED is reached only
// when the attempt counter hits its budget; below that, a failed attempt
// leaves the delivery retryable in place. Driver assignment validates the
// driver's profile as a precondition, separate from the state check, and
// derives the ETA from the haversine route distance at 30 km/h plus a fixed
// margin.
package delivery
