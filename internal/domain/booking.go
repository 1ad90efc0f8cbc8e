package domain

import "time"

// BookingKind discriminates the three booking collections attached to a trip.
type BookingKind string

const (
	BookingKindHotel  BookingKind = "HOTEL"
	BookingKindFlight BookingKind = "FLIGHT"
	BookingKindOther  BookingKind = "OTHER"
)

// BookingKinds lists the closed set of kinds in reporting order.
var BookingKinds = []BookingKind{BookingKindHotel, BookingKindFlight, BookingKindOther}

// Valid reports whether k is a known booking kind.
func (k BookingKind) Valid() bool {
	return k == BookingKindHotel || k == BookingKindFlight || k == BookingKindOther
}

// Booking is a single reservation record. The three kinds share one shape
// with a kind tag so subtotal and removal are written once; kind-specific
// fields are simply unused by the other kinds.
type Booking struct {
	ID   BookingID
	Kind BookingKind

	// Amount is the booked cost in Currency. Currency is advisory: sums
	// assume a single reporting currency equal to the trip's currency, no
	// conversion is performed.
	Amount   float64
	Currency string

	// ConfirmationCode is the provider's reference, when known.
	ConfirmationCode string
	// Provider is the hotel name, airline, or vendor.
	Provider string
	// Detail holds the kind-specific one-liner: room type, flight route,
	// tour name, and so on.
	Detail string

	Attachments []Attachment

	CreatedAt time.Time
}

// Validate returns the list of unmet conditions for a booking write.
// An empty slice means the booking is acceptable.
func (b Booking) Validate() []string {
	var unmet []string
	if !b.Kind.Valid() {
		unmet = append(unmet, "kind must be one of hotel, flight, other")
	}
	if b.Amount < 0 {
		unmet = append(unmet, "amount must be non-negative")
	}
	return unmet
}
