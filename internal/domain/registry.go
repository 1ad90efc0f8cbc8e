package domain

import (
	"fmt"
	"time"
)

// ActivityCategory classifies what an activity was.
type ActivityCategory string

const (
	ActivityMeal          ActivityCategory = "MEAL"
	ActivityMuseum        ActivityCategory = "MUSEUM"
	ActivityTour          ActivityCategory = "TOUR"
	ActivityShopping      ActivityCategory = "SHOPPING"
	ActivityTransport     ActivityCategory = "TRANSPORT"
	ActivityLodging       ActivityCategory = "LODGING"
	ActivityEntertainment ActivityCategory = "ENTERTAINMENT"
	ActivityOther         ActivityCategory = "OTHER"
)

// ActivityCategories lists the closed category set in reporting order.
// Dashboard breakdowns iterate this slice so output ordering is stable.
var ActivityCategories = []ActivityCategory{
	ActivityMeal,
	ActivityMuseum,
	ActivityTour,
	ActivityShopping,
	ActivityTransport,
	ActivityLodging,
	ActivityEntertainment,
	ActivityOther,
}

// Valid reports whether c is a known activity category.
func (c ActivityCategory) Valid() bool {
	for _, k := range ActivityCategories {
		if c == k {
			return true
		}
	}
	return false
}

// AttachmentCategory classifies an uploaded file.
type AttachmentCategory string

const (
	AttachmentReceipt AttachmentCategory = "RECEIPT"
	AttachmentTicket  AttachmentCategory = "TICKET"
	AttachmentInvoice AttachmentCategory = "INVOICE"
	AttachmentProof   AttachmentCategory = "PROOF"
	AttachmentPhoto   AttachmentCategory = "PHOTO"
	AttachmentOther   AttachmentCategory = "OTHER"
)

// Attachment is a stored file owned by an activity or booking.
// StorageRef is an opaque reference into the external file store; this
// engine never interprets it.
type Attachment struct {
	ID          AttachmentID
	DisplayName string
	Category    AttachmentCategory
	StorageRef  string
	UploadedAt  time.Time
}

// Activity is a single dated, costed, optionally rated event within a
// daily registry.
type Activity struct {
	Name     string
	Category ActivityCategory
	Place    string

	// StartTime/EndTime bound the optional time window within the day.
	StartTime *time.Time
	EndTime   *time.Time

	Cost float64
	// Rating is 1..5 when set.
	Rating *int

	Attachments []Attachment
}

// Validate returns the list of unmet conditions for an activity.
// An empty slice means the activity is acceptable.
func (a Activity) Validate() []string {
	var unmet []string
	if a.Name == "" {
		unmet = append(unmet, "name is required")
	}
	if a.Category == "" {
		unmet = append(unmet, "category is required")
	} else if !a.Category.Valid() {
		unmet = append(unmet, fmt.Sprintf("category %q is not recognized", string(a.Category)))
	}
	if a.Place == "" {
		unmet = append(unmet, "place is required")
	}
	if a.Cost < 0 {
		unmet = append(unmet, "cost must be non-negative")
	}
	if a.Rating != nil && (*a.Rating < 1 || *a.Rating > 5) {
		unmet = append(unmet, "rating must be between 1 and 5")
	}
	return unmet
}

// DailyRegistry records the activities of one calendar date of a trip.
// At most one registry exists per (trip, date).
type DailyRegistry struct {
	Date time.Time // date-only semantics (UTC midnight)

	// Activities is ordered; order is preserved across upserts.
	Activities []Activity

	Notes string

	UpdatedAt time.Time
}

// TotalCost is the sum of the activities' costs. The registry total is
// always derived from the activity list, never stored independently, so it
// cannot drift from its source.
func (r DailyRegistry) TotalCost() float64 {
	var sum float64
	for _, a := range r.Activities {
		sum += a.Cost
	}
	return sum
}
