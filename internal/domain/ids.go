package domain

// OwnerID identifies the user that owns a trip. We model it as an opaque
// identifier: its format is controlled by the surrounding profile system.
type OwnerID string

// TripID is an internal identifier for a persisted trip record.
type TripID string

// BookingID is an internal identifier for a booking record.
type BookingID string

// AttachmentID is an internal identifier for an uploaded attachment.
type AttachmentID string
