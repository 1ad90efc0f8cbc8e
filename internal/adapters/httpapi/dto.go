package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapitypes "github.com/oapi-codegen/runtime/types"

	"github.com/lifetwin/trip-engine/internal/app/ledger"
	"github.com/lifetwin/trip-engine/internal/app/trips"
	"github.com/lifetwin/trip-engine/internal/domain"
)

// tripDTO is the wire shape of a trip. Calendar dates use date-only
// encoding; timestamps stay RFC 3339.
type tripDTO struct {
	ID        string             `json:"id,omitempty"`
	Phase     string             `json:"phase"`
	Title     string             `json:"title"`
	Country   string             `json:"country"`
	City      string             `json:"city"`
	StartDate *openapitypes.Date `json:"startDate,omitempty"`
	EndDate   *openapitypes.Date `json:"endDate,omitempty"`
	Currency  string             `json:"currency"`
	Budget    float64            `json:"budget"`
	Notes     string             `json:"notes,omitempty"`
	Dashboard *dashboardDTO      `json:"dashboard,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func toTripDTO(t *domain.Trip) tripDTO {
	dto := tripDTO{
		Phase:     string(t.Phase),
		Title:     t.Title,
		Country:   t.Destination.Country,
		City:      t.Destination.City,
		Currency:  t.Currency,
		Budget:    t.Budget,
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.ID != nil {
		dto.ID = string(*t.ID)
	}
	if t.StartDate != nil {
		d := openapitypes.Date{Time: *t.StartDate}
		dto.StartDate = &d
	}
	if t.EndDate != nil {
		d := openapitypes.Date{Time: *t.EndDate}
		dto.EndDate = &d
	}
	if t.Dashboard != nil {
		d := toDashboardDTO(t.Dashboard)
		dto.Dashboard = &d
	}
	return dto
}

// tripPayload is the inbound shape for placeholder trips being advanced out
// of planning (no id yet).
type tripPayload struct {
	Title     string             `json:"title"`
	Country   string             `json:"country"`
	City      string             `json:"city"`
	StartDate *openapitypes.Date `json:"startDate,omitempty"`
	EndDate   *openapitypes.Date `json:"endDate,omitempty"`
	Currency  string             `json:"currency"`
	Budget    float64            `json:"budget"`
	Notes     string             `json:"notes,omitempty"`
}

func (p tripPayload) toDomain(owner domain.OwnerID) *domain.Trip {
	t := domain.NewPlanningTrip(owner)
	t.Title = p.Title
	t.Destination = domain.Destination{Country: p.Country, City: p.City}
	t.Currency = p.Currency
	t.Budget = p.Budget
	t.Notes = p.Notes
	if p.StartDate != nil {
		sd := domain.DateOnly(p.StartDate.Time)
		t.StartDate = &sd
	}
	if p.EndDate != nil {
		ed := domain.DateOnly(p.EndDate.Time)
		t.EndDate = &ed
	}
	return t
}

// updateTripDTO is the PATCH shape for planning-phase edits. Nullable
// distinguishes "omitted" from "set to null": a null endDate reverts the
// trip to a single-day range.
type updateTripDTO struct {
	Title     nullable.Nullable[string]            `json:"title,omitempty"`
	Country   nullable.Nullable[string]            `json:"country,omitempty"`
	City      nullable.Nullable[string]            `json:"city,omitempty"`
	StartDate nullable.Nullable[openapitypes.Date] `json:"startDate,omitempty"`
	EndDate   nullable.Nullable[openapitypes.Date] `json:"endDate,omitempty"`
	Currency  nullable.Nullable[string]            `json:"currency,omitempty"`
	Budget    nullable.Nullable[float64]           `json:"budget,omitempty"`
	Notes     nullable.Nullable[string]            `json:"notes,omitempty"`
}

func (d updateTripDTO) toInput() (trips.UpdateTripInput, error) {
	var in trips.UpdateTripInput
	var err error
	if in.Title, err = optionalOf(d.Title); err != nil {
		return in, err
	}
	if in.Country, err = optionalOf(d.Country); err != nil {
		return in, err
	}
	if in.City, err = optionalOf(d.City); err != nil {
		return in, err
	}
	if in.Currency, err = optionalOf(d.Currency); err != nil {
		return in, err
	}
	if in.Notes, err = optionalOf(d.Notes); err != nil {
		return in, err
	}
	if in.Budget, err = optionalOf(d.Budget); err != nil {
		return in, err
	}

	toTime := func(n nullable.Nullable[openapitypes.Date]) (trips.Optional[time.Time], error) {
		if !n.IsSpecified() {
			return trips.Unspecified[time.Time](), nil
		}
		if n.IsNull() {
			return trips.Null[time.Time](), nil
		}
		v, err := n.Get()
		if err != nil {
			return trips.Unspecified[time.Time](), err
		}
		return trips.Some(v.Time), nil
	}
	if in.StartDate, err = toTime(d.StartDate); err != nil {
		return in, err
	}
	if in.EndDate, err = toTime(d.EndDate); err != nil {
		return in, err
	}
	return in, nil
}

func optionalOf[T any](n nullable.Nullable[T]) (trips.Optional[T], error) {
	if !n.IsSpecified() {
		return trips.Unspecified[T](), nil
	}
	if n.IsNull() {
		return trips.Null[T](), nil
	}
	v, err := n.Get()
	if err != nil {
		return trips.Unspecified[T](), err
	}
	return trips.Some(v), nil
}

type bookingDTO struct {
	ID               string          `json:"id,omitempty"`
	Kind             string          `json:"kind"`
	Amount           float64         `json:"amount"`
	Currency         string          `json:"currency"`
	ConfirmationCode string          `json:"confirmationCode,omitempty"`
	Provider         string          `json:"provider,omitempty"`
	Detail           string          `json:"detail,omitempty"`
	Attachments      []attachmentDTO `json:"attachments,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

func toBookingDTO(b domain.Booking) bookingDTO {
	dto := bookingDTO{
		ID:               string(b.ID),
		Kind:             string(b.Kind),
		Amount:           b.Amount,
		Currency:         b.Currency,
		ConfirmationCode: b.ConfirmationCode,
		Provider:         b.Provider,
		Detail:           b.Detail,
		CreatedAt:        b.CreatedAt,
	}
	for _, a := range b.Attachments {
		dto.Attachments = append(dto.Attachments, toAttachmentDTO(a))
	}
	return dto
}

func (d bookingDTO) toDomain() domain.Booking {
	return domain.Booking{
		Kind:             domain.BookingKind(d.Kind),
		Amount:           d.Amount,
		Currency:         d.Currency,
		ConfirmationCode: d.ConfirmationCode,
		Provider:         d.Provider,
		Detail:           d.Detail,
	}
}

type ledgerDTO struct {
	Hotels  []bookingDTO `json:"hotels"`
	Flights []bookingDTO `json:"flights"`
	Other   []bookingDTO `json:"other"`
	Total   float64      `json:"total"`
}

func toLedgerDTO(l ledger.Ledger) ledgerDTO {
	out := ledgerDTO{
		Hotels:  make([]bookingDTO, 0, len(l.Hotels)),
		Flights: make([]bookingDTO, 0, len(l.Flights)),
		Other:   make([]bookingDTO, 0, len(l.Other)),
		Total:   l.Subtotal(),
	}
	for _, b := range l.Hotels {
		out.Hotels = append(out.Hotels, toBookingDTO(b))
	}
	for _, b := range l.Flights {
		out.Flights = append(out.Flights, toBookingDTO(b))
	}
	for _, b := range l.Other {
		out.Other = append(out.Other, toBookingDTO(b))
	}
	return out
}

type attachmentDTO struct {
	ID          string    `json:"id,omitempty"`
	DisplayName string    `json:"displayName"`
	Category    string    `json:"category"`
	StorageRef  string    `json:"storageRef"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

func toAttachmentDTO(a domain.Attachment) attachmentDTO {
	return attachmentDTO{
		ID:          string(a.ID),
		DisplayName: a.DisplayName,
		Category:    string(a.Category),
		StorageRef:  a.StorageRef,
		UploadedAt:  a.UploadedAt,
	}
}

type activityDTO struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Place       string          `json:"place"`
	StartTime   *time.Time      `json:"startTime,omitempty"`
	EndTime     *time.Time      `json:"endTime,omitempty"`
	Cost        float64         `json:"cost"`
	Rating      *int            `json:"rating,omitempty"`
	Attachments []attachmentDTO `json:"attachments,omitempty"`
}

func toActivityDTO(a domain.Activity) activityDTO {
	dto := activityDTO{
		Name:      a.Name,
		Category:  string(a.Category),
		Place:     a.Place,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Cost:      a.Cost,
		Rating:    a.Rating,
	}
	for _, att := range a.Attachments {
		dto.Attachments = append(dto.Attachments, toAttachmentDTO(att))
	}
	return dto
}

func (d activityDTO) toDomain() domain.Activity {
	a := domain.Activity{
		Name:      d.Name,
		Category:  domain.ActivityCategory(d.Category),
		Place:     d.Place,
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
		Cost:      d.Cost,
		Rating:    d.Rating,
	}
	for _, att := range d.Attachments {
		a.Attachments = append(a.Attachments, domain.Attachment{
			ID:          domain.AttachmentID(att.ID),
			DisplayName: att.DisplayName,
			Category:    domain.AttachmentCategory(att.Category),
			StorageRef:  att.StorageRef,
			UploadedAt:  att.UploadedAt,
		})
	}
	return a
}

type registryDTO struct {
	Date       openapitypes.Date `json:"date"`
	Activities []activityDTO     `json:"activities"`
	TotalCost  float64           `json:"totalCost"`
	Notes      string            `json:"notes,omitempty"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

func toRegistryDTO(r domain.DailyRegistry) registryDTO {
	dto := registryDTO{
		Date:       openapitypes.Date{Time: r.Date},
		Activities: make([]activityDTO, 0, len(r.Activities)),
		TotalCost:  r.TotalCost(),
		Notes:      r.Notes,
		UpdatedAt:  r.UpdatedAt,
	}
	for _, a := range r.Activities {
		dto.Activities = append(dto.Activities, toActivityDTO(a))
	}
	return dto
}

type dayCostDTO struct {
	Date  openapitypes.Date `json:"date"`
	Total float64           `json:"total"`
}

type categoryCostDTO struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type dashboardDTO struct {
	Currency          string            `json:"currency"`
	HotelTotal        float64           `json:"hotelTotal"`
	FlightTotal       float64           `json:"flightTotal"`
	OtherTotal        float64           `json:"otherTotal"`
	ActivityTotal     float64           `json:"activityTotal"`
	GrandTotal        float64           `json:"grandTotal"`
	Budget            float64           `json:"budget"`
	Variance          float64           `json:"variance"`
	PercentOfBudget   float64           `json:"percentOfBudget"`
	BudgetUndefined   bool              `json:"budgetUndefined,omitempty"`
	DayBreakdown      []dayCostDTO      `json:"dayBreakdown"`
	CategoryBreakdown []categoryCostDTO `json:"categoryBreakdown"`
	MaxSpendDay       *dayCostDTO       `json:"maxSpendDay,omitempty"`
	MaxSpendCategory  *categoryCostDTO  `json:"maxSpendCategory,omitempty"`
	GeneratedAt       time.Time         `json:"generatedAt"`
}

func toDashboardDTO(d *domain.CostDashboard) dashboardDTO {
	dto := dashboardDTO{
		Currency:          d.Currency,
		HotelTotal:        d.HotelTotal,
		FlightTotal:       d.FlightTotal,
		OtherTotal:        d.OtherTotal,
		ActivityTotal:     d.ActivityTotal,
		GrandTotal:        d.GrandTotal,
		Budget:            d.Budget,
		Variance:          d.Variance,
		PercentOfBudget:   d.PercentOfBudget,
		BudgetUndefined:   d.BudgetUndefined,
		DayBreakdown:      make([]dayCostDTO, 0, len(d.DayBreakdown)),
		CategoryBreakdown: make([]categoryCostDTO, 0, len(d.CategoryBreakdown)),
		GeneratedAt:       d.GeneratedAt,
	}
	for _, dc := range d.DayBreakdown {
		dto.DayBreakdown = append(dto.DayBreakdown, dayCostDTO{Date: openapitypes.Date{Time: dc.Date}, Total: dc.Total})
	}
	for _, cc := range d.CategoryBreakdown {
		dto.CategoryBreakdown = append(dto.CategoryBreakdown, categoryCostDTO{Category: string(cc.Category), Total: cc.Total})
	}
	if d.MaxSpendDay != nil {
		dto.MaxSpendDay = &dayCostDTO{Date: openapitypes.Date{Time: d.MaxSpendDay.Date}, Total: d.MaxSpendDay.Total}
	}
	if d.MaxSpendCategory != nil {
		dto.MaxSpendCategory = &categoryCostDTO{Category: string(d.MaxSpendCategory.Category), Total: d.MaxSpendCategory.Total}
	}
	return dto
}
