package reserve_package

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	reservePackage "github.com/m04kA/SMC-SchedulingService/internal/usecase/reserve_package"
)

// ReservePackageRequest HTTP request model
type ReservePackageRequest struct {
	Appointments         []AppointmentRequest `json:"appointments"`
	CouponCode           *string              `json:"couponCode,omitempty"`
	Tax                  *TaxRequest          `json:"tax,omitempty"`
	Gateway              string               `json:"gateway"`
	ValidateAvailability bool                 `json:"validateAvailability"`
}

// AppointmentRequest одна запись внутри покупки
type AppointmentRequest struct {
	ServiceID  int64  `json:"serviceId"`
	ProviderID int64  `json:"providerId"`
	LocationID *int64 `json:"locationId,omitempty"`
	Start      string `json:"start"` // RFC3339
	End        string `json:"end"`   // RFC3339
	Persons    int    `json:"persons"`
}

// TaxRequest налоговая запись покупки
type TaxRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Type     string          `json:"type"`
	Excluded bool            `json:"excluded"`
}

// ReservePackageResponse HTTP response model
type ReservePackageResponse struct {
	PackageCustomerID int64                 `json:"packageCustomerId"`
	Status            string                `json:"status"`
	Purchased         string                `json:"purchased"`
	Credits           []CreditSlotResponse  `json:"credits"`
	Appointments      []AppointmentResponse `json:"appointments"`
	Payment           *PaymentResponse      `json:"payment,omitempty"`
}

// CreditSlotResponse созданный кредитный слот
type CreditSlotResponse struct {
	ID            int64 `json:"id"`
	ServiceID     int64 `json:"serviceId"`
	BookingsCount int   `json:"bookingsCount"`
}

// AppointmentResponse забронированная запись
type AppointmentResponse struct {
	ID         int64  `json:"id"`
	ServiceID  int64  `json:"serviceId"`
	ProviderID int64  `json:"providerId"`
	LocationID *int64 `json:"locationId,omitempty"`
	Start      string `json:"start"`
	End        string `json:"end"`
	SlotID     int64  `json:"slotId"`
}

// PaymentResponse созданный платёж
type PaymentResponse struct {
	ID        int64                  `json:"id"`
	Amount    decimal.Decimal        `json:"amount"`
	Gateway   string                 `json:"gateway"`
	Status    string                 `json:"status"`
	Breakdown map[string]interface{} `json:"breakdown,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом времени)
func (r *ReservePackageRequest) ToUseCaseRequest(customerID, packageID int64) (*reservePackage.Request, error) {
	appointments := make([]reservePackage.AppointmentRequest, 0, len(r.Appointments))
	for _, a := range r.Appointments {
		start, err := time.Parse(time.RFC3339, a.Start)
		if err != nil {
			return nil, fmt.Errorf("parse appointment start: %w", err)
		}
		end, err := time.Parse(time.RFC3339, a.End)
		if err != nil {
			return nil, fmt.Errorf("parse appointment end: %w", err)
		}

		appointments = append(appointments, reservePackage.AppointmentRequest{
			ServiceID:  a.ServiceID,
			ProviderID: a.ProviderID,
			LocationID: a.LocationID,
			Start:      start,
			End:        end,
			Persons:    a.Persons,
		})
	}

	var tax *domain.Tax
	if r.Tax != nil {
		tax = &domain.Tax{
			Amount:   r.Tax.Amount,
			Type:     domain.TaxType(r.Tax.Type),
			Excluded: r.Tax.Excluded,
		}
	}

	return &reservePackage.Request{
		CustomerID:           customerID,
		PackageID:            packageID,
		Appointments:         appointments,
		CouponCode:           r.CouponCode,
		Tax:                  tax,
		Gateway:              r.Gateway,
		ValidateAvailability: r.ValidateAvailability,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reservePackage.Response) *ReservePackageResponse {
	credits := make([]CreditSlotResponse, 0, len(resp.Credits))
	for _, c := range resp.Credits {
		credits = append(credits, CreditSlotResponse{
			ID:            c.ID,
			ServiceID:     c.ServiceID,
			BookingsCount: c.BookingsCount,
		})
	}

	appointments := make([]AppointmentResponse, 0, len(resp.Appointments))
	for _, a := range resp.Appointments {
		appointments = append(appointments, AppointmentResponse{
			ID:         a.ID,
			ServiceID:  a.ServiceID,
			ProviderID: a.ProviderID,
			LocationID: a.LocationID,
			Start:      a.Start.Format(time.RFC3339),
			End:        a.End.Format(time.RFC3339),
			SlotID:     a.SlotID,
		})
	}

	var payment *PaymentResponse
	if resp.Payment != nil {
		payment = &PaymentResponse{
			ID:        resp.Payment.ID,
			Amount:    resp.Payment.Amount,
			Gateway:   resp.Payment.Gateway,
			Status:    resp.Payment.Status,
			Breakdown: resp.Payment.Breakdown,
		}
	}

	return &ReservePackageResponse{
		PackageCustomerID: resp.PackageCustomerID,
		Status:            resp.Status,
		Purchased:         resp.Purchased.Format(time.RFC3339),
		Credits:           credits,
		Appointments:      appointments,
		Payment:           payment,
	}
}
