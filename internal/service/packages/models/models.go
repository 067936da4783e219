package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/packagecredits"
)

// Response модели

// PackageResponse пакет услуг
type PackageResponse struct {
	ID              int64                    `json:"id"`
	Name            string                   `json:"name"`
	Price           decimal.Decimal          `json:"price"`
	Discount        decimal.Decimal          `json:"discount"`
	CalculatedPrice bool                     `json:"calculatedPrice"`
	SharedCapacity  bool                     `json:"sharedCapacity"`
	QuantityShared  int                      `json:"quantityShared,omitempty"`
	Services        []PackageServiceResponse `json:"services"`
}

// PackageServiceResponse услуга пакета с квотой кредитов
type PackageServiceResponse struct {
	ServiceID int64 `json:"serviceId"`
	Quantity  int   `json:"quantity"`
}

// CustomerPackageResponse покупка пакета с остатками кредитов по слотам
type CustomerPackageResponse struct {
	PackageCustomerID int64                  `json:"packageCustomerId"`
	PackageID         int64                  `json:"packageId"`
	CustomerID        int64                  `json:"customerId"`
	Status            string                 `json:"status"`
	Purchased         time.Time              `json:"purchased"`
	End               *time.Time             `json:"end,omitempty"`
	SharedCapacity    bool                   `json:"sharedCapacity"`
	Remaining         int                    `json:"remaining"`
	Credits           []CreditSlotResponse   `json:"credits"`
	Payments          []PaymentResponse      `json:"payments,omitempty"`
}

// CreditSlotResponse остаток кредитов одного слота
type CreditSlotResponse struct {
	SlotID     int64  `json:"slotId"`
	ServiceID  int64  `json:"serviceId"`
	Total      int    `json:"total"`
	Count      int    `json:"count"`
	ProviderID *int64 `json:"providerId,omitempty"`
	LocationID *int64 `json:"locationId,omitempty"`
}

// PaymentResponse платёж покупки
type PaymentResponse struct {
	ID       int64           `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Gateway  string          `json:"gateway"`
	Status   string          `json:"status"`
	DateTime time.Time       `json:"dateTime"`
}

// CancelPackageResponse результат отмены покупки: платежи, подлежащие возврату
type CancelPackageResponse struct {
	PackageCustomerID  int64             `json:"packageCustomerId"`
	Status             string            `json:"status"`
	RefundablePayments []PaymentResponse `json:"refundablePayments,omitempty"`
}

// FromDomainPackage конвертирует доменный пакет в response модель
func FromDomainPackage(pkg *domain.Package) *PackageResponse {
	services := make([]PackageServiceResponse, 0, len(pkg.Services))
	for _, s := range pkg.Services {
		services = append(services, PackageServiceResponse{
			ServiceID: s.ServiceID,
			Quantity:  s.Quantity,
		})
	}

	return &PackageResponse{
		ID:              pkg.ID,
		Name:            pkg.Name,
		Price:           pkg.Price,
		Discount:        pkg.Discount,
		CalculatedPrice: pkg.CalculatedPrice,
		SharedCapacity:  pkg.SharedCapacity,
		QuantityShared:  pkg.QuantityShared,
		Services:        services,
	}
}

// FromDomainPayment конвертирует доменный платёж в response модель
func FromDomainPayment(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:       p.ID,
		Amount:   p.Amount,
		Gateway:  p.Gateway,
		Status:   string(p.Status),
		DateTime: p.DateTime,
	}
}

// FromCreditViews группирует кредитные представления по покупкам
// Порядок покупок и слотов повторяет порядок входных представлений
func FromCreditViews(views packagecredits.Views) []*CustomerPackageResponse {
	byPurchase := make(map[int64]*CustomerPackageResponse)
	result := make([]*CustomerPackageResponse, 0)

	for _, view := range views {
		resp, ok := byPurchase[view.PackageCustomerID]
		if !ok {
			resp = &CustomerPackageResponse{
				PackageCustomerID: view.PackageCustomerID,
				PackageID:         view.PackageID,
				CustomerID:        view.CustomerID,
				Status:            string(view.Status),
				Purchased:         view.Purchased,
				End:               view.End,
				SharedCapacity:    view.SharedCapacity,
				Remaining:         views.RemainingFor(view.PackageCustomerID),
			}
			byPurchase[view.PackageCustomerID] = resp
			result = append(result, resp)
		}

		resp.Credits = append(resp.Credits, CreditSlotResponse{
			SlotID:     view.SlotID,
			ServiceID:  view.ServiceID,
			Total:      view.Total,
			Count:      view.Count,
			ProviderID: view.ProviderID,
			LocationID: view.LocationID,
		})
	}

	return result
}
