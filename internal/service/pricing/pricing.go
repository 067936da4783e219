// Package pricing расчёт суммы оплаты покупки.
//
// Порядок операций фиксирован: базовая цена, минус плоская процентная скидка
// пакета (если цена не рассчитана заранее), минус процентная скидка купона и
// его фиксированный вычет, затем налог - поверх суммы при excluded, иначе уже
// включён в цену. Итог не опускается ниже нуля и округляется до 2 знаков.
// При включённом депозите к оплате идёт депозит, полная сумма остаётся
// в FullAmount.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Bookable ценовые атрибуты продаваемой сущности (пакета)
type Bookable struct {
	Price decimal.Decimal
	// Discount плоская процентная скидка; игнорируется при CalculatedPrice
	Discount        decimal.Decimal
	CalculatedPrice bool
	Tax             *domain.Tax
	// Deposit фиксированная сумма, списываемая вместо полной стоимости
	// при DepositEnabled; остаток доплачивается позже
	Deposit        decimal.Decimal
	DepositEnabled bool
	// Qty множитель цены; 0 трактуется как 1
	Qty int
}

// Amount результат расчёта: итоговая сумма и её слагаемые
type Amount struct {
	UnitPrice decimal.Decimal
	Qty       int
	Subtotal  decimal.Decimal

	// Discount суммарная процентная скидка (пакет + купон)
	Discount decimal.Decimal
	// Deduction фиксированный вычет купона
	Deduction decimal.Decimal

	Tax         decimal.Decimal
	TaxRate     decimal.Decimal
	TaxType     domain.TaxType
	TaxExcluded bool

	// Deposit удержанный депозит; ноль, когда депозит не применён
	Deposit decimal.Decimal
	// FullAmount полная стоимость покупки; совпадает с Total без депозита
	FullAmount decimal.Decimal

	// Total сумма к оплате сейчас
	Total decimal.Decimal
}

// PaymentAmount считает сумму оплаты по документированному порядку операций.
// coupon == nil - без купона.
func PaymentAmount(b Bookable, coupon *domain.Coupon) Amount {
	qty := b.Qty
	if qty <= 0 {
		qty = 1
	}

	amount := Amount{
		UnitPrice: b.Price,
		Qty:       qty,
		Subtotal:  b.Price.Mul(decimal.NewFromInt(int64(qty))),
	}

	running := amount.Subtotal

	// 1. Плоская процентная скидка пакета
	// Не применяется к заранее рассчитанной цене
	if !b.CalculatedPrice && b.Discount.IsPositive() {
		amount.Discount = running.Mul(b.Discount).Div(hundred)
	}

	// 2. Скидка и вычет купона
	if coupon != nil {
		if coupon.Discount.IsPositive() {
			amount.Discount = amount.Discount.Add(running.Mul(coupon.Discount).Div(hundred))
		}
		amount.Deduction = coupon.Deduction
	}

	running = running.Sub(amount.Discount).Sub(amount.Deduction)

	// 3. Налог: excluded добавляется поверх, включённый сумму не меняет
	// и считается только для разбивки
	if b.Tax != nil {
		amount.TaxRate = b.Tax.Amount
		amount.TaxType = b.Tax.Type
		amount.TaxExcluded = b.Tax.Excluded

		switch {
		case b.Tax.Excluded && b.Tax.Type == domain.TaxTypePercentage:
			amount.Tax = running.Mul(b.Tax.Amount).Div(hundred)
			running = running.Add(amount.Tax)
		case b.Tax.Excluded:
			amount.Tax = b.Tax.Amount
			running = running.Add(amount.Tax)
		case b.Tax.Type == domain.TaxTypePercentage:
			amount.Tax = running.Mul(b.Tax.Amount).Div(hundred.Add(b.Tax.Amount))
		default:
			amount.Tax = b.Tax.Amount
		}
	}

	if running.IsNegative() {
		running = decimal.Zero
	}
	amount.FullAmount = running.Round(2)
	amount.Total = amount.FullAmount

	// 4. Депозит: списывается вместо полной суммы, но не больше неё
	if b.DepositEnabled && b.Deposit.IsPositive() && b.Deposit.LessThan(amount.FullAmount) {
		amount.Deposit = b.Deposit.Round(2)
		amount.Total = amount.Deposit
	}

	amount.Tax = amount.Tax.Round(2)
	amount.Discount = amount.Discount.Round(2)

	return amount
}

// Breakdown разворачивает расчёт в map для сериализации на коммерческой
// границе. Внутри движков используется только типизированный Amount.
func (a Amount) Breakdown() map[string]interface{} {
	return map[string]interface{}{
		"price":         a.Total,
		"unit_price":    a.UnitPrice,
		"qty":           a.Qty,
		"subtotal":      a.Subtotal,
		"discount":      a.Discount,
		"deduction":     a.Deduction,
		"full_discount": a.Discount.Add(a.Deduction),
		"tax":           a.Tax,
		"tax_rate":      a.TaxRate,
		"tax_type":      a.TaxType,
		"tax_excluded":  a.TaxExcluded,
		"deposit":       a.Deposit,
		"full_amount":   a.FullAmount,
	}
}
