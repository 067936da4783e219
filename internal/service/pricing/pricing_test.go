package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPaymentAmount_ExclusiveTaxAddedOnTop(t *testing.T) {
	amount := PaymentAmount(Bookable{
		Price: dec("100"),
		Tax:   &domain.Tax{Amount: dec("10"), Type: domain.TaxTypePercentage, Excluded: true},
	}, nil)

	assert.True(t, dec("110").Equal(amount.Total), "got %s", amount.Total)
	assert.True(t, dec("10").Equal(amount.Tax))
	assert.True(t, amount.TaxExcluded)
}

func TestPaymentAmount_InclusiveTaxWithFlatDeduction(t *testing.T) {
	coupon := &domain.Coupon{Deduction: dec("20")}

	amount := PaymentAmount(Bookable{
		Price: dec("100"),
		Tax:   &domain.Tax{Amount: dec("10"), Type: domain.TaxTypePercentage, Excluded: false},
	}, coupon)

	// Включённый налог сумму не меняет: 100 - 20 = 80
	assert.True(t, dec("80").Equal(amount.Total), "got %s", amount.Total)
	assert.False(t, amount.TaxExcluded)
}

func TestPaymentAmount_PackageDiscountSkippedForCalculatedPrice(t *testing.T) {
	base := Bookable{Price: dec("200"), Discount: dec("25")}

	discounted := PaymentAmount(base, nil)
	assert.True(t, dec("150").Equal(discounted.Total), "got %s", discounted.Total)

	base.CalculatedPrice = true
	calculated := PaymentAmount(base, nil)
	assert.True(t, dec("200").Equal(calculated.Total), "got %s", calculated.Total)
	assert.True(t, calculated.Discount.IsZero())
}

func TestPaymentAmount_CouponDiscountAndDeductionStack(t *testing.T) {
	coupon := &domain.Coupon{Discount: dec("10"), Deduction: dec("5")}

	// 200 - 20% пакет - 10% купон - 5 = 200 - 40 - 20 - 5 = 135
	amount := PaymentAmount(Bookable{Price: dec("200"), Discount: dec("20")}, coupon)

	assert.True(t, dec("135").Equal(amount.Total), "got %s", amount.Total)
	assert.True(t, dec("60").Equal(amount.Discount))
	assert.True(t, dec("5").Equal(amount.Deduction))
}

func TestPaymentAmount_FlooredAtZero(t *testing.T) {
	coupon := &domain.Coupon{Deduction: dec("500")}

	amount := PaymentAmount(Bookable{Price: dec("100")}, coupon)

	assert.True(t, amount.Total.IsZero(), "got %s", amount.Total)
}

func TestPaymentAmount_RoundsToTwoDecimals(t *testing.T) {
	// 99.99 - 33.333% = 66.659667, округляется до 66.66
	amount := PaymentAmount(Bookable{Price: dec("99.99"), Discount: dec("33.333")}, nil)

	assert.True(t, dec("66.66").Equal(amount.Total), "got %s", amount.Total)
}

func TestPaymentAmount_ExclusiveTaxAfterDiscounts(t *testing.T) {
	coupon := &domain.Coupon{Deduction: dec("20")}

	// (100 - 20) * 1.10 = 88: налог считается после скидок
	amount := PaymentAmount(Bookable{
		Price: dec("100"),
		Tax:   &domain.Tax{Amount: dec("10"), Type: domain.TaxTypePercentage, Excluded: true},
	}, coupon)

	assert.True(t, dec("88").Equal(amount.Total), "got %s", amount.Total)
	assert.True(t, dec("8").Equal(amount.Tax))
}

func TestPaymentAmount_FixedTax(t *testing.T) {
	excluded := PaymentAmount(Bookable{
		Price: dec("100"),
		Tax:   &domain.Tax{Amount: dec("7.50"), Type: domain.TaxTypeFixed, Excluded: true},
	}, nil)
	assert.True(t, dec("107.50").Equal(excluded.Total), "got %s", excluded.Total)

	inclusive := PaymentAmount(Bookable{
		Price: dec("100"),
		Tax:   &domain.Tax{Amount: dec("7.50"), Type: domain.TaxTypeFixed, Excluded: false},
	}, nil)
	assert.True(t, dec("100").Equal(inclusive.Total), "got %s", inclusive.Total)
	assert.True(t, dec("7.50").Equal(inclusive.Tax))
}

func TestPaymentAmount_QtyMultiplies(t *testing.T) {
	amount := PaymentAmount(Bookable{Price: dec("50"), Qty: 3}, nil)

	assert.True(t, dec("150").Equal(amount.Subtotal))
	assert.True(t, dec("150").Equal(amount.Total), "got %s", amount.Total)
}

func TestPaymentAmount_DepositChargedInsteadOfFullAmount(t *testing.T) {
	amount := PaymentAmount(Bookable{
		Price:          dec("100"),
		Deposit:        dec("30"),
		DepositEnabled: true,
	}, nil)

	assert.True(t, dec("30").Equal(amount.Total), "got %s", amount.Total)
	assert.True(t, dec("30").Equal(amount.Deposit))
	assert.True(t, dec("100").Equal(amount.FullAmount))
}

func TestPaymentAmount_DepositAppliedAfterDiscountsAndTax(t *testing.T) {
	coupon := &domain.Coupon{Deduction: dec("20")}

	// Полная сумма (100 - 20) * 1.10 = 88, к оплате идёт депозит
	amount := PaymentAmount(Bookable{
		Price:          dec("100"),
		Tax:            &domain.Tax{Amount: dec("10"), Type: domain.TaxTypePercentage, Excluded: true},
		Deposit:        dec("50"),
		DepositEnabled: true,
	}, coupon)

	assert.True(t, dec("50").Equal(amount.Total), "got %s", amount.Total)
	assert.True(t, dec("88").Equal(amount.FullAmount))
}

func TestPaymentAmount_DepositNotBelowFullAmount(t *testing.T) {
	// Депозит не меньше полной суммы - списывается полная сумма
	amount := PaymentAmount(Bookable{
		Price:          dec("100"),
		Deposit:        dec("150"),
		DepositEnabled: true,
	}, nil)

	assert.True(t, dec("100").Equal(amount.Total), "got %s", amount.Total)
	assert.True(t, amount.Deposit.IsZero())
}

func TestPaymentAmount_DepositDisabledIgnored(t *testing.T) {
	amount := PaymentAmount(Bookable{
		Price:   dec("100"),
		Deposit: dec("30"),
	}, nil)

	assert.True(t, dec("100").Equal(amount.Total), "got %s", amount.Total)
	assert.True(t, amount.Deposit.IsZero())
}

func TestBreakdown_ContainsAllComponents(t *testing.T) {
	coupon := &domain.Coupon{Discount: dec("10"), Deduction: dec("5")}

	amount := PaymentAmount(Bookable{
		Price: dec("100"),
		Tax:   &domain.Tax{Amount: dec("10"), Type: domain.TaxTypePercentage, Excluded: true},
	}, coupon)

	b := amount.Breakdown()
	require.Contains(t, b, "price")
	require.Contains(t, b, "full_discount")
	require.Contains(t, b, "deposit")
	require.Contains(t, b, "full_amount")

	assert.Equal(t, amount.Total, b["price"])
	assert.Equal(t, domain.TaxTypePercentage, b["tax_type"])
	assert.Equal(t, true, b["tax_excluded"])
	fullDiscount, ok := b["full_discount"].(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, dec("15").Equal(fullDiscount))
}
