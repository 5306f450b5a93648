package coupon

import (
	"github.com/shopspring/decimal"

	"github.com/oakline/storefront-backend/pkg/enums"
)

// demoCoupons is the fixed coupon catalog, keyed by normalized code. Coupons
// are not user-creatable at runtime.
func demoCoupons() map[string]Coupon {
	return map[string]Coupon{
		"SAVE10": {
			Code:        "SAVE10",
			Type:        enums.CouponTypePercent,
			Value:       decimal.NewFromInt(10),
			MinTotal:    decimalPtr("50"),
			Description: "10% off orders over $50",
		},
		"WELCOME5": {
			Code:        "WELCOME5",
			Type:        enums.CouponTypeFixed,
			Value:       decimal.NewFromInt(5),
			Description: "$5 off any order",
		},
		"BIGSAVE20": {
			Code:        "BIGSAVE20",
			Type:        enums.CouponTypePercent,
			Value:       decimal.NewFromInt(20),
			MinTotal:    decimalPtr("200"),
			MaxDiscount: decimalPtr("50"),
			Description: "20% off $200+, max $50",
		},
	}
}

func decimalPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}
