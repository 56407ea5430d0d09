package catalog

// Money represents a monetary value stored in minor units.
type Money = int64

// Product is an immutable catalog entry priced in minor units.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice Money  `json:"unitPrice"`
}

// Coupon is a fixed-amount discount identified by its code.
type Coupon struct {
	Code           string `json:"code"`
	Description    string `json:"description"`
	DiscountAmount Money  `json:"discountAmount"`
}

// Equal reports whether both coupons share the same code. Description and
// amount do not participate in coupon identity.
func (c Coupon) Equal(other Coupon) bool {
	return c.Code == other.Code
}
