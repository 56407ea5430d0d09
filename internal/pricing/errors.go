package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrDiscountCapReached is the domain failure shared by every policy: a coupon
	// would push the discount beyond the payable total.
	ErrDiscountCapReached = errors.New("selected coupon discount total has reached the cap; no further coupons can be applied")
	// ErrExcessiveDiscount is reported by PolicyBestSingle when the chosen coupon exceeds the total.
	ErrExcessiveDiscount = fmt.Errorf("excessive discount: %w", ErrDiscountCapReached)
	// ErrTotalDiscountExceeded is reported by PolicyCumulative when the running discount would exceed the total.
	ErrTotalDiscountExceeded = fmt.Errorf("total discount exceeded: %w", ErrDiscountCapReached)
	// ErrAmountOverflow is returned when a line or cart total does not fit in Money.
	ErrAmountOverflow = errors.New("amount overflows money range")
)

// CapError describes a rejected calculation. It unwraps to ErrExcessiveDiscount
// or ErrTotalDiscountExceeded, and through them to ErrDiscountCapReached.
type CapError struct {
	Err               error
	Policy            Policy
	CouponCode        string
	OriginalTotal     Money
	AttemptedDiscount Money
}

func (e *CapError) Error() string {
	return fmt.Sprintf("%v (coupon %s: discount %d exceeds total %d)", e.Err, e.CouponCode, e.AttemptedDiscount, e.OriginalTotal)
}

func (e *CapError) Unwrap() error { return e.Err }
