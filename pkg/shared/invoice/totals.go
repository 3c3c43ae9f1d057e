package invoice

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

var validate = NewValidator()

// NewValidator returns a validator that reports fields by their json names.
// Decimal fields are bounded with dgte and dlte, which compare exactly.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("dgte", decimalBound(func(c int) bool { return c >= 0 }))
	_ = v.RegisterValidation("dlte", decimalBound(func(c int) bool { return c <= 0 }))
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// decimalBound compares a decimal field against the tag parameter.
func decimalBound(ok func(cmp int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return ok(d.Cmp(bound))
	}
}

// FieldErrors converts validator failures into field errors named by their
// path below the validated struct, e.g. "items[0].price".
func FieldErrors(err error) ([]FieldError, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		fields = append(fields, FieldError{Field: field, Message: describe(fe)})
	}
	return fields, true
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.Slice {
			return "at least one item is required"
		}
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "at least one item is required"
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gte", "dgte":
		return fmt.Sprintf("must not be less than %s", fe.Param())
	case "lte", "dlte":
		return fmt.Sprintf("must not be greater than %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be %s characters long", fe.Param())
	case "numeric":
		return "must contain digits only"
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// Validate checks the bill invariants the totals depend on.
func Validate(bill Bill) error {
	err := validate.Struct(bill)
	if err == nil {
		return nil
	}
	fields, ok := FieldErrors(err)
	if !ok {
		return err
	}
	return &InvalidBillError{Fields: fields}
}

// LineAmounts are the unrounded money values of one line.
type LineAmounts struct {
	Gross    decimal.Decimal
	Discount decimal.Decimal
	Net      decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ItemAmounts derives the line values of item under taxRatePercent. Total is
// the tax-inclusive amount net × (1 + taxRate/100).
func ItemAmounts(item LineItem, taxRatePercent decimal.Decimal) LineAmounts {
	gross := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	discount := gross.Mul(item.DiscountPercent).Div(hundred)
	net := gross.Sub(discount)
	tax := net.Mul(taxRatePercent).Div(hundred)
	return LineAmounts{
		Gross:    gross,
		Discount: discount,
		Net:      net,
		Tax:      tax,
		Total:    net.Add(tax),
	}
}

// CalculateTotals sums the bill lines. Tax and grand total are computed from
// the unrounded sums and each aggregate is then rounded half-up to two places
// on its own, so grandTotal may differ by a paisa from subtotal + taxAmount.
func CalculateTotals(bill Bill) (BillTotals, error) {
	if err := Validate(bill); err != nil {
		return BillTotals{}, err
	}
	var net, discount decimal.Decimal
	for _, item := range bill.Items {
		a := ItemAmounts(item, decimal.Zero)
		net = net.Add(a.Net)
		discount = discount.Add(a.Discount)
	}
	tax := net.Mul(bill.TaxRatePercent).Div(hundred)
	return BillTotals{
		Subtotal:      round2(net),
		TotalDiscount: round2(discount),
		TaxAmount:     round2(tax),
		GrandTotal:    round2(net.Add(tax)),
	}, nil
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent renders a percentage without trailing zeros, e.g. "5" or "12.5".
func Percent(d decimal.Decimal) string {
	return fmt.Sprintf("%s%%", d.String())
}
