package employee

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 10
)

// Filter is the parsed form of the employee list query string.
type Filter struct {
	FirstName         *string
	FirstNameContains *string
	LastName          *string
	LastNameContains  *string
	Email             *string
	EmailContains     *string

	Salary      *decimal.Decimal
	SalaryLT    *decimal.Decimal
	SalaryGT    *decimal.Decimal
	SalaryRange *[2]decimal.Decimal

	EmployeeCode      *int
	EmployeeCodeRange *[2]int

	Search *string

	// Descending orders by employee_code descending.
	Descending bool

	Page     int
	PageSize int
	// Paginate is false for unpaginated lists such as department peers.
	Paginate bool
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// ParseFilter reads filters from q. Malformed values are ignored.
func ParseFilter(q url.Values, paginate bool) Filter {
	f := Filter{
		FirstName:         stringParam(q, "first_name"),
		FirstNameContains: stringParam(q, "first_name__icontains"),
		LastName:          stringParam(q, "last_name"),
		LastNameContains:  stringParam(q, "last_name__icontains"),
		Email:             stringParam(q, "email"),
		EmailContains:     stringParam(q, "email__icontains"),
		Salary:            decimalParam(q, "salary"),
		SalaryLT:          decimalParam(q, "salary__lt"),
		SalaryGT:          decimalParam(q, "salary__gt"),
		Search:            stringParam(q, "search"),
		Descending:        q.Get("ordering") == "-employee_code",
		Paginate:          paginate,
	}

	if lo, hi, ok := splitRange(q.Get("salary__range")); ok {
		a, errA := decimal.NewFromString(lo)
		b, errB := decimal.NewFromString(hi)
		if errA == nil && errB == nil {
			f.SalaryRange = &[2]decimal.Decimal{a, b}
		}
	}

	if v, err := strconv.Atoi(q.Get("employee_code")); err == nil {
		f.EmployeeCode = &v
	}
	if lo, hi, ok := splitRange(q.Get("employee_code__range")); ok {
		a, errA := strconv.Atoi(lo)
		b, errB := strconv.Atoi(hi)
		if errA == nil && errB == nil {
			f.EmployeeCodeRange = &[2]int{a, b}
		}
	}

	f.Page = 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		f.Page = p
	}
	f.PageSize = DefaultPageSize
	if s, err := strconv.Atoi(q.Get("size")); err == nil && s > 0 {
		f.PageSize = min(s, MaxPageSize)
	}

	return f
}

func stringParam(q url.Values, key string) *string {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func decimalParam(q url.Values, key string) *decimal.Decimal {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

func splitRange(raw string) (string, string, bool) {
	lo, hi, ok := strings.Cut(raw, ",")
	if !ok {
		return "", "", false
	}
	lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)
	return lo, hi, lo != "" && hi != ""
}
