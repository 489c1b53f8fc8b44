package employee

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter_Defaults(t *testing.T) {
	f := ParseFilter(url.Values{}, true)

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPageSize, f.PageSize)
	assert.False(t, f.Descending)
	assert.True(t, f.Paginate)
	assert.Nil(t, f.Search)
	assert.Equal(t, 0, f.Offset())
}

func TestParseFilter_PageSize(t *testing.T) {
	tests := []struct {
		size string
		want int
	}{
		{"3", 3},
		{"10", 10},
		{"50", MaxPageSize},
		{"0", DefaultPageSize},
		{"abc", DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			f := ParseFilter(url.Values{"size": {tt.size}}, true)
			assert.Equal(t, tt.want, f.PageSize)
		})
	}
}

func TestParseFilter_Fields(t *testing.T) {
	q := url.Values{
		"first_name__icontains": {"an"},
		"email":                 {"A@B.COM"},
		"salary__gt":            {"1500.50"},
		"salary__range":         {"1000,2000"},
		"employee_code__range":  {"10, 20"},
		"ordering":              {"-employee_code"},
		"page":                  {"3"},
		"size":                  {"4"},
	}

	f := ParseFilter(q, true)

	require.NotNil(t, f.FirstNameContains)
	assert.Equal(t, "an", *f.FirstNameContains)
	require.NotNil(t, f.Email)
	assert.Equal(t, "A@B.COM", *f.Email)
	require.NotNil(t, f.SalaryGT)
	assert.True(t, f.SalaryGT.Equal(decimal.RequireFromString("1500.50")))
	require.NotNil(t, f.SalaryRange)
	assert.True(t, f.SalaryRange[0].Equal(decimal.NewFromInt(1000)))
	require.NotNil(t, f.EmployeeCodeRange)
	assert.Equal(t, [2]int{10, 20}, *f.EmployeeCodeRange)
	assert.True(t, f.Descending)
	assert.Equal(t, 8, f.Offset())
}

func TestParseFilter_IgnoresMalformed(t *testing.T) {
	q := url.Values{
		"salary":               {"lots"},
		"salary__range":        {"1000"},
		"employee_code":        {"x"},
		"employee_code__range": {"1,b"},
		"ordering":             {"salary"},
		"page":                 {"-2"},
	}

	f := ParseFilter(q, true)

	assert.Nil(t, f.Salary)
	assert.Nil(t, f.SalaryRange)
	assert.Nil(t, f.EmployeeCode)
	assert.Nil(t, f.EmployeeCodeRange)
	assert.False(t, f.Descending)
	assert.Equal(t, 1, f.Page)
}
