package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderNo(t *testing.T) {
	no := GenerateOrderNo("R")
	assert.True(t, strings.HasPrefix(no, "R"))
	assert.Len(t, no, 1+14+6)

	digits := randomDigits(8)
	assert.Len(t, digits, 8)
	assert.Equal(t, "", strings.Trim(digits, "0123456789"))
}

func TestValidateContact(t *testing.T) {
	phones := map[string]bool{
		"5512345678":       true,
		"+52 55 1234 5678": true,
		"555-123-4567":     true,
		"12345":            false,
		"abc1234567":       false,
		"":                 false,
	}
	for phone, want := range phones {
		assert.Equal(t, want, ValidatePhone(phone), phone)
	}

	emails := map[string]bool{
		"juan@example.com":            true,
		"maria.lopez+hotel@correo.mx": true,
		"invalid":                     false,
		"@example.com":                false,
		"juan@":                       false,
	}
	for email, want := range emails {
		assert.Equal(t, want, ValidateEmail(email), email)
	}
}

func TestParseDate(t *testing.T) {
	t.Run("合法日期", func(t *testing.T) {
		d, err := ParseDate(" 2024-01-04 ")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), d)
		assert.Equal(t, "2024-01-04", FormatDate(d))
	})

	t.Run("非法日期", func(t *testing.T) {
		for _, s := range []string{"", "2024/01/04", "04-01-2024", "2024-02-30"} {
			_, err := ParseDate(s)
			assert.Error(t, err, s)
		}
	})
}

func TestStartOfDay(t *testing.T) {
	local := time.FixedZone("CST", -6*3600)
	got := StartOfDay(time.Date(2024, 1, 4, 22, 30, 0, 0, local))

	want, err := ParseDate("2024-01-04")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, 1500.0, RoundMoney(500*3))
	assert.Equal(t, 0.3, RoundMoney(0.1+0.2))
	assert.Equal(t, "1500.00", FormatMoney(1500))
	assert.Equal(t, "99.90", FormatMoney(99.9))
}

func TestNullableString(t *testing.T) {
	assert.Nil(t, NullableString("   "))
	assert.Equal(t, "juan@example.com", *NullableString(" juan@example.com "))
	assert.Equal(t, "x", *StringPtr("x"))
}

func TestPagination(t *testing.T) {
	t.Run("规范化", func(t *testing.T) {
		tests := []struct {
			page, size         int
			wantPage, wantSize int
		}{
			{2, 20, 2, 20},
			{0, 20, 1, 20},
			{-1, 0, 1, DefaultPageSize},
			{1, 500, 1, MaxPageSize},
		}
		for _, tt := range tests {
			p := Pagination{Page: tt.page, PageSize: tt.size}
			p.Normalize()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantSize, p.PageSize)
		}
	})

	t.Run("偏移量", func(t *testing.T) {
		p := Pagination{Page: 3, PageSize: 15}
		assert.Equal(t, 30, p.GetOffset())
		assert.Equal(t, 15, p.GetLimit())
	})

	t.Run("总页数", func(t *testing.T) {
		tests := []struct {
			total int64
			size  int
			want  int
		}{
			{0, 10, 0},
			{5, 10, 1},
			{91, 10, 10},
			{100, 10, 10},
			{101, 10, 11},
			{10, 0, 0},
		}
		for _, tt := range tests {
			p := Pagination{Total: tt.total, PageSize: tt.size}
			assert.Equal(t, tt.want, p.GetTotalPages())
		}
	})
}
