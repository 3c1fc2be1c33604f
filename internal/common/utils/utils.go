// Package utils 提供日期、金额、单号与分页等工具函数
package utils

import (
	"crypto/rand"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout 日期格式
const DateLayout = "2006-01-02"

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{5,18}[0-9]$`)
)

// GenerateOrderNo 前缀 + 秒级时间戳 + 6 位随机数字
func GenerateOrderNo(prefix string) string {
	return prefix + time.Now().Format("20060102150405") + randomDigits(6)
}

func randomDigits(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		d, _ := rand.Int(rand.Reader, big.NewInt(10))
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String()
}

// ValidatePhone 允许国际区号、空格和连字符
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ParseDate 解析 YYYY-MM-DD，结果为 UTC 零点
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay t 所在日历日的 UTC 零点，可与 ParseDate 的结果直接比较
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RoundMoney 保留两位小数
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

func FormatMoney(amount float64) string {
	return strconv.FormatFloat(RoundMoney(amount), 'f', 2, 64)
}

func StringPtr(s string) *string {
	return &s
}

// NullableString 去除首尾空白，空串返回 nil
func NullableString(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// Pagination 分页参数
type Pagination struct {
	Page     int   `json:"page" form:"page"`
	PageSize int   `json:"page_size" form:"page_size"`
	Total    int64 `json:"total"`
}

// 分页默认值与上限
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

func (p *Pagination) GetOffset() int {
	return (p.Page - 1) * p.PageSize
}

func (p *Pagination) GetLimit() int {
	return p.PageSize
}

// Normalize 页码至少为 1，每页条数限制在 [1, MaxPageSize]
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
}

// GetTotalPages 向上取整
func (p *Pagination) GetTotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
}
