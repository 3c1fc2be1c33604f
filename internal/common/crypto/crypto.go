// Package crypto 提供密码哈希与脱敏工具
package crypto

import (
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var bcryptCost atomic.Int64

func init() {
	bcryptCost.Store(int64(bcrypt.DefaultCost))
}

// SetBcryptCost 设置 bcrypt 计算成本，超出范围时回落到默认值
func SetBcryptCost(cost int) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	bcryptCost.Store(int64(cost))
}

// BcryptCost 当前 bcrypt 计算成本
func BcryptCost() int {
	return int(bcryptCost.Load())
}

// HashPassword 对密码进行哈希
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost())
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword 验证密码
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// MaskPhone 电话脱敏，只保留最后四位
func MaskPhone(phone string) string {
	n := utf8.RuneCountInString(phone)
	if n <= 4 {
		return phone
	}
	runes := []rune(phone)
	masked := make([]rune, 0, n)
	for i := 0; i < n-4; i++ {
		masked = append(masked, '*')
	}
	return string(append(masked, runes[n-4:]...))
}

// MaskEmail 邮箱脱敏，保留前两个字符与域名
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 2 {
		return email
	}
	return email[:2] + "***" + email[at:]
}

// MaskContact 按联系方式类型脱敏，用户名原样返回
func MaskContact(contact string) string {
	switch {
	case strings.Contains(contact, "@"):
		return MaskEmail(contact)
	case strings.IndexFunc(contact, func(r rune) bool { return r < '0' || r > '9' }) < 0:
		return MaskPhone(contact)
	default:
		return contact
	}
}
