// Package qrcode 生成预订确认单二维码
package qrcode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultSize 默认边长（像素）
const DefaultSize = 256

// Generator 二维码生成器，纠错级别固定为 Medium
type Generator struct {
	size int
}

func NewGenerator(size int) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{size: size}
}

// PNG 编码内容为 PNG 图片
func (g *Generator) PNG(content string) ([]byte, error) {
	if content == "" {
		return nil, errors.New("二维码内容为空")
	}
	data, err := qrcode.Encode(content, qrcode.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("生成二维码失败: %w", err)
	}
	return data, nil
}

// ReservationPayload 确认单内容
type ReservationPayload struct {
	ReservationNo string
	GuestName     string
	RoomNumber    string
	CheckIn       string
	CheckOut      string
	Total         string
}

// Content 竖线分隔，首字段固定为 RESERVA
func (p ReservationPayload) Content() string {
	return strings.Join([]string{
		"RESERVA",
		p.ReservationNo,
		p.GuestName,
		"HAB " + p.RoomNumber,
		p.CheckIn,
		p.CheckOut,
		p.Total,
	}, "|")
}
