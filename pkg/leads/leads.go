// Package leads 将表单内容格式化为消息，并生成 WhatsApp 深度链接
//
// 没有服务端持久化：提交表单就是打开一个预填消息的聊天链接。
package leads

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// BaseURL WhatsApp 深度链接前缀
const BaseURL = "https://wa.me/"

// ErrMissingPhone 没有配置接收号码
var ErrMissingPhone = errors.New("leads: missing phone number")

// Contact 联系表单
type Contact struct {
	Name        string
	Phone       string
	ServiceType string
	Details     string
}

// Booking 套餐预订表单
type Booking struct {
	PackageTitle string
	PackagePrice string
	Name         string
	Phone        string
	Notes        string
}

// NewService 服务商申请上架表单
type NewService struct {
	Name        string
	Phone       string
	ServiceName string
	Category    string
	City        string
	Price       string
	Description string
}

// field 一行 “标签: 值”，值为空时省略
type field struct {
	label, value string
}

func compose(intro string, fields ...field) string {
	lines := []string{intro}
	for _, f := range fields {
		v := strings.TrimSpace(f.value)
		if v == "" {
			continue
		}
		lines = append(lines, f.label+": "+v)
	}
	return strings.Join(lines, "\n")
}

// Message 联系表单消息
func (c Contact) Message() string {
	return compose("Hello, I would like to ask about a service:",
		field{"Name", c.Name},
		field{"Phone", c.Phone},
		field{"Service", c.ServiceType},
		field{"Details", c.Details},
	)
}

// Message 预订消息
func (b Booking) Message() string {
	return compose("Hello, I would like to book a package:",
		field{"Package", b.PackageTitle},
		field{"Price", b.PackagePrice},
		field{"Name", b.Name},
		field{"Phone", b.Phone},
		field{"Notes", b.Notes},
	)
}

// Message 上架申请消息
func (s NewService) Message() string {
	return compose("New service listing request:",
		field{"Name", s.Name},
		field{"Phone", s.Phone},
		field{"Service", s.ServiceName},
		field{"Category", s.Category},
		field{"City", s.City},
		field{"Starting price", s.Price},
		field{"Description", s.Description},
	)
}

// ServiceOrder 服务卡片上的 “立即下单”
func ServiceOrder(title string) string {
	return "I want to order the service: " + title
}

// PortfolioOrder 作品集中的 “做一个类似的”
func PortfolioOrder(title string) string {
	return "I want a piece similar to: " + title
}

// SimilarVideo 视频展示中的 “同款视频”
func SimilarVideo(title string) string {
	return fmt.Sprintf("I liked this ad (%s) and want a similar video for my business", title)
}

// VIPConsultation VIP 咨询预约
func VIPConsultation() string {
	return "Hello, I would like to book a VIP consultation for my project."
}

// Link 生成深度链接
// 号码只保留数字；消息按 URL 规则转义，换行变为 %0A
func Link(phone, message string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return "", ErrMissingPhone
	}
	if message == "" {
		return BaseURL + digits, nil
	}
	escaped := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return BaseURL + digits + "?text=" + escaped, nil
}
