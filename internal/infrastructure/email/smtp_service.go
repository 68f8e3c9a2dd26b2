package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"shop-backend/internal/config"
	"shop-backend/pkg/logger"
)

type EmailService interface {
	Send(ctx context.Context, req EmailRequest) error
	SendFlashSaleEmail(ctx context.Context, data FlashSaleEmailData) error
	SendOrderStatusEmail(ctx context.Context, data OrderStatusEmailData) error
}

type smtpEmailService struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPEmailService(cfg config.EmailConfig) EmailService {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &smtpEmailService{
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from: cfg.From,
		auth: auth,
	}
}

func (s *smtpEmailService) Send(ctx context.Context, req EmailRequest) error {
	if len(req.To) == 0 {
		return fmt.Errorf("email has no recipient")
	}

	msg := buildMessage(s.from, req)
	if err := smtp.SendMail(s.addr, s.auth, s.from, req.To, msg); err != nil {
		logger.ErrorWithFields("Failed to send email", err, map[string]interface{}{
			"to":        req.To,
			"smtp_addr": s.addr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpEmailService) SendFlashSaleEmail(ctx context.Context, data FlashSaleEmailData) error {
	body := fmt.Sprintf(`<p>Chào %s,</p>
<p>Sản phẩm <b>%s</b> sắp có FlashSale!</p>
<p>Giá gốc: <s>%s VND</s> &rarr; chỉ còn <b>%s VND</b></p>
<p>Thời gian: %s - %s</p>
<p><a href="%s">Xem sản phẩm</a></p>`,
		data.FullName, data.ProductName, data.ListedPrice, data.FlashSalePrice, data.StartAt, data.DueAt, data.ProductURL)

	return s.Send(ctx, EmailRequest{
		To:      []string{data.Email},
		Subject: fmt.Sprintf("FlashSale cho sản phẩm '%s'", data.ProductName),
		Body:    body,
		IsHTML:  true,
	})
}

func (s *smtpEmailService) SendOrderStatusEmail(ctx context.Context, data OrderStatusEmailData) error {
	body := fmt.Sprintf(`Chào %s,

Đơn hàng #%s đã chuyển sang trạng thái %s.
Xem chi tiết: %s`, data.FullName, data.Code, data.Status, data.OrderURL)

	return s.Send(ctx, EmailRequest{
		To:      []string{data.Email},
		Subject: fmt.Sprintf("Cập nhật trạng thái đơn hàng #%s", data.Code),
		Body:    body,
	})
}

func buildMessage(from string, req EmailRequest) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(req.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", req.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	if req.IsHTML {
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	} else {
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(req.Body)
	return []byte(b.String())
}
