package email

type EmailRequest struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

// FlashSaleEmailData gửi cho từng user khi flash sale sắp bắt đầu
type FlashSaleEmailData struct {
	Email          string
	FullName       string
	ProductName    string
	ProductURL     string
	ListedPrice    string
	FlashSalePrice string
	StartAt        string
	DueAt          string
}

type OrderStatusEmailData struct {
	Email    string
	FullName string
	Code     string
	Status   string
	OrderURL string
}
