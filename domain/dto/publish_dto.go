package dto

// ReqLogin authenticates the operator.
type ReqLogin struct {
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ReqContent submits a source content for adaptation.
type ReqContent struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// ReqPublish carries the request-scoped media and destination parameters of
// one publish attempt.
type ReqPublish struct {
	ImageURL       string `json:"image_url"`
	VideoURL       string `json:"video_url"`
	WhatsAppNumber string `json:"whatsapp_number"`
}
