package request

type SettlePaymentRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=paid failed"`
}
