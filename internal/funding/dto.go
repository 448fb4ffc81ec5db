package funding

// FundRequest captures the raw, unvalidated input to a funding call.
type FundRequest struct {
	Phone  string `json:"phone"`
	Amount string `json:"amount"`
}

// TransactionResponse describes the payment transaction in API responses.
type TransactionResponse struct {
	ID        string `json:"id"`
	Provider  string `json:"provider"`
	Status    string `json:"status"`
	Amount    string `json:"amount"`
	Phone     string `json:"phone"`
	Simulated bool   `json:"simulated"`
}
