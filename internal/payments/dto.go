package payments

// WebhookPayload is the provider callback body. Data arrives as a loose map
// because the signature covers its keys in sorted order, exactly as sent.
type WebhookPayload struct {
	Code      string         `json:"code"`
	Desc      string         `json:"desc"`
	Data      map[string]any `json:"data"`
	Signature string         `json:"signature"`
}
