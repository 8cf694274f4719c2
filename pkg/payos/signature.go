package payos

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// SignCreateLink computes the HMAC-SHA256 signature PayOS expects on link
// creation: the five core fields joined as key=value pairs in alphabetical
// key order.
func SignCreateLink(checksumKey string, req CreateLinkRequest) string {
	payload := fmt.Sprintf("amount=%d&cancelUrl=%s&description=%s&orderCode=%d&returnUrl=%s",
		req.Amount, req.CancelURL, req.Description, req.OrderCode, req.ReturnURL)
	return signHMAC(checksumKey, payload)
}

// SignWebhookData canonicalizes the webhook data object as sorted key=value
// pairs and signs it, matching the signature PayOS attaches to callbacks.
func SignWebhookData(checksumKey string, data map[string]any) string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+canonicalValue(data[key]))
	}
	return signHMAC(checksumKey, strings.Join(pairs, "&"))
}

// VerifyWebhookSignature reports whether the signature matches the data payload.
func VerifyWebhookSignature(checksumKey string, data map[string]any, signature string) bool {
	if signature == "" {
		return false
	}
	expected := SignWebhookData(checksumKey, data)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func canonicalValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		// json decoding without UseNumber lands here; integers must not
		// pick up a trailing ".0".
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func signHMAC(key, payload string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
