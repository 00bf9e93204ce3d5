package cryptomus

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/set-night/cryptoshop/internal/domain"
)

// Sign computes the processor signature over a request body:
// md5(base64(body) + apiKey), hex-encoded. The body must be the exact
// bytes sent on the wire.
func Sign(body []byte, apiKey string) string {
	encoded := base64.StdEncoding.EncodeToString(body)
	hash := md5.Sum([]byte(encoded + apiKey))
	return hex.EncodeToString(hash[:])
}

// SignEmpty is the signature variant for requests with no body.
func SignEmpty(apiKey string) string {
	return Sign(nil, apiKey)
}

// VerifyWebhook checks an inbound event's signature: the event is
// re-serialized with the sign field blanked and compared against the
// provided value. Returns false on any mismatch or marshal failure,
// never an error; unverifiable events must not be acted on.
func VerifyWebhook(event *domain.WebhookEvent, apiKey string) bool {
	if event.Sign == "" {
		return false
	}

	stripped := *event
	stripped.Sign = ""

	payload, err := marshalWithoutSign(&stripped)
	if err != nil {
		return false
	}

	expected := Sign(payload, apiKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(event.Sign)) == 1
}

// marshalWithoutSign serializes the event and drops the trailing sign
// member. Sign is the last struct field, so this is a fixed-suffix trim
// on the marshaled object.
func marshalWithoutSign(event *domain.WebhookEvent) ([]byte, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	// raw ends with ,"sign":""}
	const suffix = `,"sign":""}`
	if len(raw) < len(suffix) {
		return nil, fmt.Errorf("unexpected event encoding")
	}
	trimmed := append(raw[:len(raw)-len(suffix)], '}')
	return trimmed, nil
}

// SignWebhook fills in the event's signature field, used by the simulator
// to produce events the receiver will accept.
func SignWebhook(event *domain.WebhookEvent, apiKey string) error {
	stripped := *event
	stripped.Sign = ""

	payload, err := marshalWithoutSign(&stripped)
	if err != nil {
		return err
	}
	event.Sign = Sign(payload, apiKey)
	return nil
}
