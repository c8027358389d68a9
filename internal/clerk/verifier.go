package clerk

import (
	"errors"
	"fmt"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
)

// Svix envelope headers the provider attaches to every delivery.
const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

// ErrMissingHeaders is returned when any of the three svix headers is absent.
var ErrMissingHeaders = errors.New("clerk: missing svix headers")

// Verifier validates the signed svix envelope on inbound webhooks.
type Verifier struct {
	wh *svix.Webhook
}

// NewVerifier constructs a Verifier from the shared webhook secret
// (the whsec_... value from the provider dashboard).
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("clerk: webhook secret is required")
	}

	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("clerk: init webhook verifier: %w", err)
	}
	return &Verifier{wh: wh}, nil
}

// Verify checks header presence and the envelope signature. It fails closed:
// any missing header or signature mismatch is an error, and the payload must
// not be processed afterwards.
func (v *Verifier) Verify(payload []byte, headers http.Header) error {
	for _, name := range []string{HeaderID, HeaderTimestamp, HeaderSignature} {
		if headers.Get(name) == "" {
			return ErrMissingHeaders
		}
	}

	if err := v.wh.Verify(payload, headers); err != nil {
		return fmt.Errorf("clerk: signature verification: %w", err)
	}
	return nil
}
