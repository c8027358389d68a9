package clerk

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewVerifierRequiresSecret(t *testing.T) {
	_, err := NewVerifier("")
	require.Error(t, err)
}

func TestVerifyMissingHeaders(t *testing.T) {
	v, err := NewVerifier("whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw")
	require.NoError(t, err)

	headers := http.Header{}
	headers.Set(HeaderID, "msg_1")
	headers.Set(HeaderTimestamp, "1700000000")
	// signature deliberately absent

	err = v.Verify([]byte(`{}`), headers)
	require.ErrorIs(t, err, ErrMissingHeaders)

	err = v.Verify([]byte(`{}`), http.Header{})
	require.ErrorIs(t, err, ErrMissingHeaders)
}

func TestVerifyBadSignature(t *testing.T) {
	v, err := NewVerifier("whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw")
	require.NoError(t, err)

	headers := http.Header{}
	headers.Set(HeaderID, "msg_1")
	headers.Set(HeaderTimestamp, "1700000000")
	headers.Set(HeaderSignature, "v1,invalid")

	require.Error(t, v.Verify([]byte(`{}`), headers))
}
