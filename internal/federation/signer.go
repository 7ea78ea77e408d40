package federation

import (
	"crypto/rsa"
	"net/http"
	"time"

	"github.com/go-fed/httpsig"
)

// headers covered by every outbound signature; recipients verify these
// against the sender's published public key.
var signedHeaders = []string{httpsig.RequestTarget, "host", "date", "digest"}

// SignRequest signs an outbound delivery request with the sending actor's
// private key, identified by keyID so the recipient can fetch the matching
// public key. The Digest header is derived from body by the signer.
func SignRequest(req *http.Request, body []byte, keyID string, key *rsa.PrivateKey) error {
	if req.Header.Get("Date") == "" {
		req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	}
	if req.Header.Get("Host") == "" {
		req.Header.Set("Host", req.URL.Host)
	}

	signer, _, err := httpsig.NewSigner(
		[]httpsig.Algorithm{httpsig.RSA_SHA256},
		httpsig.DigestSha256,
		signedHeaders,
		httpsig.Signature,
		0,
	)
	if err != nil {
		return err
	}

	return signer.SignRequest(key, keyID, req, body)
}

// VerifyRequest checks an inbound signature against a public key. Used by
// tests and kept exported for an eventual inbox implementation.
func VerifyRequest(req *http.Request, key *rsa.PublicKey) (string, error) {
	// server-side requests carry Host outside the header map
	if req.Header.Get("Host") == "" && req.Host != "" {
		req.Header.Set("Host", req.Host)
	}

	verifier, err := httpsig.NewVerifier(req)
	if err != nil {
		return "", err
	}
	return verifier.KeyId(), verifier.Verify(key, httpsig.RSA_SHA256)
}
