package affiliate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"
	"time"
)

// AWS Signature Version 4 for the Product Advertising API. The algorithm is
// fixed by AWS: canonical request -> string to sign -> derived signing key.

const signAlgorithm = "AWS4-HMAC-SHA256"

// Signer holds the PA-API credentials and scope.
type Signer struct {
	AccessKey string
	SecretKey string
	Region    string
	Service   string
}

func NewSigner(accessKey, secretKey, region string) *Signer {
	return &Signer{
		AccessKey: accessKey,
		SecretKey: secretKey,
		Region:    region,
		Service:   "ProductAdvertisingAPI",
	}
}

// SignRequest computes the SigV4 signature over req and payload and sets the
// X-Amz-Date and Authorization headers in place.
func (s *Signer) SignRequest(req *http.Request, payload []byte, now time.Time) {
	now = now.UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")

	req.Header.Set("X-Amz-Date", amzDate)
	if req.Header.Get("Host") == "" {
		req.Header.Set("Host", req.URL.Host)
	}

	canonicalHeaders, signedHeaders := canonicalizeHeaders(req)
	payloadHash := hexSHA256(payload)

	canonicalRequest := strings.Join([]string{
		req.Method,
		canonicalURI(req),
		req.URL.Query().Encode(),
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")

	credentialScope := strings.Join([]string{dateStamp, s.Region, s.Service, "aws4_request"}, "/")
	stringToSign := strings.Join([]string{
		signAlgorithm,
		amzDate,
		credentialScope,
		hexSHA256([]byte(canonicalRequest)),
	}, "\n")

	signingKey := s.derivedKey(dateStamp)
	signature := hex.EncodeToString(hmacSHA256(signingKey, stringToSign))

	req.Header.Set("Authorization", signAlgorithm+
		" Credential="+s.AccessKey+"/"+credentialScope+
		", SignedHeaders="+signedHeaders+
		", Signature="+signature)
}

// derivedKey walks the HMAC chain AWS4{secret} -> date -> region -> service
// -> aws4_request.
func (s *Signer) derivedKey(dateStamp string) []byte {
	key := hmacSHA256([]byte("AWS4"+s.SecretKey), dateStamp)
	key = hmacSHA256(key, s.Region)
	key = hmacSHA256(key, s.Service)
	return hmacSHA256(key, "aws4_request")
}

func canonicalURI(req *http.Request) string {
	if req.URL.Path == "" {
		return "/"
	}
	return req.URL.EscapedPath()
}

func canonicalizeHeaders(req *http.Request) (canonical, signed string) {
	names := make([]string, 0, len(req.Header))
	for name := range req.Header {
		lower := strings.ToLower(name)
		if lower == "authorization" {
			continue
		}
		names = append(names, lower)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(strings.TrimSpace(req.Header.Get(name)))
		b.WriteString("\n")
	}
	return b.String(), strings.Join(names, ";")
}

func hexSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
