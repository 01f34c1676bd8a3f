// Package signing issues and checks expiring HMAC links for the HLS relay.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var ErrMissingParams = errors.New("missing signed params")

type Signer struct {
	Secret []byte
	now    func() time.Time
}

// Signed is one relay link. Referer is forwarded upstream by the relay and is
// covered by the signature.
type Signed struct {
	URL     string
	Referer string
	Exp     int64
	Sig     string
}

func New(secret string) *Signer {
	return &Signer{Secret: []byte(secret), now: time.Now}
}

func (s *Signer) Sign(rawURL, referer string, exp time.Time) Signed {
	sig := s.signValue(rawURL, referer, exp.Unix())
	return Signed{URL: rawURL, Referer: referer, Exp: exp.Unix(), Sig: sig}
}

// SignUnix is Sign with a precomputed unix expiry, used when rewriting
// playlists so every child link shares the parent's expiry.
func (s *Signer) SignUnix(rawURL, referer string, exp int64) Signed {
	return Signed{URL: rawURL, Referer: referer, Exp: exp, Sig: s.signValue(rawURL, referer, exp)}
}

func (s *Signer) Verify(signed Signed) bool {
	if s.now().Unix() > signed.Exp {
		return false
	}
	return hmac.Equal([]byte(signed.Sig), []byte(s.signValue(signed.URL, signed.Referer, signed.Exp)))
}

// signValue length-prefixes every field so no byte can move between URL and
// Referer without changing the MAC input.
func (s *Signer) signValue(rawURL, referer string, exp int64) string {
	mac := hmac.New(sha256.New, s.Secret)
	for _, f := range []string{rawURL, referer, strconv.FormatInt(exp, 10)} {
		mac.Write([]byte(strconv.Itoa(len(f))))
		mac.Write([]byte{':'})
		mac.Write([]byte(f))
	}
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func BuildSignedURL(base string, signed Signed) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("url", signed.URL)
	q.Set("exp", strconv.FormatInt(signed.Exp, 10))
	q.Set("sig", signed.Sig)
	if signed.Referer != "" {
		q.Set("ref", signed.Referer)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func ExtractSigned(query url.Values) (Signed, error) {
	rawURL := strings.TrimSpace(query.Get("url"))
	expStr := strings.TrimSpace(query.Get("exp"))
	sig := strings.TrimSpace(query.Get("sig"))
	if rawURL == "" || expStr == "" || sig == "" {
		return Signed{}, ErrMissingParams
	}
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return Signed{}, err
	}
	return Signed{URL: rawURL, Referer: strings.TrimSpace(query.Get("ref")), Exp: exp, Sig: sig}, nil
}
