// Package rewriter points every URI in an HLS playlist back at the relay.
package rewriter

import (
	"net/url"
	"strings"

	"github.com/example/anistream/internal/platform/signing"
)

// Rewriter signs each child link with the parent's referer and expiry, so a
// playlist stays playable exactly as long as the link that fetched it.
type Rewriter struct {
	Signer    *signing.Signer
	ProxyBase string
}

func (rw Rewriter) Rewrite(body, baseURL, referer string, exp int64) string {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") {
			// EXT-X-KEY, EXT-X-MAP and I-frame tags carry their target in URI="".
			if strings.Contains(trim, `URI="`) {
				line = rw.rewriteURITag(line, baseURL, referer, exp)
			}
			out = append(out, line)
			continue
		}
		out = append(out, rw.proxyURL(resolveURL(baseURL, trim), referer, exp))
	}
	return strings.Join(out, "\n")
}

func (rw Rewriter) proxyURL(target, referer string, exp int64) string {
	u, err := signing.BuildSignedURL(rw.ProxyBase, rw.Signer.SignUnix(target, referer, exp))
	if err != nil {
		return target
	}
	return u
}

func (rw Rewriter) rewriteURITag(line, baseURL, referer string, exp int64) string {
	const marker = `URI="`
	start := strings.Index(line, marker)
	if start == -1 {
		return line
	}
	start += len(marker)
	end := strings.Index(line[start:], `"`)
	if end == -1 {
		return line
	}
	uri := line[start : start+end]
	return line[:start] + rw.proxyURL(resolveURL(baseURL, uri), referer, exp) + line[start+end:]
}

func resolveURL(baseURL, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(r).String()
}
