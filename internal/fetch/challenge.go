package fetch

import "bytes"

// challengeMarkers are lowercase fragments that identify anti-bot
// interstitials served with a 200 status. Matching any of them means the body
// is a challenge page, not site content.
var challengeMarkers = [][]byte{
	[]byte("cf-browser-verification"),
	[]byte("cf-challenge"),
	[]byte("challenge-platform"),
	[]byte("just a moment..."),
	[]byte("checking your browser"),
	[]byte("ddos-guard"),
	[]byte("qrator"),
	[]byte("smartcaptcha"),
	[]byte("g-recaptcha"),
	[]byte("h-captcha"),
	[]byte("доступ ограничен"),
}

// looksLikeChallenge reports whether a successful response body is a bot
// check rather than the page itself.
func looksLikeChallenge(body []byte) bool {
	if len(body) == 0 {
		return false
	}
	lower := bytes.ToLower(body)
	for _, marker := range challengeMarkers {
		if bytes.Contains(lower, marker) {
			return true
		}
	}
	return false
}
