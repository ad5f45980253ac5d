// Package fetch implements tiered page retrieval.
//
// Every target is fetched with a plain HTTP client unless its host is on the
// hostile list, in which case a headless browser takes the first attempt.
// Responses blocked by bot mitigation (a blocked HTTP status, a transport
// failure, or a challenge interstitial served with 200) escalate to a remote
// reader service that returns pre-extracted text. Only when every tier is
// exhausted does retrieval fail.
package fetch
