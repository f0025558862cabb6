package manifest

import "github.com/inful/mdfp"

// Fingerprint returns the content fingerprint of an artifact body. The banner
// must be excluded so the value does not change with the generation time.
func Fingerprint(body []byte) string {
	return mdfp.CalculateFingerprintFromParts("", string(body))
}
