package processor

import (
	"encoding/json"
	"strings"
)

// Sections of a payment payload whose fields are masked before logging.
var maskedFields = map[string][]string{
	"paymentInformation.card": {"expirationYear", "expirationMonth", "prefix", "suffix", "securityCode"},
	"orderInformation.billTo": {"firstName", "lastName", "address1", "address2", "postalCode", "locality", "phoneNumber", "email"},
	"orderInformation.shipTo": {"firstName", "lastName", "address1", "address2", "postalCode", "locality", "phoneNumber", "email"},
	"deviceInformation":       {"fingerprintSessionId"},
}

// MaskPayload masks card data, billing/shipping PII and device fingerprints
// in a JSON payload so raw values never reach the logs. Payloads that do not
// parse as JSON objects are returned unchanged.
func MaskPayload(raw []byte) []byte {
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return raw
	}

	for section, fields := range maskedFields {
		node := decoded
		ok := true
		for _, key := range strings.Split(section, ".") {
			child, found := node[key].(map[string]interface{})
			if !found {
				ok = false
				break
			}
			node = child
		}
		if !ok {
			continue
		}
		for _, field := range fields {
			if v, found := node[field].(string); found && v != "" {
				node[field] = maskValue(v)
			}
		}
	}

	masked, err := json.Marshal(decoded)
	if err != nil {
		return raw
	}
	return masked
}

// maskValue keeps the last two characters visible for values long enough to
// still be recognizable, otherwise masks everything.
func maskValue(v string) string {
	if len(v) <= 2 {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", len(v)-2) + v[len(v)-2:]
}
