package util

import "strings"

// MaskAadhaar hides all but the last four digits, e.g. XXXX-XXXX-9012.
func MaskAadhaar(aadhaar string) string {
	s := strings.TrimSpace(aadhaar)
	if len(s) < 4 {
		return "XXXX-XXXX-XXXX"
	}
	return "XXXX-XXXX-" + s[len(s)-4:]
}

// MaskPAN keeps the first two and last five characters, e.g. ABXXX1234F.
func MaskPAN(pan string) string {
	s := strings.ToUpper(strings.TrimSpace(pan))
	if len(s) != 10 {
		return "XXXXXXXXXX"
	}
	return s[:2] + "XXX" + s[5:]
}
