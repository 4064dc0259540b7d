package llm

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// DetectMIME sniffs the image type; PNG is assumed when sniffing is inconclusive.
func DetectMIME(b []byte) string {
	mt := http.DetectContentType(b)
	if strings.HasPrefix(mt, "image/") {
		return mt
	}
	return "image/png"
}

// EncodeDataURL renders bytes as a base64 data URL.
func EncodeDataURL(b []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = DetectMIME(b)
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(b)
}
