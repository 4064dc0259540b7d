package constants

import "strings"

// Field is a contact key as returned by the extraction service.
type Field string

const (
	FieldName        Field = "name"
	FieldReading     Field = "reading"
	FieldEmail       Field = "email"
	FieldCompany     Field = "company"
	FieldTitle       Field = "title"
	FieldPostalCode  Field = "postal_code"
	FieldAddress     Field = "address"
	FieldPhone       Field = "phone"
	FieldSocialLinks Field = "social_links"
)

var allFields = []Field{
	FieldName,
	FieldReading,
	FieldEmail,
	FieldCompany,
	FieldTitle,
	FieldPostalCode,
	FieldAddress,
	FieldPhone,
	FieldSocialLinks,
}

// Fields returns the recognized keys in prompt order.
func Fields() []Field {
	out := make([]Field, len(allFields))
	copy(out, allFields)
	return out
}

// Canonicalize maps a key the model may have invented onto a recognized one.
func Canonicalize(input string) (Field, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)

	synonyms := map[string]Field{
		"full_name":    FieldName,
		"furigana":     FieldReading,
		"kana":         FieldReading,
		"name_reading": FieldReading,
		"e_mail":       FieldEmail,
		"mail":         FieldEmail,
		"organization": FieldCompany,
		"org":          FieldCompany,
		"company_name": FieldCompany,
		"position":     FieldTitle,
		"job_title":    FieldTitle,
		"zip":          FieldPostalCode,
		"zip_code":     FieldPostalCode,
		"postcode":     FieldPostalCode,
		"tel":          FieldPhone,
		"telephone":    FieldPhone,
		"phone_number": FieldPhone,
		"sns":          FieldSocialLinks,
		"social":       FieldSocialLinks,
		"urls":         FieldSocialLinks,
		"links":        FieldSocialLinks,
		"social_media": FieldSocialLinks,
	}
	if f, ok := synonyms[normalized]; ok {
		return f, true
	}
	for _, f := range allFields {
		if normalized == string(f) {
			return f, true
		}
	}
	return "", false
}
