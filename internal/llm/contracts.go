package llm

import "context"

// ContactFields is the typed shape we want from the model. After
// extraction every string is set ("" when absent) and SocialLinks is non-nil.
type ContactFields struct {
	Name        string   `json:"name"`
	Reading     string   `json:"reading"`
	Email       string   `json:"email"`
	Company     string   `json:"company"`
	Title       string   `json:"title"`
	PostalCode  string   `json:"postal_code"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	SocialLinks []string `json:"social_links"`
}

// WithDefaults fills the list field so callers never see a nil slice.
func (f ContactFields) WithDefaults() ContactFields {
	if f.SocialLinks == nil {
		f.SocialLinks = []string{}
	}
	return f
}

// ExtractRequest carries one corrected page image.
type ExtractRequest struct {
	Image     []byte
	MIMEType  string
	PageIndex int
}

// FieldExtractor is the interface our pipeline depends on.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (ContactFields, []byte /*rawJSON*/, error)
}

// Generator is the client handle of a generative service: one prompt plus
// one image in, free-form text out. Implementations classify capacity
// exhaustion as common.ErrCapacityExhausted.
type Generator interface {
	Generate(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
	Name() string
}
