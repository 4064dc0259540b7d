package entity

// ContactRecord is the normalized contact handed to the vCard serializer.
// Every string field is "" when absent; SocialLinks is never nil.
type ContactRecord struct {
	FamilyName    string
	GivenName     string
	FamilyReading string
	GivenReading  string

	Name        string
	Reading     string
	Email       string
	Company     string
	Title       string
	PostalCode  string
	Address     string
	Phone       string
	SocialLinks []string

	// Photo holds the page image bytes, nil when the image file was gone.
	Photo []byte
}

// HasPhoto reports whether a photo will be embedded.
func (c ContactRecord) HasPhoto() bool {
	return len(c.Photo) > 0
}
