package contact

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/cardscan/internal/common"
	"github.com/joseph-ayodele/cardscan/internal/entity"
	"github.com/joseph-ayodele/cardscan/internal/llm"
)

// Assembler merges extracted fields, the name segmentation, and the page
// photo into a ContactRecord.
type Assembler struct {
	logger *slog.Logger
}

func NewAssembler(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{logger: logger}
}

// Assemble builds the record. A missing image file yields a record without
// a photo; any other read failure is an IOError.
func (a *Assembler) Assemble(fields llm.ContactFields, imagePath string) (entity.ContactRecord, error) {
	fields = fields.WithDefaults()

	rec := entity.ContactRecord{
		Name:        fields.Name,
		Reading:     fields.Reading,
		Email:       fields.Email,
		Company:     fields.Company,
		Title:       fields.Title,
		PostalCode:  fields.PostalCode,
		Address:     fields.Address,
		Phone:       fields.Phone,
		SocialLinks: append([]string{}, fields.SocialLinks...),
	}
	rec.FamilyName, rec.GivenName = SplitName(fields.Name)
	rec.FamilyReading, rec.GivenReading = SplitName(fields.Reading)

	if fields.Name == "" {
		a.logger.Warn("contact.assemble.empty_name", "image", imagePath)
	}

	if imagePath != "" {
		photo, err := os.ReadFile(imagePath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			a.logger.Warn("contact.assemble.photo_missing", "image", imagePath)
		case err != nil:
			return entity.ContactRecord{}, common.IOError("read page image", err)
		default:
			rec.Photo = photo
		}
	}
	return rec, nil
}
