// Package vcard renders contact records as vCard 3.0 blocks and reads them back.
package vcard

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	govcard "github.com/emersion/go-vcard"

	"github.com/joseph-ayodele/cardscan/internal/entity"
)

const (
	Version = "3.0"

	FieldSound             = "SOUND"
	FieldPhoneticLastName  = "X-PHONETIC-LAST-NAME"
	FieldPhoneticFirstName = "X-PHONETIC-FIRST-NAME"

	// MaxLineOctets is the content line length before folding.
	MaxLineOctets = 75
)

// semicolonMark stands in for ';' inside text values until the encoder has
// run. The encoder escapes backslash and comma but leaves ';' bare, which
// would shift ADR and N components on the way back in.
const semicolonMark = "\uE000"

// photo params in a fixed order; the encoder ranges over a map
var photoParamFixer = strings.NewReplacer(
	"PHOTO;TYPE=JPEG;ENCODING=b:", "PHOTO;ENCODING=b;TYPE=JPEG:",
)

// Serializer renders one ContactRecord per call.
type Serializer struct{}

func NewSerializer() *Serializer { return &Serializer{} }

// Serialize returns a self-contained BEGIN:VCARD ... END:VCARD block. Empty
// optional fields produce no line. Lines longer than MaxLineOctets are folded.
func (s *Serializer) Serialize(rec entity.ContactRecord) ([]byte, error) {
	card := buildCard(rec)
	var buf bytes.Buffer
	if err := govcard.NewEncoder(&buf).Encode(card); err != nil {
		return nil, fmt.Errorf("encode vcard: %w", err)
	}
	out := strings.ReplaceAll(buf.String(), semicolonMark, `\;`)
	out = photoParamFixer.Replace(out)
	return []byte(foldLines(out)), nil
}

func buildCard(rec entity.ContactRecord) govcard.Card {
	card := make(govcard.Card)
	card.SetValue(govcard.FieldVersion, Version)

	card.SetName(&govcard.Name{FamilyName: text(rec.FamilyName), GivenName: text(rec.GivenName)})
	card.SetValue(govcard.FieldFormattedName, text(rec.Name))

	if rec.Reading != "" {
		card.SetValue(FieldSound, text(rec.Reading))
	}
	// phonetic parts only when the reading carried a family/given separator
	if strings.Contains(rec.Reading, " ") {
		if rec.FamilyReading != "" {
			card.SetValue(FieldPhoneticLastName, text(rec.FamilyReading))
		}
		if rec.GivenReading != "" {
			card.SetValue(FieldPhoneticFirstName, text(rec.GivenReading))
		}
	}

	if rec.Email != "" {
		card.Add(govcard.FieldEmail, &govcard.Field{
			Value:  text(rec.Email),
			Params: govcard.Params{govcard.ParamType: {govcard.TypeWork}},
		})
	}
	if rec.Company != "" {
		card.SetValue(govcard.FieldOrganization, text(rec.Company))
	}
	if rec.Title != "" {
		card.SetValue(govcard.FieldTitle, text(rec.Title))
	}
	if rec.Address != "" || rec.PostalCode != "" {
		card.AddAddress(&govcard.Address{
			StreetAddress: text(rec.Address),
			PostalCode:    text(rec.PostalCode),
		})
	}
	if rec.Phone != "" {
		card.SetValue(govcard.FieldTelephone, text(rec.Phone))
	}
	for _, u := range rec.SocialLinks {
		if u != "" {
			card.AddValue(govcard.FieldURL, text(u))
		}
	}
	// tagged JPEG whatever the page image format is
	if rec.HasPhoto() {
		card.Add(govcard.FieldPhoto, &govcard.Field{
			Value: base64.StdEncoding.EncodeToString(rec.Photo),
			Params: govcard.Params{
				"ENCODING":        {"b"},
				govcard.ParamType: {"JPEG"},
			},
		})
	}
	return card
}

func text(s string) string {
	s = strings.ReplaceAll(s, semicolonMark, "")
	return strings.ReplaceAll(s, ";", semicolonMark)
}

// foldLines splits every CRLF-terminated line longer than MaxLineOctets into
// continuation lines that start with a single space. Runes are never split.
func foldLines(block string) string {
	lines := strings.Split(strings.TrimSuffix(block, "\r\n"), "\r\n")
	var b strings.Builder
	b.Grow(len(block) + len(block)/MaxLineOctets*3)
	for _, line := range lines {
		foldLine(&b, line)
	}
	return b.String()
}

func foldLine(b *strings.Builder, line string) {
	limit := MaxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// the leading space counts toward the octet limit
		limit = MaxLineOctets - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}
