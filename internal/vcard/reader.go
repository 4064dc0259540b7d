package vcard

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	govcard "github.com/emersion/go-vcard"
)

// Contact is a flattened view of one decoded card.
type Contact struct {
	Name        string
	Reading     string
	Email       string
	Company     string
	Title       string
	PostalCode  string
	Address     string
	Phone       string
	SocialLinks []string
	HasPhoto    bool
}

// ReadFile decodes every card in a contacts file.
func ReadFile(path string) ([]Contact, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Read(bytes.NewReader(b))
}

// Read decodes every card in r. Blank separator lines are skipped.
func Read(r io.Reader) ([]Contact, error) {
	var cleaned bytes.Buffer
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cleaned.WriteString(line)
		cleaned.WriteString("\r\n")
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan contacts: %w", err)
	}

	dec := govcard.NewDecoder(&cleaned)
	var out []Contact
	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("decode card %d: %w", len(out)+1, err)
		}
		out = append(out, fromCard(card))
	}
}

func fromCard(card govcard.Card) Contact {
	c := Contact{
		Name:     unescapeText(card.Value(govcard.FieldFormattedName)),
		Reading:  unescapeText(card.Value(FieldSound)),
		Email:    unescapeText(card.Value(govcard.FieldEmail)),
		Company:  unescapeText(card.Value(govcard.FieldOrganization)),
		Title:    unescapeText(card.Value(govcard.FieldTitle)),
		Phone:    unescapeText(card.Value(govcard.FieldTelephone)),
		HasPhoto: card.Get(govcard.FieldPhoto) != nil,
	}
	c.SocialLinks = make([]string, 0, len(card.Values(govcard.FieldURL)))
	for _, u := range card.Values(govcard.FieldURL) {
		c.SocialLinks = append(c.SocialLinks, unescapeText(u))
	}
	// post-office-box;extended;street;locality;region;postal-code;country
	if adr := card.Get(govcard.FieldAddress); adr != nil {
		parts := splitComponents(adr.Value)
		if len(parts) > 2 {
			c.Address = parts[2]
		}
		if len(parts) > 5 {
			c.PostalCode = parts[5]
		}
	}
	return c
}

// splitComponents splits a structured value on unescaped semicolons.
func splitComponents(v string) []string {
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(v); i++ {
		switch {
		case v[i] == '\\' && i+1 < len(v) && v[i+1] == ';':
			cur.WriteByte(';')
			i++
		case v[i] == ';':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(v[i])
		}
	}
	return append(parts, cur.String())
}

func unescapeText(v string) string {
	return strings.ReplaceAll(v, `\;`, ";")
}
