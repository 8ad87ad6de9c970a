package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-vcard"
)

// Contact is one usable vCard: it has at least a name and a phone.
type Contact struct {
	Name         string
	Phone        string
	Email        string
	Organization string
}

type ParseResult struct {
	Contacts []Contact
	// Invalid counts vCard blocks missing FN or TEL.
	Invalid int
}

// textUnescape finishes what the decoder leaves escaped in free text.
var textUnescape = strings.NewReplacer(`\;`, ";")

// ParseVCF decodes every vCard in r. It takes FN, the first preferred TEL
// (or the first TEL), the first EMAIL and ORG with its components joined by
// spaces. Blank lines between cards are allowed; any other text outside a
// BEGIN:VCARD/END:VCARD block is an error.
func ParseVCF(r io.Reader) (ParseResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return ParseResult{}, fmt.Errorf("read vcf: %w", err)
	}

	var res ParseResult
	dec := vcard.NewDecoder(strings.NewReader(dropBlankLines(string(raw))))
	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ParseResult{}, fmt.Errorf("parse vcf: %w", err)
		}
		c := Contact{
			Name:         cleanText(card.Value(vcard.FieldFormattedName)),
			Phone:        preferredPhone(card[vcard.FieldTelephone]),
			Email:        strings.TrimSpace(card.Value(vcard.FieldEmail)),
			Organization: joinComponents(card.Value(vcard.FieldOrganization)),
		}
		if c.Name == "" || c.Phone == "" {
			res.Invalid++
			continue
		}
		res.Contacts = append(res.Contacts, c)
	}
	return res, nil
}

func dropBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.TrimRight(l, "\r") != "" {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, "\n") + "\n"
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(textUnescape.Replace(s)), " ")
}

func preferredPhone(fields []*vcard.Field) string {
	var first string
	for _, f := range fields {
		v := strings.TrimSpace(f.Value)
		if v == "" {
			continue
		}
		if isPreferred(f.Params) {
			return v
		}
		if first == "" {
			first = v
		}
	}
	return first
}

// isPreferred accepts both the 3.0 TYPE=PREF and the 4.0 PREF=n forms.
func isPreferred(params vcard.Params) bool {
	for k, values := range params {
		if strings.EqualFold(k, vcard.ParamPreferred) {
			return true
		}
		if !strings.EqualFold(k, vcard.ParamType) {
			continue
		}
		for _, v := range values {
			for _, t := range strings.Split(v, ",") {
				if strings.EqualFold(strings.TrimSpace(t), "pref") {
					return true
				}
			}
		}
	}
	return false
}

// joinComponents splits a structured value on its unescaped semicolons.
func joinComponents(value string) string {
	var (
		parts []string
		cur   strings.Builder
	)
	flush := func() {
		if c := cleanText(cur.String()); c != "" {
			parts = append(parts, c)
		}
		cur.Reset()
	}
	for i := 0; i < len(value); i++ {
		switch {
		case value[i] == '\\' && i+1 < len(value) && value[i+1] == ';':
			cur.WriteString(`\;`)
			i++
		case value[i] == ';':
			flush()
		default:
			cur.WriteByte(value[i])
		}
	}
	flush()
	return strings.Join(parts, " ")
}

// ImportContacts stores parsed contacts, skipping any whose phone equals
// an existing client phone or one seen earlier in the same batch.
func ImportContacts(ctx context.Context, repo Repository, parsed ParseResult) (ImportResult, error) {
	existing, err := repo.Phones(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p] = true
	}

	res := ImportResult{Invalid: parsed.Invalid}
	var fresh []Client
	for _, c := range parsed.Contacts {
		if seen[c.Phone] {
			res.Duplicates++
			continue
		}
		seen[c.Phone] = true
		fresh = append(fresh, Client{Name: c.Name, Phone: c.Phone, Email: c.Email, Organization: c.Organization})
	}
	if err := repo.CreateMany(ctx, fresh); err != nil {
		return ImportResult{}, err
	}
	res.Imported = len(fresh)
	return res, nil
}
