// Package ldif renders ACI changes as LDIF modify records (RFC 2849) that
// ldapmodify can apply to a directory entry.
package ldif

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-ldap/ldap/v3"
	ldifenc "github.com/go-ldap/ldif"

	"github.com/gateplane-io/aci-cli/pkg/aci"
)

// Attribute is the operational attribute holding ACIs.
const Attribute = "aci"

// Record is a single changetype: modify record on one entry.
// Delete and Add hold ACI text; an empty side is left out.
type Record struct {
	DN     string
	Delete string
	Add    string
}

// Modify builds a record replacing old with updated on the entry dn.
// The old text is the one the directory returned when available, kept byte
// for byte so the delete matches the stored value. A zero old policy yields a
// plain add.
func Modify(dn string, old, updated aci.Policy) (Record, error) {
	if strings.TrimSpace(dn) == "" {
		return Record{}, fmt.Errorf("ldif: empty dn")
	}

	add, err := aci.ToText(updated)
	if err != nil {
		return Record{}, err
	}

	return Record{DN: dn, Delete: originalText(old), Add: add}, nil
}

// Backout returns the record that undoes r.
func (r Record) Backout() Record {
	return Record{DN: r.DN, Delete: r.Add, Add: r.Delete}
}

func originalText(p aci.Policy) string {
	if strings.TrimSpace(p.RawText) != "" {
		return p.RawText
	}
	if aci.IsValid(p) {
		return aci.Build(p)
	}
	return ""
}

// Request returns the modify request the record stands for.
func (r Record) Request() *ldap.ModifyRequest {
	req := ldap.NewModifyRequest(r.DN, nil)
	if r.Delete != "" {
		req.Delete(Attribute, []string{r.Delete})
	}
	if r.Add != "" {
		req.Add(Attribute, []string{r.Add})
	}
	return req
}

// Marshal renders records in order, each followed by a blank line.
// Unsafe values are base64 encoded and long lines folded at 76 columns.
func Marshal(records ...Record) (string, error) {
	doc := &ldifenc.LDIF{}
	for _, r := range records {
		doc.Entries = append(doc.Entries, &ldifenc.Entry{Modify: r.Request()})
	}
	out, err := ldifenc.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("ldif: %w", err)
	}
	return out, nil
}

// String renders the record as LDIF without the trailing separator line.
func (r Record) String() string {
	out, err := Marshal(r)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(out, "\n")
}

// Write renders records to w, separated by blank lines.
func Write(w io.Writer, records ...Record) error {
	out, err := Marshal(records...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
