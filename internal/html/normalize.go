package html

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalization is a Unicode normalization form
// applied to span text before it's escaped.
//
// The zero value leaves text untouched.
type Normalization string

// Supported normalization forms.
const (
	NoNormalization Normalization = ""
	NFC             Normalization = "nfc"
	NFD             Normalization = "nfd"
	NFKC            Normalization = "nfkc"
	NFKD            Normalization = "nfkd"
)

var _normForms = map[Normalization]norm.Form{
	NFC:  norm.NFC,
	NFD:  norm.NFD,
	NFKC: norm.NFKC,
	NFKD: norm.NFKD,
}

func (n Normalization) apply(s string) string {
	form, ok := _normForms[n]
	if !ok {
		return s
	}
	return form.String(s)
}

// String returns the name of the normalization form.
func (n Normalization) String() string {
	return string(n)
}

// Set parses a normalization form from a command line flag.
func (n *Normalization) Set(s string) error {
	v := Normalization(strings.ToLower(strings.TrimSpace(s)))
	if v == "none" {
		v = NoNormalization
	}
	if _, ok := _normForms[v]; !ok && v != NoNormalization {
		return fmt.Errorf("unknown normalization form %q: expected none, nfc, nfd, nfkc, or nfkd", s)
	}
	*n = v
	return nil
}

// Get returns the normalization form.
// This is to comply with the [flag.Getter] interface.
func (n *Normalization) Get() any { return *n }
