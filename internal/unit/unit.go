// Package unit defines SourceUnit, the immutable artifact produced by every
// emission. Units are plain values; once constructed they are shared by
// reference between the engine cache, dependent templates, and callers.
package unit

import (
	"crypto/sha256"
	"encoding/hex"
)

// Kind names the kind of instruction that produced a unit.
type Kind string

const (
	KindStub     Kind = "stub"
	KindTemplate Kind = "template"
)

// Provenance records where a unit came from: the registry key that emitted
// it, the key's domain label, and the instruction kind. It is diagnostic
// information and never participates in unit identity.
type Provenance struct {
	Key    string
	Domain string
	Kind   Kind
}

// SourceUnit is a generated artifact. Fingerprint is its stable identity:
// two units with the same name and content always share a fingerprint,
// regardless of provenance.
type SourceUnit struct {
	Name        string
	Content     string
	Provenance  Provenance
	Fingerprint string
}

// New constructs a SourceUnit and computes its fingerprint. All units must
// be created through New so the fingerprint is never stale.
func New(name, content string, prov Provenance) SourceUnit {
	return SourceUnit{
		Name:        name,
		Content:     content,
		Provenance:  prov,
		Fingerprint: fingerprint(name, content),
	}
}

// fingerprint hashes the name and content with a separator that cannot occur
// in either, so ("ab","c") and ("a","bc") never collide.
func fingerprint(name, content string) string {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}
