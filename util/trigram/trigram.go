package trigram

import (
	"github.com/spaolacci/murmur3"
	"github.com/wkalt/dircloud/util/bitset"
)

/*
Package trigram computes trigram signatures: bloom-style bitsets recording the
hashed three-byte substrings of a text. If a query is a substring of a text,
every trigram of the query is a trigram of the text, so a signature that does
not contain the query's signature rules the text out. Signatures can be unioned
to summarize many texts at once.
*/

////////////////////////////////////////////////////////////////////////////////

// Signature is a trigram signature.
type Signature struct {
	bits bitset.Bitset
}

// NewSignature returns an empty signature of the given size in bytes.
func NewSignature(sizeBytes int) Signature {
	return Signature{bits: bitset.New(sizeBytes)}
}

// AddTrigram records a single trigram.
func (s Signature) AddTrigram(trgm string) {
	s.bits.SetBit(murmur3.Sum32([]byte(trgm)))
}

// AddString records every trigram of text.
func (s Signature) AddString(text string) {
	for _, t := range ComputeTrigrams(text) {
		s.AddTrigram(t)
	}
}

// Contains reports whether every trigram recorded in other may be present in
// s. False positives are possible; false negatives are not.
func (s Signature) Contains(other Signature) bool {
	return s.bits.Contains(other.bits)
}

// Add unions other into s.
func (s Signature) Add(other Signature) {
	s.bits.Union(other.bits)
}

// Empty reports whether no trigram has been recorded.
func (s Signature) Empty() bool {
	return s.bits.Empty()
}

// ComputeTrigrams returns the three-byte substrings of text in order. Texts
// shorter than three bytes have no trigrams.
func ComputeTrigrams(text string) []string {
	result := []string{}
	for i := 0; i+3 <= len(text); i++ {
		result = append(result, text[i:i+3])
	}
	return result
}
