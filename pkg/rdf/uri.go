package rdf

import "strings"

const upperHex = "0123456789ABCDEF"

// EncodeName percent-encodes an entity name for use as the last path
// segment of an IRI. ASCII letters, digits and "_.-~" are kept, every other
// byte of the UTF-8 encoding becomes %XX.
func EncodeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '_', c == '-', c == '.', c == '~':
		return true
	}
	return false
}

// EntityIRI builds the IRI of a named entity in the given namespace.
func EntityIRI(namespace, name string) string {
	return namespace + EncodeName(name)
}
