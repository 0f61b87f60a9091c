package tokenpkg

import "fmt"

// Kinds of token makers.
const (
	KindPaseto = "paseto"
	KindJWT    = "jwt"
)

// New returns the maker of the given kind keyed with the symmetric key.
func New(kind, symmetricKey string) (Maker, error) {
	switch kind {
	case KindPaseto, "":
		return NewPasetoMaker(symmetricKey)
	case KindJWT:
		return NewJWTMaker(symmetricKey)
	}

	return nil, fmt.Errorf("unsupported token type %q", kind)
}
