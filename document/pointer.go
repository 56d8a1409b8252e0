package document

import (
	"net/url"
	"path"
	"strings"

	"github.com/go-openapi/jsonpointer"
	"github.com/xeipuuv/gojsonreference"

	"github.com/erraggy/oasbind/oaserrors"
)

// Pointer addresses a node within one of the documents held by a Store.
//
// Base is the document locator; an empty Base means "the document that holds
// the reference" until the pointer is anchored with [Pointer.Against].
// Fragment is an RFC 6901 JSON Pointer without the leading '#' ("" addresses
// the document root). Pointer is comparable and safe to use as a map key.
type Pointer struct {
	Base     string
	Fragment string
}

// ParsePointer parses a reference string such as "#/definitions/Pet" or
// "common.yaml#/parameters/limit". Empty input fails with
// *oaserrors.InvalidReferenceError.
func ParsePointer(ref string) (Pointer, error) {
	if strings.TrimSpace(ref) == "" {
		return Pointer{}, &oaserrors.InvalidReferenceError{Message: "pointer is empty"}
	}

	base, fragment := Decompose(ref)
	if fragment != "" && !strings.HasPrefix(fragment, "/") {
		return Pointer{}, &oaserrors.InvalidReferenceError{
			Ref:     ref,
			Message: "fragment must be empty or start with '/'",
		}
	}
	if _, err := jsonpointer.New(fragment); err != nil {
		return Pointer{}, &oaserrors.InvalidReferenceError{Ref: ref, Message: err.Error()}
	}
	return Pointer{Base: base, Fragment: fragment}, nil
}

// MustParsePointer is like ParsePointer but panics on error.
// It is intended for package-level pointer constants and tests.
func MustParsePointer(ref string) Pointer {
	p, err := ParsePointer(ref)
	if err != nil {
		panic(err)
	}
	return p
}

// Compose joins a document locator and a fragment into a reference string.
// The fragment may be given with or without its leading '#'.
func Compose(locator, fragment string) string {
	return locator + "#" + strings.TrimPrefix(fragment, "#")
}

// Decompose splits a reference string into its document locator and its
// fragment. The returned fragment has no leading '#' and is percent-decoded.
func Decompose(ref string) (locator, fragment string) {
	locator, fragment, _ = strings.Cut(ref, "#")
	if decoded, err := url.PathUnescape(fragment); err == nil {
		fragment = decoded
	}
	return locator, fragment
}

// Join appends escaped reference tokens to a reference string:
//
//	Join("#/paths", "/pets/{id}") // "#/paths/~1pets~1{id}"
func Join(ref string, tokens ...string) string {
	if !strings.Contains(ref, "#") {
		ref += "#"
	}
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(ref, "/"))
	for _, tok := range tokens {
		b.WriteByte('/')
		b.WriteString(jsonpointer.Escape(tok))
	}
	return b.String()
}

// String returns the canonical reference form of the pointer.
func (p Pointer) String() string {
	return Compose(p.Base, p.Fragment)
}

// Tokens returns the unescaped reference tokens of the fragment.
func (p Pointer) Tokens() []string {
	jp, err := jsonpointer.New(p.Fragment)
	if err != nil {
		return nil
	}
	return jp.DecodedTokens()
}

// Child returns the pointer extended with the given unescaped tokens.
func (p Pointer) Child(tokens ...string) Pointer {
	var b strings.Builder
	b.WriteString(p.Fragment)
	for _, tok := range tokens {
		b.WriteByte('/')
		b.WriteString(jsonpointer.Escape(tok))
	}
	return Pointer{Base: p.Base, Fragment: b.String()}
}

// Last returns the last unescaped token, or "" for the root pointer.
func (p Pointer) Last() string {
	tokens := p.Tokens()
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}

// Against anchors p to the document addressed by base. A pointer without a
// locator takes base's locator; a relative locator is resolved against
// base's locator the way a relative URL is resolved against its base URL.
// Plain file locators stay relative: "other.yaml" against "specs/main.yaml"
// is "specs/other.yaml".
func (p Pointer) Against(base Pointer) (Pointer, error) {
	if p.Base == "" {
		return Pointer{Base: base.Base, Fragment: p.Fragment}, nil
	}
	if base.Base == "" || hasScheme(p.Base) {
		return p, nil
	}
	if !hasScheme(base.Base) {
		if path.IsAbs(p.Base) {
			return p, nil
		}
		return Pointer{Base: path.Join(path.Dir(base.Base), p.Base), Fragment: p.Fragment}, nil
	}

	parent, err := gojsonreference.NewJsonReference(base.Base)
	if err != nil {
		return Pointer{}, &oaserrors.InvalidReferenceError{Ref: base.Base, Message: err.Error()}
	}
	child, err := gojsonreference.NewJsonReference(p.Base)
	if err != nil {
		return Pointer{}, &oaserrors.InvalidReferenceError{Ref: p.Base, Message: err.Error()}
	}
	inherited, err := parent.Inherits(child)
	if err != nil {
		return Pointer{}, &oaserrors.InvalidReferenceError{Ref: p.String(), Message: err.Error()}
	}

	u := *inherited.GetUrl()
	u.Fragment = ""
	u.RawFragment = ""
	return Pointer{Base: u.String(), Fragment: p.Fragment}, nil
}

// hasScheme reports whether locator is a URL. Single-letter schemes are
// Windows drive letters.
func hasScheme(locator string) bool {
	u, err := url.Parse(locator)
	return err == nil && len(u.Scheme) > 1
}
