package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasbind/oaserrors"
)

func TestParsePointer(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		expected Pointer
		wantErr  bool
	}{
		{"local definition", "#/definitions/Pet", Pointer{Fragment: "/definitions/Pet"}, false},
		{"document root", "#", Pointer{}, false},
		{"external document", "common.yaml#/parameters/limit", Pointer{Base: "common.yaml", Fragment: "/parameters/limit"}, false},
		{"whole external document", "common.yaml", Pointer{Base: "common.yaml"}, false},
		{"escaped path", "#/paths/~1pets~1{id}", Pointer{Fragment: "/paths/~1pets~1{id}"}, false},
		{"percent encoded", "#/paths/%7Bid%7D", Pointer{Fragment: "/paths/{id}"}, false},
		{"empty", "", Pointer{}, true},
		{"blank", "   ", Pointer{}, true},
		{"relative fragment", "#definitions/Pet", Pointer{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePointer(tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, oaserrors.ErrInvalidReference))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestMustParsePointerPanics(t *testing.T) {
	assert.Panics(t, func() { MustParsePointer("") })
	assert.NotPanics(t, func() { MustParsePointer("#/definitions") })
}

func TestComposeDecompose(t *testing.T) {
	assert.Equal(t, "#/paths", Compose("", "/paths"))
	assert.Equal(t, "a.yaml#/paths", Compose("a.yaml", "#/paths"))

	loc, frag := Decompose("a.yaml#/definitions/Pet")
	assert.Equal(t, "a.yaml", loc)
	assert.Equal(t, "/definitions/Pet", frag)

	loc, frag = Decompose("a.yaml")
	assert.Equal(t, "a.yaml", loc)
	assert.Empty(t, frag)

	// Compose and Decompose are inverse for already decoded fragments.
	loc, frag = Decompose(Compose("b.json", "/x/y"))
	assert.Equal(t, "b.json", loc)
	assert.Equal(t, "/x/y", frag)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "#/paths/~1a", Join("#/paths", "/a"))
	assert.Equal(t, "#/paths/~1pets~1{id}/get", Join("#/paths", "/pets/{id}", "get"))
	assert.Equal(t, "x.yaml#/definitions/a~0b", Join("x.yaml", "definitions", "a~b"))
}

func TestPointerNavigation(t *testing.T) {
	p := MustParsePointer("#/paths/~1pets/get")
	assert.Equal(t, []string{"paths", "/pets", "get"}, p.Tokens())
	assert.Equal(t, "get", p.Last())

	child := MustParsePointer("#/paths/~1pets").Child("post")
	assert.Equal(t, "#/paths/~1pets/post", child.String())

	root := Pointer{Base: "a.yaml"}
	assert.Empty(t, root.Tokens())
	assert.Empty(t, root.Last())
}

func TestPointerTokensUnescape(t *testing.T) {
	tests := []struct {
		ref  string
		want []string
	}{
		{"#/definitions/a~0b", []string{"definitions", "a~b"}},
		{"#/paths/~1pet~1{petId}/get", []string{"paths", "/pet/{petId}", "get"}},
		{"#/x~01/y", []string{"x~1", "y"}},
		{"#/responses/200", []string{"responses", "200"}},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParsePointer(tt.ref).Tokens())
		})
	}
}

func TestPointerComparable(t *testing.T) {
	a := MustParsePointer("#/definitions/Pet")
	b := MustParsePointer("#/definitions/Pet")
	assert.Equal(t, a, b)

	seen := map[Pointer]bool{a: true}
	assert.True(t, seen[b])
}

func TestPointerAgainst(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		base     Pointer
		expected string
	}{
		{"local ref inherits base", "#/definitions/Tag", Pointer{Base: "specs/main.yaml"}, "specs/main.yaml#/definitions/Tag"},
		{"sibling document", "other.yaml#/definitions/Tag", Pointer{Base: "specs/main.yaml"}, "specs/other.yaml#/definitions/Tag"},
		{"no base", "other.yaml#/definitions/Tag", Pointer{}, "other.yaml#/definitions/Tag"},
		{"absolute url", "https://example.com/a.yaml#/x", Pointer{Base: "specs/main.yaml"}, "https://example.com/a.yaml#/x"},
		{"relative to url", "b.yaml#/x", Pointer{Base: "https://example.com/specs/a.yaml"}, "https://example.com/specs/b.yaml#/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := MustParsePointer(tt.ref).Against(tt.base)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.String())
		})
	}
}
