package app

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasbind/document"
	"github.com/erraggy/oasbind/internal/testutil"
	"github.com/erraggy/oasbind/oaserrors"
	"github.com/erraggy/oasbind/operation"
	"github.com/erraggy/oasbind/primitive"
	"github.com/erraggy/oasbind/spec"
)

func TestNewInputSources(t *testing.T) {
	dir := testutil.WriteTempFile(t, "petstore.yaml", testutil.PetstoreYAML)
	petstore := filepath.Join(dir, "petstore.yaml")

	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{name: "file path", opts: []Option{WithFilePath(petstore)}},
		{name: "bytes", opts: []Option{WithBytes([]byte(testutil.PetstoreYAML))}},
		{name: "store", opts: []Option{WithStore(testutil.NewSingleStore(t, "", testutil.PetstoreYAML))}},
		{name: "no source", wantErr: "must specify one of WithStore, WithFilePath or WithBytes"},
		{
			name:    "two sources",
			opts:    []Option{WithFilePath(petstore), WithBytes([]byte(testutil.PetstoreYAML))},
			wantErr: "only one of WithFilePath or WithBytes may be specified",
		},
		{name: "nil store", opts: []Option{WithStore(nil)}, wantErr: "store cannot be nil"},
		{
			name:    "bad depth",
			opts:    []Option{WithBytes([]byte(testutil.PetstoreYAML)), WithMaxRefDepth(0)},
			wantErr: "must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.opts...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, oaserrors.ErrConfig))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "petstore.example.com", a.Root().Host)
			assert.Equal(t, "/api", a.Root().BasePath)
		})
	}
}

func TestNewLoadErrors(t *testing.T) {
	_, err := New(WithFilePath(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load")

	_, err = New(WithBytes([]byte("- not\n- a mapping\n")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrParse))
}

func TestOps(t *testing.T) {
	a, err := New(WithBytes([]byte(testutil.PetstoreYAML)))
	require.NoError(t, err)

	ids, err := a.Ops()
	require.NoError(t, err)
	assert.True(t, len(ids) > 0)
	assert.IsIncreasing(t, ids)
	assert.Contains(t, ids, "getPetById")
	assert.Contains(t, ids, "upload_images")

	// Ops returns a copy.
	ids[0] = "changed"
	again, err := a.Ops()
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again[0])
}

func TestOp(t *testing.T) {
	a, err := New(WithBytes([]byte(testutil.PetstoreYAML)))
	require.NoError(t, err)

	op, err := a.Op("getPetById")
	require.NoError(t, err)
	assert.Equal(t, "GET", op.Method())
	assert.Equal(t, "/pet/{petId}", op.Path())

	same, err := a.OpFor("get", "/pet/{petId}")
	require.NoError(t, err)
	assert.Same(t, op, same)

	upper, err := a.OpFor("GET", "/pet/{petId}")
	require.NoError(t, err)
	assert.Same(t, op, upper)

	req, _, err := op.Call(operation.Args{"petId": 1})
	require.NoError(t, err)
	assert.Equal(t, "/api/pet/1", req.Path())
}

func TestOpNotFound(t *testing.T) {
	a, err := New(WithBytes([]byte(testutil.PetstoreYAML)))
	require.NoError(t, err)

	_, err = a.Op("noSuchOperation")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrResolution))

	_, err = a.OpFor("patch", "/pet/{petId}")
	require.Error(t, err)
	var resErr *oaserrors.ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "#/paths/~1pet~1{petId}/patch", resErr.Ref)
}

func TestSharedTemplateOperations(t *testing.T) {
	var buf bytes.Buffer
	logger := spec.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))

	a, err := New(WithBytes([]byte(testutil.PathItemYAML)), WithLogger(logger))
	require.NoError(t, err)

	ids, err := a.Ops()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.get", "b.get", "c.put", "d.post"}, ids)

	// c.put is declared once in /c and inherited by /a and /b; the id
	// belongs to the first path.
	put, err := a.Op("c.put")
	require.NoError(t, err)
	assert.Equal(t, "/a", put.Path())

	viaB, err := a.OpFor("put", "/b")
	require.NoError(t, err)
	assert.Equal(t, "/b", viaB.Path())
	assert.Same(t, put.Spec(), viaB.Spec())

	assert.Contains(t, buf.String(), "duplicate operationId")
	assert.Contains(t, buf.String(), "operationId=c.put")
	assert.Equal(t, 5, strings.Count(buf.String(), "duplicate operationId"))
}

func TestResolve(t *testing.T) {
	a, err := New(WithBytes([]byte(testutil.DerefYAML)))
	require.NoError(t, err)

	s1, err := a.Resolve("#/definitions/s1")
	require.NoError(t, err)
	s4, err := a.Resolve("#/definitions/s4")
	require.NoError(t, err)

	got, err := a.Resolver().Deref(s1)
	require.NoError(t, err)
	assert.Same(t, s4, got)

	c1, err := a.Resolve("#/definitions/c1")
	require.NoError(t, err)
	_, err = a.Resolver().Deref(c1)
	assert.True(t, errors.Is(err, oaserrors.ErrCircularReference))
}

func TestFilePathRelativeReferences(t *testing.T) {
	dir := testutil.WriteTempFile(t, "main.yaml", testutil.CrossMainYAML)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte(testutil.CrossOtherYAML), 0o600))

	a, err := New(WithFilePath(filepath.Join(dir, "main.yaml")))
	require.NoError(t, err)

	owner, err := a.Resolver().ResolveSchema("#/definitions/Owner")
	require.NoError(t, err)
	tag, err := a.Resolver().ResolveSchema("other.yaml#/definitions/Tag")
	require.NoError(t, err)
	assert.Same(t, tag, owner.Properties["tag"].Target)
}

func TestBytesWithLoader(t *testing.T) {
	a, err := New(
		WithBytes([]byte(testutil.CrossMainYAML)),
		WithLoader(document.MapLoader{"other.yaml": []byte(testutil.CrossOtherYAML)}),
	)
	require.NoError(t, err)

	owner, err := a.Resolver().ResolveSchema("#/definitions/Owner")
	require.NoError(t, err)
	require.NotNil(t, owner.Properties["tag"].Target)
	assert.Equal(t, "other.yaml", owner.Properties["tag"].Target.Pointer.Base)
}

func TestUserModels(t *testing.T) {
	a, err := New(WithStore(testutil.NewSingleStore(t, "", testutil.UserYAML)))
	require.NoError(t, err)

	op, err := a.Op("createUser")
	require.NoError(t, err)
	req, _, err := op.Call(operation.Args{
		"body": map[string]any{"id": 2, "username": "mary", "email": "mary@example.com", "phone": "123"},
	})
	require.NoError(t, err)

	model, ok := req.Value().(*primitive.Model)
	require.True(t, ok)
	assert.Equal(t, "UserWithInfo", model.SubType())
}
