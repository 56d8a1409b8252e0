package primitive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasbind/internal/testutil"
	"github.com/erraggy/oasbind/oaserrors"
)

func TestModelSubtypeSelection(t *testing.T) {
	b, r := newBuilder(t, testutil.UserYAML)

	user, err := r.ResolveSchema("#/definitions/User")
	require.NoError(t, err)

	tests := []struct {
		name     string
		raw      map[string]any
		wantType string
		wantSet  []string
	}{
		{
			name:     "base type only",
			raw:      map[string]any{"id": 1, "username": "kevin"},
			wantType: "User",
			wantSet:  []string{"id", "username"},
		},
		{
			name: "derived type",
			raw: map[string]any{
				"id": 2, "username": "mary", "password": "secret",
				"email": "m@a.ry", "phone": "123",
			},
			wantType: "UserWithInfo",
			wantSet:  []string{"id", "password", "username", "email", "phone"},
		},
		{
			name: "most derived type",
			raw: map[string]any{
				"id": 3, "username": "root", "email": "root@example.com", "level": 9,
			},
			wantType: "Admin",
			wantSet:  []string{"id", "username", "email", "level"},
		},
		{
			name:     "fields of undeclared types are dropped",
			raw:      map[string]any{"id": 4, "username": "bob", "level": 1},
			wantType: "User",
			wantSet:  []string{"id", "username"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := b.BuildAt("body", user, tt.raw)
			require.NoError(t, err)
			m, ok := v.(*Model)
			require.True(t, ok)
			assert.Equal(t, tt.wantType, m.SubType())
			assert.Equal(t, tt.wantSet, m.Fields())
		})
	}
}

func TestModelDeclaredOrder(t *testing.T) {
	b, r := newBuilder(t, testutil.UserYAML)

	admin, err := r.ResolveSchema("#/definitions/Admin")
	require.NoError(t, err)

	v, err := b.Build(admin, map[string]any{
		"id": 1, "username": "a", "email": "a@b.co", "level": 3,
	})
	require.NoError(t, err)
	m := v.(*Model)
	assert.Equal(t, "Admin", m.SubType())
	assert.Same(t, admin, m.Schema())
	assert.Equal(t, []string{"id", "password", "username", "email", "phone", "level"}, m.Declared())

	level, err := m.Get("level")
	require.NoError(t, err)
	n, ok := level.(*Primitive).Int()
	require.True(t, ok)
	assert.Equal(t, int64(3), n)
}

func TestModelFieldNotSet(t *testing.T) {
	b, r := newBuilder(t, testutil.UserYAML)

	user, err := r.ResolveSchema("#/definitions/User")
	require.NoError(t, err)
	v, err := b.Build(user, map[string]any{"id": 1, "username": "kevin"})
	require.NoError(t, err)
	kevin := v.(*Model)

	assert.False(t, kevin.Has("email"))

	for range 2 {
		_, err := kevin.Get("email")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrFieldNotSet))
		var ferr *oaserrors.FieldNotSetError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, "User", ferr.Type)
		assert.Equal(t, "email", ferr.Field)
		assert.False(t, ferr.Declared)
	}

	_, err = kevin.Get("password")
	var ferr *oaserrors.FieldNotSetError
	require.ErrorAs(t, err, &ferr)
	assert.True(t, ferr.Declared)

	assert.Equal(t, 2, kevin.Len(), "failed reads do not change the model")

	name, err := kevin.Get("username")
	require.NoError(t, err)
	assert.Equal(t, "kevin", name.Raw())
}

func TestModelMissingRequired(t *testing.T) {
	b, r := newBuilder(t, testutil.UserYAML)

	user, err := r.ResolveSchema("#/definitions/User")
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  map[string]any
	}{
		{name: "absent", raw: map[string]any{"username": "nobody"}},
		{name: "nil", raw: map[string]any{"id": nil, "username": "kevin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.BuildAt("body", user, tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, oaserrors.ErrValidation))
			var verr *oaserrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "body", verr.Path)
			assert.Contains(t, verr.Message, "missing required fields [id] of User")
		})
	}
}

func TestModelNilRequiredFallsBack(t *testing.T) {
	b, r := newBuilder(t, testutil.UserYAML)

	user, err := r.ResolveSchema("#/definitions/User")
	require.NoError(t, err)

	v, err := b.BuildAt("body", user, map[string]any{"id": 1, "username": "mary", "email": nil})
	require.NoError(t, err)
	model, ok := v.(*Model)
	require.True(t, ok)
	assert.Equal(t, "User", model.SubType())
	assert.True(t, model.Has("id"))
	assert.False(t, model.Has("email"))
}

func TestModelFieldValidation(t *testing.T) {
	b, r := newBuilder(t, testutil.UserYAML)

	user, err := r.ResolveSchema("#/definitions/User")
	require.NoError(t, err)

	_, err = b.BuildAt("body", user, map[string]any{
		"id": 2, "username": "mary", "email": "not-an-email",
	})
	var verr *oaserrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "body.email", verr.Path)

	_, err = b.BuildAt("body", user, map[string]any{"id": "2", "username": "mary"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "body.id", verr.Path)
}

func TestModelDiscriminator(t *testing.T) {
	b, r := newBuilder(t, testutil.UserYAML)

	animal, err := r.ResolveSchema("#/definitions/Animal")
	require.NoError(t, err)

	tests := []struct {
		raw      map[string]any
		wantType string
		wantSet  []string
	}{
		{map[string]any{"kind": "Dog", "bark": true}, "Dog", []string{"kind", "bark"}},
		{map[string]any{"kind": "Cat", "bark": true, "lives": 9}, "Cat", []string{"kind", "lives"}},
		{map[string]any{"kind": "Animal", "lives": 9}, "Animal", []string{"kind"}},
	}

	for _, tt := range tests {
		t.Run(tt.wantType, func(t *testing.T) {
			v, err := b.Build(animal, tt.raw)
			require.NoError(t, err)
			m := v.(*Model)
			assert.Equal(t, tt.wantType, m.SubType())
			assert.Equal(t, tt.wantSet, m.Fields())
		})
	}
}

func TestModelFromTypedMap(t *testing.T) {
	b, r := newBuilder(t, testutil.PetstoreYAML)

	category, err := r.ResolveSchema("#/definitions/Category")
	require.NoError(t, err)

	v, err := b.Build(category, map[string]string{"name": "dogs"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "dogs"}, v.Raw())

	_, err = b.Build(category, map[int]string{1: "dogs"})
	assert.True(t, errors.Is(err, oaserrors.ErrValidation))
}
