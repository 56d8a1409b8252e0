package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasbind/document"
)

func TestFixturesParse(t *testing.T) {
	fixtures := map[string]string{
		"path_item": PathItemYAML,
		"other":     OtherYAML,
		"deref":     DerefYAML,
		"cross":     CrossMainYAML,
		"cross2":    CrossOtherYAML,
		"cycle":     CycleYAML,
		"user":      UserYAML,
		"petstore":  PetstoreYAML,
	}
	for name, data := range fixtures {
		t.Run(name, func(t *testing.T) {
			doc, err := document.Parse(name, []byte(data))
			require.NoError(t, err)
			assert.NotEmpty(t, doc.Root)
		})
	}
}

func TestNewStore(t *testing.T) {
	store := NewStore(t, []string{"main.yaml", "other.yaml"}, map[string]string{
		"main.yaml":  CrossMainYAML,
		"other.yaml": CrossOtherYAML,
	})
	require.NotNil(t, store.Main())
	assert.Equal(t, "main.yaml", store.Main().Locator)
	assert.ElementsMatch(t, []string{"main.yaml", "other.yaml"}, store.Locators())
}

func TestNewSingleStore(t *testing.T) {
	store := NewSingleStore(t, "petstore.yaml", PetstoreYAML)
	v, err := store.Lookup(document.MustParsePointer("#/info/title"))
	require.NoError(t, err)
	assert.Equal(t, "petstore", v)
}

func TestWriteTempFile(t *testing.T) {
	dir := WriteTempFile(t, "nested/api.yaml", UserYAML)

	data, err := os.ReadFile(filepath.Join(dir, "nested", "api.yaml"))
	require.NoError(t, err)
	assert.Equal(t, UserYAML, string(data))
}
