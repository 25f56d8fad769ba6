package override

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mallorcart/catalog-sync/internal/catalog"
)

func TestApplyPrecedence(t *testing.T) {
	m := Map{"A1": "override", "A2": ""}

	assert.Equal(t, "override", m.Apply("A1", "ingested"))

	// Empty override means "no opinion", never "clear the field".
	assert.Equal(t, "ingested", m.Apply("A2", "ingested"))
	assert.Equal(t, "ingested", m.Apply("A3", "ingested"))

	// Nil maps are usable.
	var nilMap Map
	assert.Equal(t, "ingested", nilMap.Apply("A1", "ingested"))
}

func TestLoadAbsentFile(t *testing.T) {
	m := Load(filepath.Join(t.TempDir(), "coll.json"), nil)
	require.NotNil(t, m)
	assert.Empty(t, m)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coll.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	m := Load(path, nil)
	require.NotNil(t, m)
	assert.Empty(t, m)
}

func TestLoadValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coll.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"A001": "8412345000019"}`), 0o644))

	m := Load(path, nil)
	assert.Equal(t, "8412345000019", m["A001"])
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ean"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "ean", "coll.json"),
		[]byte(`{"A001": "123"}`), 0o644))

	centers := catalog.DefaultCenters()
	set := LoadDir(dir, centers, nil)

	ean, images := set.ForCenter("coll")
	assert.Equal(t, "123", ean["A001"])
	assert.Empty(t, images)

	// Centers without files get empty, usable maps.
	ean, images = set.ForCenter("calvia")
	assert.Empty(t, ean)
	assert.Empty(t, images)

	// A nil set behaves like an empty one.
	var nilSet *Set
	ean, images = nilSet.ForCenter("coll")
	assert.Equal(t, "fallback", ean.Apply("A001", "fallback"))
	assert.Equal(t, "fallback", images.Apply("A001", "fallback"))
}
