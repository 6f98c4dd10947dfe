package bundle_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabouaram/modforge/bundle"
	"github.com/sabouaram/modforge/directive"
)

const validManifest = `{
  "game": "SkyrimSE",
  "outputDir": "out",
  "archives": [{"hash": "arch1", "name": "mod.zip", "size": 10}],
  "directives": [
    {"id": 1, "type": "FromArchive", "archiveHashPath": ["arch1", "foo.esp"], "to": "foo.esp", "size": 4, "hash": "abc"},
    {"id": 2, "type": "Inline", "to": "config.ini", "inlineData": "aGVsbG8="}
  ],
  "mods": [{"id": "m1", "folder": "Mod One", "plugins": ["foo.esp"]}],
  "rules": [{"type": "before", "source": "m1", "target": "m2"}]
}`

func TestDecodeValidManifest(t *testing.T) {
	m, err := bundle.Decode(strings.NewReader(validManifest))
	require.Nil(t, err)
	require.NotNil(t, m)

	assert.Equal(t, "SkyrimSE", m.Game)
	require.Len(t, m.Directives, 2)
	assert.Equal(t, directive.KindFromArchive, m.Directives[0].Kind)
	assert.Equal(t, directive.KindInline, m.Directives[1].Kind)
	assert.Equal(t, []byte("hello"), m.Directives[1].InlineData)
}

func TestDecodeDuplicateDirectiveIDFails(t *testing.T) {
	body := `{
	  "game": "SkyrimSE",
	  "outputDir": "out",
	  "directives": [
	    {"id": 1, "type": "FromArchive", "archiveHashPath": ["arch1", "foo.esp"], "to": "a.esp", "size": 1},
	    {"id": 1, "type": "FromArchive", "archiveHashPath": ["arch1", "bar.esp"], "to": "b.esp", "size": 1}
	  ]
	}`

	_, err := bundle.Decode(strings.NewReader(body))
	require.NotNil(t, err)
}

func TestDecodeDuplicateDestinationFails(t *testing.T) {
	body := `{
	  "game": "SkyrimSE",
	  "outputDir": "out",
	  "directives": [
	    {"id": 1, "type": "FromArchive", "archiveHashPath": ["arch1", "foo.esp"], "to": "Data/foo.esp", "size": 1},
	    {"id": 2, "type": "FromArchive", "archiveHashPath": ["arch1", "bar.esp"], "to": "foo.esp", "size": 1}
	  ]
	}`

	_, err := bundle.Decode(strings.NewReader(body))
	require.NotNil(t, err)
}

func TestDecodeMissingRequiredFieldFails(t *testing.T) {
	body := `{"outputDir": "out", "directives": []}`

	_, err := bundle.Decode(strings.NewReader(body))
	require.NotNil(t, err)
}

func TestManifestRecords(t *testing.T) {
	m, err := bundle.Decode(strings.NewReader(validManifest))
	require.Nil(t, err)

	recs := m.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, uint64(1), recs[0].ID)
	assert.Equal(t, directive.KindInline, recs[1].Kind)
	assert.Equal(t, []byte("hello"), recs[1].InlineData)
}
