package pathnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sabouaram/modforge/pathnorm"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		`Textures\Armor\Foo.dds`: "textures/armor/foo.dds",
		"/Meshes/Foo.nif/":       "meshes/foo.nif",
		"already/lower":          "already/lower",
		`Mixed\Case/Path`:        "mixed/case/path",
	}

	for in, want := range cases {
		assert.Equal(t, want, pathnorm.Normalize(in))
	}
}

func TestTrimSlashes(t *testing.T) {
	assert.Equal(t, "foo/bar", pathnorm.TrimSlashes("/foo/bar/"))
	assert.Equal(t, "foo/bar", pathnorm.TrimSlashes("foo/bar"))
}

func TestStripDataPrefix(t *testing.T) {
	assert.Equal(t, "foo.esp", pathnorm.StripDataPrefix("Data/foo.esp"))
	assert.Equal(t, "foo.esp", pathnorm.StripDataPrefix("data/foo.esp"))
	assert.Equal(t, "foo.esp", pathnorm.StripDataPrefix(`DATA\foo.esp`))
	assert.Equal(t, "textures/foo.dds", pathnorm.StripDataPrefix("textures/foo.dds"))
}

func TestBase(t *testing.T) {
	assert.Equal(t, "foo.esp", pathnorm.Base("Data/Plugins/foo.esp"))
	assert.Equal(t, "foo.esp", pathnorm.Base(`Data\Plugins\foo.esp`))
	assert.Equal(t, "foo.esp", pathnorm.Base("foo.esp"))
}
