package archivefmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sabouaram/modforge/archivefmt"
)

func TestDetectByMagic(t *testing.T) {
	assert.Equal(t, archivefmt.FormatZip, archivefmt.Detect([]byte{0x50, 0x4b, 0x03, 0x04, 0, 0}, ""))
	assert.Equal(t, archivefmt.FormatSevenZip, archivefmt.Detect([]byte{0x37, 0x7a, 0xbc, 0xaf, 0x27, 0x1c}, ""))
	assert.Equal(t, archivefmt.FormatRar, archivefmt.Detect([]byte{0x52, 0x61, 0x72, 0x21, 0x1a, 0x07, 0x01, 0x00}, ""))
	assert.Equal(t, archivefmt.FormatBA2, archivefmt.Detect([]byte("BTDX sentinel"), ""))
}

func TestDetectFallsBackToExtension(t *testing.T) {
	assert.Equal(t, archivefmt.FormatBSA, archivefmt.Detect(nil, ".bsa"))
	assert.Equal(t, archivefmt.FormatUnknown, archivefmt.Detect(nil, ".xyz"))
}

func TestTypeBaseOrdering(t *testing.T) {
	assert.Less(t, archivefmt.FormatZip.TypeBase(), archivefmt.FormatBSA.TypeBase())
	assert.Less(t, archivefmt.FormatBSA.TypeBase(), archivefmt.FormatRar.TypeBase())
	assert.Less(t, archivefmt.FormatRar.TypeBase(), archivefmt.FormatSevenZip.TypeBase())
	assert.Less(t, archivefmt.FormatSevenZip.TypeBase(), archivefmt.FormatUnknown.TypeBase())
}
