package archivefmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sabouaram/modforge/archivefmt"
)

func TestSelectStrategy(t *testing.T) {
	// ZIP with 3 entries, all needed -> selective.
	assert.Equal(t, archivefmt.StrategySelective, archivefmt.Select(3, 3, true))

	// Solid 7z with 500 entries, 480 needed -> full, both on the ratio
	// (480/500=0.96) and on solid-7z having no random access.
	assert.Equal(t, archivefmt.StrategyFull, archivefmt.Select(480, 500, false))

	// Random access available but needed count crosses the absolute cap.
	assert.Equal(t, archivefmt.StrategyFull, archivefmt.Select(64, 1000, true))

	// Random access available, below both caps.
	assert.Equal(t, archivefmt.StrategySelective, archivefmt.Select(10, 1000, true))

	// No random access at all (RAR without seek table) always extracts full.
	assert.Equal(t, archivefmt.StrategyFull, archivefmt.Select(1, 1, false))
}
