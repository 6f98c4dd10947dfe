package directive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabouaram/modforge/directive"
)

func TestNewRecordStripsDataPrefix(t *testing.T) {
	r := directive.NewRecord(1, directive.KindFromArchive, []string{"arc1", "Data/foo.esp"}, "Data/foo.esp", 100, "")
	assert.Equal(t, "foo.esp", r.To)
}

func TestValidate(t *testing.T) {
	r := directive.NewRecord(1, directive.KindFromArchive, nil, "foo.esp", 10, "")
	require.Error(t, r.Validate())

	r2 := directive.NewRecord(2, directive.KindFromArchive, []string{"arc1", "foo.esp"}, "", 10, "")
	require.Error(t, r2.Validate())

	r3 := directive.NewRecord(3, directive.KindFromArchive, []string{"arc1", "foo.esp"}, "foo.esp", 10, "")
	assert.NoError(t, r3.Validate())
}

func TestStatusTransitions(t *testing.T) {
	r := directive.NewRecord(1, directive.KindFromArchive, []string{"a", "b"}, "b", 1, "")
	assert.Equal(t, directive.StatusPending, r.Status())

	require.NoError(t, r.SetStatus(directive.StatusInFlight))
	require.NoError(t, r.SetStatus(directive.StatusDone))

	// Done is terminal: further transitions are rejected.
	assert.Error(t, r.SetStatus(directive.StatusInFlight))
}

func TestSetFailedThenRetry(t *testing.T) {
	r := directive.NewRecord(1, directive.KindFromArchive, []string{"a", "b"}, "b", 1, "")
	require.NoError(t, r.SetStatus(directive.StatusInFlight))
	require.NoError(t, r.SetFailed(directive.ErrorMissingArchive))

	assert.Equal(t, directive.StatusFailed, r.Status())
	assert.Equal(t, 1, r.AttemptCount())
	assert.Equal(t, directive.ErrorMissingArchive, r.FailReason())

	require.NoError(t, r.Retry())
	assert.Equal(t, directive.StatusPending, r.Status())

	// A non-failed record cannot be retried.
	assert.Error(t, r.Retry())
}

func TestNestingDepthClassification(t *testing.T) {
	whole := directive.NewRecord(1, directive.KindFromArchive, []string{"arc1"}, "foo.dll", 100, "")
	assert.Equal(t, 1, whole.NestingDepth())

	simple := directive.NewRecord(2, directive.KindFromArchive, []string{"arc1", "foo.esp"}, "foo.esp", 10, "")
	assert.Equal(t, 2, simple.NestingDepth())

	nested := directive.NewRecord(3, directive.KindFromArchive, []string{"arc1", "textures.bsa", "foo.dds"}, "foo.dds", 10, "")
	assert.Equal(t, 3, nested.NestingDepth())
	assert.Equal(t, "textures.bsa", nested.InnerArchiveEntry())
}

func TestKindParsing(t *testing.T) {
	assert.Equal(t, directive.KindFromArchive, directive.ParseKind("fromarchive"))
	assert.Equal(t, directive.KindCreateBSA, directive.ParseKind("CreateBSA"))
	assert.Equal(t, directive.KindNone, directive.ParseKind("bogus"))
	assert.True(t, directive.KindFromArchive.RequiresArchive())
	assert.False(t, directive.KindWholeFile.RequiresArchive())
}
