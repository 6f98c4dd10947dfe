package loadorder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sabouaram/modforge/loadorder"
)

func TestComputeRespectsBeforeAfterRules(t *testing.T) {
	mods := []loadorder.Mod{
		{ID: "1", LogicalName: "Unofficial Patch", FolderName: "USSEP"},
		{ID: "2", LogicalName: "Base Textures", FolderName: "Base Textures"},
		{ID: "3", LogicalName: "Texture Overhaul", FolderName: "Texture Overhaul"},
	}
	rules := []loadorder.Rule{
		{Kind: loadorder.RuleBefore, SourceRef: "Base Textures", TargetRef: "Texture Overhaul"},
		{Kind: loadorder.RuleAfter, SourceRef: "Unofficial Patch", TargetRef: "Base Textures"},
	}

	res, err := loadorder.Compute(mods, rules, nil)
	require.NoError(t, err)
	require.Len(t, res.Order, 3)

	pos := map[string]int{}
	for i, m := range res.Order {
		pos[m.ID] = i
	}

	require.Less(t, pos["2"], pos["3"], "Base Textures must precede Texture Overhaul")
	require.Less(t, pos["2"], pos["1"], "Unofficial Patch ranks after Base Textures")
}

func TestComputeIsDeterministic(t *testing.T) {
	mods := []loadorder.Mod{
		{ID: "a", LogicalName: "A", FolderName: "A", Plugins: []string{"a.esp"}},
		{ID: "b", LogicalName: "B", FolderName: "B", Plugins: []string{"b.esp"}},
		{ID: "c", LogicalName: "C", FolderName: "C"},
	}
	rules := []loadorder.Rule{
		{Kind: loadorder.RuleBefore, SourceRef: "A", TargetRef: "B"},
	}
	plugins := []string{"b.esp", "a.esp"}

	first, err := loadorder.Compute(mods, rules, plugins)
	require.NoError(t, err)
	second, err := loadorder.Compute(mods, rules, plugins)
	require.NoError(t, err)

	require.Equal(t, first.Order, second.Order)
}

func TestComputeToleratesCycle(t *testing.T) {
	mods := []loadorder.Mod{
		{ID: "1", LogicalName: "A", FolderName: "A"},
		{ID: "2", LogicalName: "B", FolderName: "B"},
		{ID: "3", LogicalName: "C", FolderName: "C"},
	}
	rules := []loadorder.Rule{
		{Kind: loadorder.RuleBefore, SourceRef: "A", TargetRef: "B"},
		{Kind: loadorder.RuleBefore, SourceRef: "C", TargetRef: "A"}, // C before A
		{Kind: loadorder.RuleBefore, SourceRef: "B", TargetRef: "C"}, // B before C, C before A, A before B: cycle
	}

	res, err := loadorder.Compute(mods, rules, nil)
	require.NoError(t, err)
	require.Len(t, res.Order, 3)
	require.NotEmpty(t, res.Warnings)
}

func TestComputeUnresolvedRefFails(t *testing.T) {
	mods := []loadorder.Mod{{ID: "1", LogicalName: "A", FolderName: "A"}}
	rules := []loadorder.Rule{{Kind: loadorder.RuleBefore, SourceRef: "A", TargetRef: "Ghost"}}

	_, err := loadorder.Compute(mods, rules, nil)
	require.Error(t, err)
}
