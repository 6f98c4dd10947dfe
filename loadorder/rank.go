/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package loadorder

import (
	"math"
	"sort"
)

// pluginPositions maps each plugin name in sortedPlugins (the plugin-sorter
// collaborator's output) to its index.
func pluginPositions(sortedPlugins []string) map[string]int {
	pos := make(map[string]int, len(sortedPlugins))
	for i, p := range sortedPlugins {
		pos[p] = i
	}
	return pos
}

// minPluginPosition is the plugin-position tiebreaker: the minimum plugin
// position across plugins owned by the mod, or +Inf if it owns none (or
// owns only plugins absent from the sorted list), so plugin-less mods
// trail.
func minPluginPosition(m Mod, pos map[string]int) float64 {
	best := math.Inf(1)
	for _, p := range m.Plugins {
		if i, ok := pos[p]; ok && float64(i) < best {
			best = float64(i)
		}
	}
	return best
}

// pluginOrderRank is the third ordering: mods ranked by their plugin
// tiebreaker alone; mods with no plugins trail, alphabetically by folder
// name among themselves.
func pluginOrderRank(mods []Mod, pos map[string]int) []Mod {
	ranked := make([]Mod, len(mods))
	copy(ranked, mods)

	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := minPluginPosition(ranked[i], pos), minPluginPosition(ranked[j], pos)
		if pi != pj {
			return pi < pj
		}
		return ranked[i].FolderName < ranked[j].FolderName
	})
	return ranked
}

// positionIndex builds id -> index-in-order for a computed ranking.
func positionIndex(order []Mod) map[string]int {
	idx := make(map[string]int, len(order))
	for i, m := range order {
		idx[m.ID] = i
	}
	return idx
}

// Compute runs the whole generator: four independent orderings (DFS, Kahn,
// plugin, collection) are each reduced to a per-mod position, combined by
// the fixed weights, and resolved to a final deterministic order by a
// second Kahn pass keyed on the combined rank.
func Compute(mods []Mod, rules []Rule, sortedPlugins []string) (Result, error) {
	g, err := buildGraph(mods, rules)
	if err != nil {
		return Result{}, err
	}

	pos := pluginPositions(sortedPlugins)

	dfsOrder, dfsWarnings := dfsSort(g)
	kahnOrder, kahnWarnings := kahnSort(g, func(id string) float64 {
		return minPluginPosition(g.modByID(id), pos)
	})
	pluginOrder := pluginOrderRank(mods, pos)

	dfsPos := positionIndex(dfsOrder)
	kahnPos := positionIndex(kahnOrder)
	pluginPos := positionIndex(pluginOrder)

	combined := make(map[string]float64, len(mods))
	for i, m := range mods {
		combined[m.ID] = WeightDFS*float64(dfsPos[m.ID]) +
			WeightKahn*float64(kahnPos[m.ID]) +
			WeightPlugin*float64(pluginPos[m.ID]) +
			WeightCollection*float64(i) // collection order: original declaration index
	}

	finalOrder, finalWarnings := kahnSort(g, func(id string) float64 {
		return combined[id]
	})

	warnings := append(append(dfsWarnings, kahnWarnings...), finalWarnings...)
	return Result{Order: finalOrder, Warnings: warnings}, nil
}
