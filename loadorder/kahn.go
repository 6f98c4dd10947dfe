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
	"container/heap"
	"fmt"
	"sort"
)

// kahnItem is one zero-in-degree candidate waiting in the frontier,
// ordered by priority then folder name for full determinism.
type kahnItem struct {
	id       string
	priority float64
	folder   string
}

type kahnHeap []kahnItem

func (h kahnHeap) Len() int { return len(h) }
func (h kahnHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].folder < h[j].folder
}
func (h kahnHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *kahnHeap) Push(x interface{}) { *h = append(*h, x.(kahnItem)) }
func (h *kahnHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// kahnSort runs Kahn's algorithm over g, holding the zero-in-degree
// frontier in a priority queue keyed by priority(id) with a folder-name
// tiebreaker; it serves both the standalone Kahn ranking and the final
// combined-rank pass. If a
// rule-graph cycle leaves nodes permanently above zero in-degree, the
// remaining node with the lowest in-degree is forced into the frontier and
// a warning is recorded, the same cycle-tolerance contract dfsSort applies.
func kahnSort(g *graph, priority func(id string) float64) ([]Mod, []string) {
	inDegree := make(map[string]int, len(g.mods))
	remaining := make(map[string]bool, len(g.mods))
	for _, m := range g.mods {
		inDegree[m.ID] = len(g.predecessors[m.ID])
		remaining[m.ID] = true
	}

	h := make(kahnHeap, 0, len(g.mods))
	for _, m := range g.mods {
		if inDegree[m.ID] == 0 {
			h = append(h, kahnItem{id: m.ID, priority: priority(m.ID), folder: m.FolderName})
			delete(remaining, m.ID)
		}
	}
	heap.Init(&h)

	var warnings []string
	order := make([]Mod, 0, len(g.mods))
	release := func(id string) {
		order = append(order, g.modByID(id))

		succs := make([]string, 0, len(g.successors[id]))
		for s := range g.successors[id] {
			succs = append(succs, s)
		}
		sort.Strings(succs)

		for _, s := range succs {
			if !remaining[s] {
				continue
			}
			inDegree[s]--
			if inDegree[s] <= 0 {
				heap.Push(&h, kahnItem{id: s, priority: priority(s), folder: g.modByID(s).FolderName})
				delete(remaining, s)
			}
		}
	}

	for h.Len() > 0 || len(remaining) > 0 {
		if h.Len() == 0 {
			// Cycle remnant: every remaining node still has predecessors
			// also stuck in the cycle. Force the lowest in-degree one in,
			// tie-broken by folder name, and warn.
			var forced string
			for id := range remaining {
				if forced == "" || inDegree[id] < inDegree[forced] ||
					(inDegree[id] == inDegree[forced] && g.modByID(id).FolderName < g.modByID(forced).FolderName) {
					forced = id
				}
			}
			warnings = append(warnings, fmt.Sprintf(
				"load order rule cycle broken at %q during final ordering pass", g.modByID(forced).FolderName))
			delete(remaining, forced)
			release(forced)
			continue
		}

		it := heap.Pop(&h).(kahnItem)
		release(it.id)
	}

	return order, warnings
}
