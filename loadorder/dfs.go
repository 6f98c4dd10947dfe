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
	"fmt"
	"sort"
)

// dfsSort is the first of the four orderings: an iterative-by-entry-point,
// recursive-by-call-stack post-order DFS starting from the rule graph's
// sinks (nodes with no successors), walking toward predecessors. A cycle
// is broken by refusing to re-enter a node already on the current call
// stack, with a warning recorded rather than a hard failure. The raw
// post-order is reversed so sinks (highest priority) rank first.
func dfsSort(g *graph) ([]Mod, []string) {
	ids := make([]string, len(g.mods))
	for i, m := range g.mods {
		ids[i] = m.ID
	}
	sort.Slice(ids, func(i, j int) bool {
		iSink := len(g.successors[ids[i]]) == 0
		jSink := len(g.successors[ids[j]]) == 0
		if iSink != jSink {
			return iSink
		}
		return g.modByID(ids[i]).FolderName < g.modByID(ids[j]).FolderName
	})

	visited := make(map[string]bool, len(ids))
	onStack := make(map[string]bool, len(ids))
	postorder := make([]string, 0, len(ids))
	var warnings []string

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		onStack[id] = true

		preds := make([]string, 0, len(g.predecessors[id]))
		for p := range g.predecessors[id] {
			preds = append(preds, p)
		}
		sort.Slice(preds, func(i, j int) bool {
			return g.modByID(preds[i]).FolderName < g.modByID(preds[j]).FolderName
		})

		for _, p := range preds {
			if onStack[p] {
				warnings = append(warnings, fmt.Sprintf(
					"load order rule cycle broken between %q and %q",
					g.modByID(p).FolderName, g.modByID(id).FolderName))
				continue
			}
			visit(p)
		}

		onStack[id] = false
		visited[id] = true
		postorder = append(postorder, id)
	}

	for _, id := range ids {
		visit(id)
	}

	ranked := make([]Mod, len(postorder))
	for i, id := range postorder {
		ranked[len(postorder)-1-i] = g.modByID(id)
	}
	return ranked, warnings
}
