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

// graph is the resolved rule graph over mod IDs: successors[n] are nodes n
// must rank before; predecessors[n] are nodes that must rank before n.
type graph struct {
	mods         []Mod
	byID         map[string]int // mod ID -> index in mods
	successors   map[string]map[string]bool
	predecessors map[string]map[string]bool
}

func buildGraph(mods []Mod, rules []Rule) (*graph, error) {
	g := &graph{
		mods:         mods,
		byID:         make(map[string]int, len(mods)),
		successors:   make(map[string]map[string]bool, len(mods)),
		predecessors: make(map[string]map[string]bool, len(mods)),
	}

	byLogicalName := make(map[string]string, len(mods))
	byMD5 := make(map[string]string, len(mods))

	for i, m := range mods {
		if _, dup := g.byID[m.ID]; dup {
			return nil, ErrorDuplicateModID.Error(nil)
		}
		g.byID[m.ID] = i
		g.successors[m.ID] = map[string]bool{}
		g.predecessors[m.ID] = map[string]bool{}

		if m.LogicalName != "" {
			byLogicalName[m.LogicalName] = m.ID
		}
		if m.MD5 != "" {
			byMD5[m.MD5] = m.ID
		}
	}

	resolve := func(ref string) (string, bool) {
		if id, ok := byLogicalName[ref]; ok {
			return id, true
		}
		if id, ok := byMD5[ref]; ok {
			return id, true
		}
		return "", false
	}

	for _, r := range rules {
		srcID, ok := resolve(r.SourceRef)
		if !ok {
			return nil, ErrorUnresolvedRef.Error(nil)
		}
		tgtID, ok := resolve(r.TargetRef)
		if !ok {
			return nil, ErrorUnresolvedRef.Error(nil)
		}

		// "before: src->tgt" means src ranks before tgt; "after: src->tgt"
		// means src ranks after tgt, i.e. tgt ranks before src.
		before, after := srcID, tgtID
		if r.Kind == RuleAfter {
			before, after = tgtID, srcID
		}

		g.successors[before][after] = true
		g.predecessors[after][before] = true
	}

	return g, nil
}

func (g *graph) modByID(id string) Mod {
	return g.mods[g.byID[id]]
}
