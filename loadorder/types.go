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

// Package loadorder linearizes mods from a partial-order rule set: four
// independent orderings of the mod list (DFS, Kahn, plugin, collection)
// are combined by a weighted sum and resolved to a final deterministic
// order by a second Kahn pass.
package loadorder

// RuleKind is the direction of one ordering rule.
type RuleKind uint8

const (
	RuleBefore RuleKind = iota
	RuleAfter
)

// Rule is one ordering constraint. SourceRef/TargetRef resolve to a Mod by
// logical name first, then by MD5.
type Rule struct {
	Kind      RuleKind
	SourceRef string
	TargetRef string
}

// Mod is one load-order participant.
type Mod struct {
	ID          string
	LogicalName string
	FolderName  string
	MD5         string
	// Plugins is the set of plugin file names this mod owns, used by the
	// Kahn and plugin-order rankings' position tiebreaker.
	Plugins []string
}

// Fixed combine-rank coefficients applied to the four orderings.
const (
	WeightDFS        = 2.0
	WeightKahn       = 2.0
	WeightPlugin     = 1.5
	WeightCollection = 0.5
)

// Result is Compute's output.
type Result struct {
	// Order is the final mod order, combined-rank Kahn pass output.
	Order []Mod
	// Warnings records non-fatal conditions (rule-graph cycles broken
	// during the DFS or Kahn passes).
	Warnings []string
}
