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

package install

import (
	"github.com/sabouaram/modforge/bundle"
	liberr "github.com/sabouaram/modforge/errors"
	"github.com/sabouaram/modforge/loadorder"
	"github.com/sabouaram/modforge/manifest"
	"github.com/sabouaram/modforge/pipeline"
)

// runManifest implements phase 5: the load-order generator computes the
// final mod order, the plugin-sorter collaborator orders plugins, and
// manifest.Write emits modlist.txt/plugins.txt/loadorder.txt.
func (c *Core) runManifest() (pipeline.PhaseSummary, liberr.Error) {
	summary := pipeline.PhaseSummary{Phase: pipeline.PhaseManifest}

	mods, rules := toLoadOrderInputs(c.opt.Manifest)
	pluginNames := collectPlugins(mods)

	sortedPlugins, err := c.opt.Plugins.Sort(c.opt.Manifest.Game, c.opt.DataSearchPaths, pluginNames)
	if err != nil {
		summary.Fatal = false
		summary.FailedCount++
		return summary, ErrorPluginSort.Error(err)
	}

	result, err := loadorder.Compute(mods, rules, sortedPlugins)
	if err != nil {
		summary.FailedCount++
		return summary, ErrorPluginSort.Error(err)
	}
	summary.DirectiveCount = len(result.Order)
	summary.DoneCount = len(result.Order)

	modEntries := make([]manifest.ModEntry, 0, len(result.Order))
	for _, m := range result.Order {
		modEntries = append(modEntries, manifest.ModEntry{Name: m.FolderName, Enabled: true})
	}

	pluginEntries := make([]manifest.PluginEntry, 0, len(sortedPlugins))
	for _, p := range sortedPlugins {
		pluginEntries = append(pluginEntries, manifest.PluginEntry{Name: p, Enabled: true})
	}

	werr := manifest.Write(manifest.WriteOptions{
		OutputDir:       c.opt.OutputDir,
		Mods:            modEntries,
		Plugins:         pluginEntries,
		BaseGamePlugins: c.opt.BaseGamePlugins,
	})
	if werr != nil {
		summary.FailedCount++
		return summary, ErrorWriteManifest.Error(werr)
	}

	return summary, nil
}

func toLoadOrderInputs(m *bundle.Manifest) ([]loadorder.Mod, []loadorder.Rule) {
	mods := make([]loadorder.Mod, 0, len(m.Mods))
	for _, md := range m.Mods {
		mods = append(mods, loadorder.Mod{
			ID:          md.ID,
			LogicalName: md.LogicalName,
			FolderName:  md.FolderName,
			MD5:         md.MD5,
			Plugins:     md.Plugins,
		})
	}

	rules := make([]loadorder.Rule, 0, len(m.Rules))
	for _, rd := range m.Rules {
		kind := loadorder.RuleBefore
		if rd.Kind == "after" {
			kind = loadorder.RuleAfter
		}
		rules = append(rules, loadorder.Rule{Kind: kind, SourceRef: rd.Source, TargetRef: rd.Target})
	}

	return mods, rules
}

func collectPlugins(mods []loadorder.Mod) []string {
	var out []string
	for _, m := range mods {
		out = append(out, m.Plugins...)
	}
	return out
}
