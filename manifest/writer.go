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

// Package manifest writes the three ordering output files: modlist.txt
// (mods in load order), plugins.txt and loadorder.txt (plugins, base-game
// entries first). All three are plain line-oriented text, so the writer
// uses bufio directly.
package manifest

import (
	"bufio"
	"os"
	"path/filepath"

	liberr "github.com/sabouaram/modforge/errors"
)

// ModEntry is one modlist.txt line.
type ModEntry struct {
	Name    string
	Enabled bool
}

// PluginEntry is one plugins.txt/loadorder.txt line.
type PluginEntry struct {
	Name    string
	Enabled bool
}

// WriteOptions configures Write.
type WriteOptions struct {
	OutputDir string
	// Mods is the final load order (loadorder.Result.Order, projected to
	// name+enabled by the caller).
	Mods []ModEntry
	// Plugins is the plugin-sorter collaborator's output, written
	// verbatim.
	Plugins []PluginEntry
	// BaseGamePlugins is the fixed list prepended ahead of Plugins, always
	// enabled; base-game entries always come first.
	BaseGamePlugins []string
}

// Write emits modlist.txt, plugins.txt and loadorder.txt under
// opt.OutputDir.
func Write(opt WriteOptions) liberr.Error {
	if err := writeModlist(filepath.Join(opt.OutputDir, "modlist.txt"), opt.Mods); err != nil {
		return ErrorWriteManifest.Error(err)
	}

	for _, name := range []string{"plugins.txt", "loadorder.txt"} {
		if err := writePlugins(filepath.Join(opt.OutputDir, name), opt.BaseGamePlugins, opt.Plugins); err != nil {
			return ErrorWriteManifest.Error(err)
		}
	}

	return nil
}

// writeModlist writes one mod per line, enabled mods prefixed with "+",
// disabled mods with "-", base-game-entry convention handled by the caller
// supplying them first in mods.
func writeModlist(path string, mods []ModEntry) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	for _, m := range mods {
		prefix := "-"
		if m.Enabled {
			prefix = "+"
		}
		if _, err := w.WriteString(prefix + m.Name + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

// writePlugins writes baseGame's entries first (always enabled, "*"
// prefixed), then plugins in order, enabled ones "*" prefixed and disabled
// ones unprefixed.
func writePlugins(path string, baseGame []string, plugins []PluginEntry) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	for _, name := range baseGame {
		if _, err := w.WriteString("*" + name + "\n"); err != nil {
			return err
		}
	}
	for _, p := range plugins {
		prefix := ""
		if p.Enabled {
			prefix = "*"
		}
		if _, err := w.WriteString(prefix + p.Name + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
