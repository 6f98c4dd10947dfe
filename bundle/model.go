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

// Package bundle decodes the JSON bundle manifest that is the core's
// input: the directive list plus the archive and load-order records that
// travel alongside it. Struct tags carry json keys only (only JSON
// decoding is wired here), and go-playground/validator performs the
// struct-tag validation.
package bundle

import (
	"github.com/sabouaram/modforge/directive"
)

// ArchiveRef is one archive this bundle depends on: the opaque archive-id
// (content hash or collection digest) and the collaborator-visible
// metadata needed to locate/verify it before the pipeline starts.
type ArchiveRef struct {
	ID       string `json:"hash" validate:"required"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Meta     string `json:"meta,omitempty"`
}

// DirectiveDoc is the wire shape of one directive, decoded into a
// directive.Record by ToRecord.
type DirectiveDoc struct {
	ID              uint64             `json:"id" validate:"required"`
	Kind            directive.Kind     `json:"type" validate:"required"`
	ArchiveHashPath []string           `json:"archiveHashPath,omitempty"`
	To              string             `json:"to,omitempty"`
	Size            int64              `json:"size"`
	Hash            string             `json:"hash,omitempty"`
	Members         []directive.Member `json:"members,omitempty"`
	ArchiveType     string             `json:"archiveType,omitempty"`
	Compression     string             `json:"compression,omitempty"`

	// InlineData is the literal content of a KindInline directive.
	// encoding/json base64-encodes/decodes []byte fields natively, so the
	// manifest carries it as an ordinary JSON string.
	InlineData []byte `json:"inlineData,omitempty"`
}

// ModDoc is one mod participating in load-order generation.
type ModDoc struct {
	ID          string   `json:"id" validate:"required"`
	LogicalName string   `json:"name"`
	FolderName  string   `json:"folder" validate:"required"`
	MD5         string   `json:"md5,omitempty"`
	Plugins     []string `json:"plugins,omitempty"`
}

// RuleDoc is one load-order ordering rule.
type RuleDoc struct {
	Kind   string `json:"type" validate:"required,oneof=before after"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// Manifest is the decoded bundle manifest: every directive, the archives
// they reference, and the mod/rule inputs to the load-order generator.
// XML-based optional-installer configuration never reaches this decoder; a
// manifest that arrives here has already had any such choices expanded
// into concrete directives by the embedding application.
type Manifest struct {
	Game       string       `json:"game" validate:"required"`
	OutputDir  string       `json:"outputDir" validate:"required"`
	Archives   []ArchiveRef `json:"archives"`
	Directives []DirectiveDoc `json:"directives" validate:"required,dive"`
	Mods       []ModDoc     `json:"mods"`
	Rules      []RuleDoc    `json:"rules"`
}

// ToRecord converts one decoded DirectiveDoc into a directive.Record,
// applying the same destination-prefix normalization directive.NewRecord
// performs for directives built by hand.
func (d DirectiveDoc) ToRecord() *directive.Record {
	rec := directive.NewRecord(d.ID, d.Kind, d.ArchiveHashPath, d.To, d.Size, d.Hash)
	rec.Members = d.Members
	rec.ArchiveType = d.ArchiveType
	rec.Compression = d.Compression
	rec.InlineData = d.InlineData
	return rec
}
