// Copyright 2025 The ARElight Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sampling

import (
	"strings"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/entity"
)

// Role distinguishes the two paired entities within a rendered context.
type Role int

const (
	// RoleSource marks the relation's source entity.
	RoleSource Role = iota
	// RoleTarget marks the relation's target entity.
	RoleTarget
)

// FormatterKind discriminates the entity rendering strategies.
type FormatterKind int

const (
	// FormatSharpPrefixed renders the entity surface string prefixed
	// with "#" markers by role.
	FormatSharpPrefixed FormatterKind = iota
	// FormatTypeMask replaces the entity with a role/type mask token.
	FormatTypeMask
	// FormatCustom delegates to a caller-supplied function.
	FormatCustom
)

// EntityFormatter renders a paired entity into the textA view.
type EntityFormatter struct {
	kind FormatterKind
	fn   func(e entity.Entity, role Role) string
}

// SharpPrefixedFormatter renders entities as "#S value" / "#T value",
// keeping the surface string visible to the model.
func SharpPrefixedFormatter() EntityFormatter {
	return EntityFormatter{kind: FormatSharpPrefixed}
}

// TypeMaskFormatter replaces entities with "[S-TYPE]" / "[T-TYPE]"
// mask tokens.
func TypeMaskFormatter() EntityFormatter {
	return EntityFormatter{kind: FormatTypeMask}
}

// CustomFormatter delegates rendering to fn.
func CustomFormatter(fn func(e entity.Entity, role Role) string) EntityFormatter {
	return EntityFormatter{kind: FormatCustom, fn: fn}
}

// Kind reports the rendering strategy.
func (f EntityFormatter) Kind() FormatterKind { return f.kind }

// Render produces the textA token for a paired entity.
func (f EntityFormatter) Render(e entity.Entity, role Role) string {
	switch f.kind {
	case FormatTypeMask:
		if role == RoleSource {
			return "[S-" + e.Type + "]"
		}
		return "[T-" + e.Type + "]"
	case FormatCustom:
		return f.fn(e, role)
	default:
		if role == RoleSource {
			return "#S " + e.Value
		}
		return "#T " + e.Value
	}
}

// TextBTemplate parameterizes the optional second text view by the two
// entity surface strings. An empty template means single-text rows.
type TextBTemplate string

const (
	// TemplateNLI is the entailment-style hypothesis template.
	TemplateNLI TextBTemplate = "{source} to {target} in the given context"
	// TemplateQA is the question-answering-style template.
	TemplateQA TextBTemplate = "What is the attitude of {source} toward {target} ?"
)

// Render substitutes the entity surface strings into the template.
func (t TextBTemplate) Render(source, target string) string {
	s := strings.ReplaceAll(string(t), "{source}", source)
	return strings.ReplaceAll(s, "{target}", target)
}
