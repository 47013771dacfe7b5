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

package entity

// FilterKind discriminates the supported keep-filter strategies.
type FilterKind int

const (
	// FilterKeepAll keeps every detection.
	FilterKeepAll FilterKind = iota
	// FilterKeepTypes keeps detections whose object type is in a fixed set.
	FilterKeepTypes
	// FilterCustom delegates to a caller-supplied predicate.
	FilterCustom
)

// Filter decides which detections the extractor keeps. Dropping a
// detection is a supported feature, not an error. The zero value keeps
// everything.
type Filter struct {
	kind  FilterKind
	types map[string]struct{}
	fn    func(objectType string) bool
}

// KeepAll returns a filter that keeps every detection.
func KeepAll() Filter { return Filter{kind: FilterKeepAll} }

// KeepTypes returns a filter keeping only the listed object types.
func KeepTypes(types ...string) Filter {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return Filter{kind: FilterKeepTypes, types: set}
}

// KeepFunc returns a filter delegating to fn. A nil fn keeps everything.
func KeepFunc(fn func(objectType string) bool) Filter {
	if fn == nil {
		return KeepAll()
	}
	return Filter{kind: FilterCustom, fn: fn}
}

// Kind reports which strategy the filter uses.
func (f Filter) Kind() FilterKind { return f.kind }

// Keep reports whether a detection with the given object type survives.
func (f Filter) Keep(objectType string) bool {
	switch f.kind {
	case FilterKeepTypes:
		_, ok := f.types[objectType]
		return ok
	case FilterCustom:
		return f.fn(objectType)
	default:
		return true
	}
}
