// Copyright 2025 walteh LLC
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

// Package actions holds the text transformations applied to in-scope
// segments of a view.
package actions

import (
	"github.com/walteh/scopegrep/pkg/german"
	"github.com/walteh/scopegrep/pkg/scoping"
	"gitlab.com/tozd/go/errors"
)

// ErrConfig marks an action combination that is rejected before any input
// is read
var ErrConfig = errors.Base("invalid action configuration")

// 🔧 Options selects the actions of a run
type Options struct {
	// Replacement is the raw replacement template; nil means no replacement
	Replacement *string
	// Groups are the capture groups the final scope can produce. When set,
	// the replacement is checked against them up front.
	Groups []scoping.CaptureGroup

	Delete    bool
	Squeeze   bool
	Upper     bool
	Lower     bool
	Titlecase bool
	Normalize bool
	Symbols   bool
	// Invert turns Symbols into its inverse; other actions ignore it
	Invert bool

	German               bool
	GermanPreferOriginal bool
	GermanNaive          bool
	// GermanWords is consulted instead of the embedded word list when set
	GermanWords german.Oracle
}

// Any reports whether at least one action, squeeze included, was requested
func (o Options) Any() bool {
	return o.Replacement != nil || o.Delete || o.Squeeze || o.Upper || o.Lower ||
		o.Titlecase || o.Normalize || o.Symbols || o.German
}

// ✅ Validate rejects combinations that cannot be applied. scoped reports
// whether the caller narrowed the input with an explicit scope.
func (o Options) Validate(scoped bool) error {
	switch {
	case o.Delete && !scoped:
		return errors.Errorf("%w: deleting requires an explicit scope, refusing to delete everything", ErrConfig)
	case o.Squeeze && !scoped:
		return errors.Errorf("%w: squeezing requires an explicit scope", ErrConfig)
	case o.Delete && o.Replacement != nil:
		return errors.Errorf("%w: cannot delete and replace at the same time", ErrConfig)
	case o.Upper && o.Lower:
		return errors.Errorf("%w: cannot convert to upper and lower case at the same time", ErrConfig)
	}
	return nil
}

// 🏭 Build validates o and returns the actions in pipeline order: replace,
// german, symbols, normalize, titlecase, lower, upper, delete. Squeeze works
// on the view rather than on segment text and is left to the caller.
func Build(o Options, scoped bool) ([]scoping.Action, error) {
	if err := o.Validate(scoped); err != nil {
		return nil, err
	}

	var pipeline []scoping.Action

	if o.Replacement != nil {
		r, err := NewReplace(*o.Replacement, o.Groups)
		if err != nil {
			return nil, errors.Errorf("%w: %s", ErrConfig, err.Error())
		}
		pipeline = append(pipeline, r)
	}
	if o.German {
		pipeline = append(pipeline, NewGerman(o.GermanWords, o.GermanPreferOriginal, o.GermanNaive))
	}
	if o.Symbols {
		if o.Invert {
			pipeline = append(pipeline, SymbolsInversion{})
		} else {
			pipeline = append(pipeline, Symbols{})
		}
	}
	if o.Normalize {
		pipeline = append(pipeline, Normalize{})
	}
	if o.Titlecase {
		pipeline = append(pipeline, Titlecase{})
	}
	if o.Lower {
		pipeline = append(pipeline, Lower{})
	}
	if o.Upper {
		pipeline = append(pipeline, Upper{})
	}
	if o.Delete {
		pipeline = append(pipeline, Delete{})
	}

	return pipeline, nil
}
