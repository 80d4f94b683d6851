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

package actions

import (
	"github.com/walteh/scopegrep/pkg/german"
	"github.com/walteh/scopegrep/pkg/scoping"
)

// 🇩🇪 German restores umlauts and eszett that were spelled out
type German struct {
	corrector *german.Corrector
}

func NewGerman(oracle german.Oracle, preferOriginal, naive bool) *German {
	return &German{corrector: german.NewCorrector(oracle, preferOriginal, naive)}
}

func (g *German) Act(input string, _ scoping.Captures) (string, error) {
	return g.corrector.Correct(input), nil
}
