package conditionals

import (
	"fmt"
	"strings"
)

// Axis names one of the three trait dimensions a dish can push.
type Axis string

const (
	AxisSweet  Axis = "sweet"
	AxisSavory Axis = "savory"
	AxisSpooky Axis = "spooky"
)

// MaxTrait is the largest value any single trait may carry.
const MaxTrait = 100

// Axes lists every axis in display order.
var Axes = []Axis{AxisSweet, AxisSavory, AxisSpooky}

// ParseAxis accepts an axis name in any case.
func ParseAxis(s string) (Axis, error) {
	a := Axis(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", fmt.Errorf("unknown trait axis %q", s)
	}
	return a, nil
}

// IsValid reports whether a is one of the known axes.
func (a Axis) IsValid() bool {
	switch a {
	case AxisSweet, AxisSavory, AxisSpooky:
		return true
	}
	return false
}

// Traits is the set of trait deltas produced by a cooked dish.
// The zero value is a neutral dish and is what pure dialogue transitions use.
type Traits struct {
	Sweet  uint32 `json:"sweet"`
	Savory uint32 `json:"savory"`
	Spooky uint32 `json:"spooky"`
}

// TraitView provides the minimal interface needed to evaluate a guard.
type TraitView interface {
	Trait(a Axis) uint32
}

var _ TraitView = Traits{}

// Trait returns the value on a single axis. Unknown axes read as zero.
func (t Traits) Trait(a Axis) uint32 {
	switch a {
	case AxisSweet:
		return t.Sweet
	case AxisSavory:
		return t.Savory
	case AxisSpooky:
		return t.Spooky
	}
	return 0
}

// IsZero reports whether every axis is zero.
func (t Traits) IsZero() bool {
	return t.Sweet == 0 && t.Savory == 0 && t.Spooky == 0
}

// Validate checks every axis is within [0, MaxTrait].
func (t Traits) Validate() error {
	for _, a := range Axes {
		if v := t.Trait(a); v > MaxTrait {
			return fmt.Errorf("%s trait %d exceeds %d", a, v, MaxTrait)
		}
	}
	return nil
}

func (t Traits) String() string {
	return fmt.Sprintf("sweet=%d savory=%d spooky=%d", t.Sweet, t.Savory, t.Spooky)
}

// When is the guard half of a branch rule. A nil When, or one with no
// threshold, is an unconditional fallback.
type When struct {
	Above *uint32 `json:"above,omitempty"` // Trait on the rule's axis must be strictly greater than this
}

// IsUnconditional reports whether the guard always matches.
func (w *When) IsUnconditional() bool {
	return w == nil || w.Above == nil
}

// EvaluateWhen checks a guard against the trait value on axis.
// Comparisons are strict: a trait exactly at the threshold does not match.
func EvaluateWhen(axis Axis, when *When, tv TraitView) bool {
	if when.IsUnconditional() {
		return true
	}
	return tv.Trait(axis) > *when.Above
}

// FirstMatch returns the index of the first guard that matches, or -1.
// Guards are evaluated in order so overlapping thresholds resolve to the earliest rule.
func FirstMatch(axis Axis, whens []*When, tv TraitView) int {
	for i, w := range whens {
		if EvaluateWhen(axis, w, tv) {
			return i
		}
	}
	return -1
}

// Above is a helper for building guards in code and tests.
func Above(v uint32) *When {
	return &When{Above: &v}
}
