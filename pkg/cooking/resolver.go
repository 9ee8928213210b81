package cooking

import (
	"fmt"
	"sort"

	"github.com/jwebster45206/cauldron/pkg/conditionals"
)

// Pair is a combination key. Only the canonical form (A <= B) is stored in a Resolver.
type Pair struct {
	A IngredientID `json:"a"`
	B IngredientID `json:"b"`
}

// Canonical orders two ids so that lookups are commutative.
func Canonical(a, b IngredientID) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Canonical returns p in (min, max) order.
func (p Pair) Canonical() Pair {
	return Canonical(p.A, p.B)
}

// HasSentinel reports whether either side is NoIngredient.
func (p Pair) HasSentinel() bool {
	return p.A == NoIngredient || p.B == NoIngredient
}

func (p Pair) String() string {
	return fmt.Sprintf("(%d,%d)", p.A, p.B)
}

// Result is the immutable outcome of cooking a pair.
type Result struct {
	Asset       string              `json:"asset"`       // Dish sprite, e.g. "combinations/pumpkin_mushroom_stew.png"
	Description string              `json:"description"` // Flavor text shown under the dish
	Traits      conditionals.Traits `json:"traits"`      // Trait deltas fed into the next branch decision
}

// Recipe is one authored row of the combination table.
type Recipe struct {
	Ingredients [2]IngredientID `json:"ingredients"` // Any order; canonicalized on load
	Result      Result          `json:"result"`
}

// Pair returns the recipe's canonical key.
func (r Recipe) Pair() Pair {
	return Canonical(r.Ingredients[0], r.Ingredients[1])
}

// Resolver maps ingredient pairs to results. It is read-only once built.
type Resolver struct {
	fallback Result
	table    map[Pair]Result
}

// NewResolver indexes recipes by canonical pair. The fallback is what any
// unknown pair cooks into and must carry zero traits.
func NewResolver(fallback Result, recipes []Recipe) (*Resolver, error) {
	if !fallback.Traits.IsZero() {
		return nil, fmt.Errorf("fallback result must have zero traits, got %s", fallback.Traits)
	}
	table := make(map[Pair]Result, len(recipes))
	for _, r := range recipes {
		key := r.Pair()
		if _, dup := table[key]; dup {
			return nil, fmt.Errorf("duplicate recipe for pair %s", key)
		}
		if err := r.Result.Traits.Validate(); err != nil {
			return nil, fmt.Errorf("recipe %s: %w", key, err)
		}
		table[key] = r.Result
	}
	return &Resolver{fallback: fallback, table: table}, nil
}

// Resolve looks up a pair in either order. It never fails: pairs absent from
// the table, including ones holding the sentinel, cook into the fallback.
func (r *Resolver) Resolve(p Pair) Result {
	if res, ok := r.table[p.Canonical()]; ok {
		return res
	}
	return r.fallback
}

// ResolveSelection resolves the pair currently held by s.
func (r *Resolver) ResolveSelection(s Selection) Result {
	return r.Resolve(s.CanonicalPair())
}

// Fallback returns the result used for unmatched pairs.
func (r *Resolver) Fallback() Result {
	return r.fallback
}

// Recipes returns every declared key in ascending canonical order.
func (r *Resolver) Recipes() []Pair {
	keys := make([]Pair, 0, len(r.table))
	for k := range r.table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].A != keys[j].A {
			return keys[i].A < keys[j].A
		}
		return keys[i].B < keys[j].B
	})
	return keys
}
