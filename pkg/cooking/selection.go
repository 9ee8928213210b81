package cooking

// Selection holds the two most recently chosen ingredients, most recent last.
// The zero value is an empty selection.
type Selection struct {
	previous IngredientID
	current  IngredientID
}

// NewSelection returns a selection preloaded with two picks, oldest first.
func NewSelection(previous, current IngredientID) Selection {
	return Selection{previous: previous, current: current}
}

// Update shifts the window: current becomes previous and next becomes current.
// Any id is accepted, including NoIngredient.
func (s *Selection) Update(next IngredientID) {
	s.previous = s.current
	s.current = next
}

// Reset clears both slots.
func (s *Selection) Reset() {
	s.previous = NoIngredient
	s.current = NoIngredient
}

func (s Selection) Previous() IngredientID { return s.previous }
func (s Selection) Current() IngredientID  { return s.current }

// Count returns how many slots hold a real pick.
func (s Selection) Count() int {
	n := 0
	if s.previous != NoIngredient {
		n++
	}
	if s.current != NoIngredient {
		n++
	}
	return n
}

// CanonicalPair returns the selection as a lookup key. Sentinels are not filtered.
func (s Selection) CanonicalPair() Pair {
	return Canonical(s.previous, s.current)
}
