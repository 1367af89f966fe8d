package challenge

import "errors"

var (
	// ErrNoVocabularyAvailable means the corpus yielded no usable items and no
	// set was created. Callers should treat it as "try again later".
	ErrNoVocabularyAvailable = errors.New("no vocabulary available")
	// ErrItemNotInSet is returned when completing an item the set does not contain.
	ErrItemNotInSet = errors.New("item is not part of the practice set")
)
