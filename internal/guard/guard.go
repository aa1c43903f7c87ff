// Package guard wraps irreversible deletions in two sequential
// confirmations. The delete action runs only after both are accepted.
package guard

import (
	"errors"
	"fmt"
)

// ErrAborted is returned when either confirmation is declined. No side
// effect has taken place.
var ErrAborted = errors.New("deletion aborted")

type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// Delete asks twice, with differently worded prompts, before invoking
// action exactly once.
func Delete(c Confirmer, entity string, action func() error) error {
	first := fmt.Sprintf("⚠️ Êtes-vous sûr de vouloir SUPPRIMER définitivement %s? Cette action est IRRÉVERSIBLE!", entity)
	if !c.Confirm(first) {
		return ErrAborted
	}
	final := fmt.Sprintf("🚨 DERNIÈRE CONFIRMATION: voulez-vous vraiment supprimer %s? Il sera impossible de le récupérer!", entity)
	if !c.Confirm(final) {
		return ErrAborted
	}
	return action()
}
