// Package render turns document sets into HTML fragments by string
// concatenation. Every user-controlled field passes through Escape
// exactly once; enum fields go through the badge whitelist instead.
package render

import "strings"

// Placeholders shown in place of a list.
const (
	PlaceholderLoading    = `<p class="placeholder">Chargement...</p>`
	PlaceholderLoadFailed = `<p class="placeholder placeholder-error">Erreur de chargement</p>`

	EmptyTickets  = `<p class="placeholder">Aucun ticket</p>`
	EmptyMessages = `<p class="placeholder">Aucun message</p>`
	EmptySessions = `<p class="placeholder">Aucune session</p>`
	EmptyReviews  = `<p class="placeholder">Aucun avis pour le moment</p>`
	EmptyQuotes   = `<p class="placeholder">Aucun devis</p>`
	EmptyContacts = `<p class="placeholder">Aucun message</p>`
	EmptyActivity = `<p class="placeholder">Aucune activité récente</p>`
)

// List renders each document through tpl and concatenates the results.
// Empty input yields the view's designated placeholder.
func List[T any](docs []T, tpl func(T) string, empty string) string {
	if len(docs) == 0 {
		return empty
	}
	var b strings.Builder
	for _, d := range docs {
		b.WriteString(tpl(d))
	}
	return b.String()
}
