// Package ownership holds the access rules that decide whether an acting
// user may mutate a category or transaction. The predicates are pure so
// they can be tested without a database.
package ownership

import "moneta/internal/models"

// AuthorizationHidesExistence controls how ownership failures are reported.
// While true, a mutation attempt on a resource owned by someone else must
// surface the same not-found error as a missing id, so callers cannot probe
// for the existence of other users' data. Endpoints added later should
// consult this policy instead of re-deriving the behavior.
const AuthorizationHidesExistence = true

// CanModifyCategory reports whether userID may update or delete the
// category. Shared categories (nil owner) are open to every
// authenticated user.
func CanModifyCategory(category *models.Category, userID uint) bool {
	return category.UserID == nil || *category.UserID == userID
}

// CanModifyTransaction reports whether userID may update or delete the
// transaction. Only the owner may.
func CanModifyTransaction(transaction *models.Transaction, userID uint) bool {
	return transaction.UserID == userID
}
