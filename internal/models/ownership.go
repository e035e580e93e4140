package models

// Owned is implemented by any resource with an owning account.
type Owned interface {
	OwnerID() uint
}

// IsOwner reports whether userID owns the resource. Every mutating handler
// funnels its ownership check through this predicate.
func IsOwner(resource Owned, userID uint) bool {
	return resource.OwnerID() == userID
}
