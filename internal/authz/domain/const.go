// Package domain defines the access-control domain model: rules mapping a
// resource path prefix and action verb to the group a caller must belong to.
package domain

// Verb is the semantic action of a request, not the literal HTTP method.
// The set is closed: rules referencing any other verb are rejected at parse time.
type Verb string

const (
	// ViewVerb covers read-only access to a resource.
	ViewVerb Verb = "view"

	// PostVerb covers state-mutating access to a resource.
	PostVerb Verb = "post"
)

// IsValid reports whether v is a member of the closed verb set.
func (v Verb) IsValid() bool {
	switch v {
	case ViewVerb, PostVerb:
		return true
	}
	return false
}
