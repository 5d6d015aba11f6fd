package domain

// OwnerScope names the view a visible owner set is computed for.
type OwnerScope struct {
	// List is set for list resolution.
	List *List
	// Share is set for status and tag system views, with Value holding the
	// canonical status or normalized tag name.
	Share ShareScope
	Value string
}

// ListScope is the owner set of a list: its owner plus accepted collaborators.
func ListScope(l *List) OwnerScope {
	return OwnerScope{List: l}
}

// StatusScope is the owner set for a status system view.
func StatusScope(s Status) OwnerScope {
	return OwnerScope{Share: ShareScopeStatus, Value: string(s)}
}

// TagScope is the owner set for a tag system view.
func TagScope(tag string) OwnerScope {
	return OwnerScope{Share: ShareScopeTag, Value: NormalizeTag(tag)}
}
