package crm

// Permission policy: pure, stateless queries over a role's capability
// flags. Decisions are computed by OR-ing independent bits rather than
// comparing an ordinal level, so a role granted a non-monotonic flag
// combination (say, crud on contracts but nothing on events) keeps
// exactly the privileges its flags spell out.

// CanRead reports whether the role may list or view records of the
// kind. Any of the three flags grants it.
func CanRead(role *Role, kind EntityKind) bool {
	c := role.Capability(kind)
	return c.Read || c.ReadUpdate || c.CreateUpdateDelete
}

// CanUpdate reports whether the role may modify records of the kind.
// The crud flag implies update capability; the converse does not hold.
func CanUpdate(role *Role, kind EntityKind) bool {
	c := role.Capability(kind)
	return c.ReadUpdate || c.CreateUpdateDelete
}

// CanCreateDelete reports whether the role may create or delete records
// of the kind. Only the crud flag grants it.
func CanCreateDelete(role *Role, kind EntityKind) bool {
	return role.Capability(kind).CreateUpdateDelete
}

// CanAccessAll reports whether the role bypasses ownership scoping for
// the kind. Only customers, contracts and events are scoped; the query
// is false for the other kinds.
func CanAccessAll(role *Role, kind EntityKind) bool {
	switch kind {
	case KindCustomer:
		return role.AccessAllCustomers
	case KindContract:
		return role.AccessAllContracts
	case KindEvent:
		return role.AccessAllEvents
	}
	return false
}

// CanBeAssignedSupport reports whether the role's members may be set as
// an event's support contact.
func CanBeAssignedSupport(role *Role) bool {
	return role.AssignableSupport
}

// CanManageSupportAssignment reports whether the role may pick the
// support contact when creating or updating an event. It requires
// update capability across the whole event book, not just an owned
// slice.
func CanManageSupportAssignment(role *Role) bool {
	return CanUpdate(role, KindEvent) && role.AccessAllEvents
}
