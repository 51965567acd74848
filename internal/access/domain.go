package access

// AdminRoleName is the reserved role allowed to mutate the registry.
const AdminRoleName = "admin"

// DefaultRoleName is assigned to newly registered users.
const DefaultRoleName = "user"

// Role identifies a named authorization class.
type Role struct {
	ID          int64
	Name        string
	Description string
}

// BusinessElement identifies a protected resource category by unique code.
type BusinessElement struct {
	ID   int64
	Code string
	Name string
}

// AccessRule is the permission matrix cell for a (role, element) pair.
// The *_all flags grant scope beyond the caller's own records; create has no
// all variant.
type AccessRule struct {
	ID        int64
	RoleID    int64
	ElementID int64
	Read      bool
	ReadAll   bool
	Create    bool
	Update    bool
	UpdateAll bool
	Delete    bool
	DeleteAll bool
}

// Verb is the abstract operation checked against a rule.
type Verb string

const (
	VerbRead   Verb = "read"
	VerbCreate Verb = "create"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
)

// Scope tells a resource collaborator whether the grant covers every record
// or only those owned by the caller.
type Scope string

const (
	ScopeOwn Scope = "OWN"
	ScopeAll Scope = "ALL"
)

// Decision is the engine's verdict for one (identity, verb, element) triple.
type Decision struct {
	Allowed bool
	Scope   Scope
}

// flagPair selects which rule flags can grant a verb. all is nil for verbs
// without an all variant.
type flagPair struct {
	base func(AccessRule) bool
	all  func(AccessRule) bool
}

// verbFlags is the single authoritative verb-to-flags mapping.
var verbFlags = map[Verb]flagPair{
	VerbRead: {
		base: func(r AccessRule) bool { return r.Read },
		all:  func(r AccessRule) bool { return r.ReadAll },
	},
	VerbCreate: {
		base: func(r AccessRule) bool { return r.Create },
	},
	VerbUpdate: {
		base: func(r AccessRule) bool { return r.Update },
		all:  func(r AccessRule) bool { return r.UpdateAll },
	},
	VerbDelete: {
		base: func(r AccessRule) bool { return r.Delete },
		all:  func(r AccessRule) bool { return r.DeleteAll },
	},
}

// VerbForMethod maps an HTTP method to its verb. Unknown methods report
// ok=false and must be denied.
func VerbForMethod(method string) (Verb, bool) {
	switch method {
	case "GET", "HEAD":
		return VerbRead, true
	case "POST":
		return VerbCreate, true
	case "PUT", "PATCH":
		return VerbUpdate, true
	case "DELETE":
		return VerbDelete, true
	default:
		return "", false
	}
}
