package wave

// ScopeKind selects how a wave's Scope restricts what its agent may do.
type ScopeKind uint8

const (
	ScopeFull ScopeKind = iota
	ScopeNone
	ScopeGrants
)

// Scope is attached to every wave header, carried forward from the
// agent's session. Grant matching is the registry's concern; Scope is
// just the payload a wave carries.
type Scope struct {
	Kind   ScopeKind
	Grants []string
}

func DefaultScope() Scope { return Scope{Kind: ScopeNone} }
