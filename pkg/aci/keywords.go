package aci

import "strings"

// ldapURLPrefix is the scheme carried by DN values on the wire.
const ldapURLPrefix = "ldap:///"

// TargetKind identifies a target clause keyword.
type TargetKind int

const (
	Target TargetKind = iota
	TargetAttr
	TargetFilter
	TargetTrFilters
	Extop
	TargetControl
	RequestCriteria
	TargetScope
)

// TargetKinds lists every target kind in keyword priority order.
var TargetKinds = []TargetKind{
	Target,
	TargetAttr,
	TargetFilter,
	TargetTrFilters,
	Extop,
	TargetControl,
	RequestCriteria,
	TargetScope,
}

// Keyword returns the wire keyword of the kind.
func (k TargetKind) Keyword() string {
	switch k {
	case Target:
		return "target"
	case TargetAttr:
		return "targetattr"
	case TargetFilter:
		return "targetfilter"
	case TargetTrFilters:
		return "targettrfilters"
	case Extop:
		return "extop"
	case TargetControl:
		return "targetcontrol"
	case RequestCriteria:
		return "requestcriteria"
	case TargetScope:
		return "targetscope"
	default:
		return "unknown"
	}
}

func (k TargetKind) String() string {
	return k.Keyword()
}

// ParseTargetKind maps a keyword to its kind. The legacy "scope" keyword
// resolves to TargetScope.
func ParseTargetKind(s string) (TargetKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "target":
		return Target, true
	case "targetattr":
		return TargetAttr, true
	case "targetfilter":
		return TargetFilter, true
	case "targettrfilters":
		return TargetTrFilters, true
	case "extop":
		return Extop, true
	case "targetcontrol":
		return TargetControl, true
	case "requestcriteria":
		return RequestCriteria, true
	case "targetscope", "scope":
		return TargetScope, true
	default:
		return 0, false
	}
}

// BindKind identifies a bind rule keyword.
type BindKind int

const (
	UserDn BindKind = iota
	GroupDn
	RoleDn
	AuthMethod
	Ip
	Dns
	DayOfWeek
	TimeOfDay
	UserAttr
	Secure
)

// BindKinds lists every bind kind.
var BindKinds = []BindKind{
	UserDn,
	GroupDn,
	RoleDn,
	AuthMethod,
	Ip,
	Dns,
	DayOfWeek,
	TimeOfDay,
	UserAttr,
	Secure,
}

// Keyword returns the wire keyword of the kind.
func (k BindKind) Keyword() string {
	switch k {
	case UserDn:
		return "userdn"
	case GroupDn:
		return "groupdn"
	case RoleDn:
		return "roledn"
	case AuthMethod:
		return "authmethod"
	case Ip:
		return "ip"
	case Dns:
		return "dns"
	case DayOfWeek:
		return "dayofweek"
	case TimeOfDay:
		return "timeofday"
	case UserAttr:
		return "userattr"
	case Secure:
		return "secure"
	default:
		return "unknown"
	}
}

func (k BindKind) String() string {
	return k.Keyword()
}

// IsDN reports whether values of this kind are DNs carried as ldap:/// URLs.
func (k BindKind) IsDN() bool {
	return k == UserDn || k == GroupDn || k == RoleDn
}

// ParseBindKind maps a keyword to its kind.
func ParseBindKind(s string) (BindKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "userdn":
		return UserDn, true
	case "groupdn":
		return GroupDn, true
	case "roledn":
		return RoleDn, true
	case "authmethod":
		return AuthMethod, true
	case "ip":
		return Ip, true
	case "dns":
		return Dns, true
	case "dayofweek":
		return DayOfWeek, true
	case "timeofday":
		return TimeOfDay, true
	case "userattr":
		return UserAttr, true
	case "secure":
		return Secure, true
	default:
		return 0, false
	}
}

// Permission is one access right granted or denied by an ACI.
type Permission int

const (
	Read Permission = iota
	Search
	Compare
	Write
	SelfWrite
	Add
	Delete
	Import
	Export
	Proxy
	All
)

// AllPermissions lists every permission.
var AllPermissions = []Permission{
	Read, Search, Compare, Write, SelfWrite, Add, Delete, Import, Export, Proxy, All,
}

func (p Permission) String() string {
	switch p {
	case Read:
		return "read"
	case Search:
		return "search"
	case Compare:
		return "compare"
	case Write:
		return "write"
	case SelfWrite:
		return "selfwrite"
	case Add:
		return "add"
	case Delete:
		return "delete"
	case Import:
		return "import"
	case Export:
		return "export"
	case Proxy:
		return "proxy"
	case All:
		return "all"
	default:
		return "unknown"
	}
}

// ParsePermission maps a permission keyword to its value.
func ParsePermission(s string) (Permission, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read":
		return Read, true
	case "search":
		return Search, true
	case "compare":
		return Compare, true
	case "write":
		return Write, true
	case "selfwrite":
		return SelfWrite, true
	case "add":
		return Add, true
	case "delete":
		return Delete, true
	case "import":
		return Import, true
	case "export":
		return Export, true
	case "proxy":
		return Proxy, true
	case "all":
		return All, true
	default:
		return 0, false
	}
}

// Permissions is an insertion-ordered set of permissions.
type Permissions []Permission

// Add returns the set with p appended, unless it is already present.
func (ps Permissions) Add(p Permission) Permissions {
	if ps.Has(p) {
		return ps
	}
	return append(ps, p)
}

// Has reports whether p is in the set.
func (ps Permissions) Has(p Permission) bool {
	for _, existing := range ps {
		if existing == p {
			return true
		}
	}
	return false
}

// Strings returns the keywords of the set in order.
func (ps Permissions) Strings() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

// ParsePermissions parses keywords into a set, skipping unknown names.
// The second return value lists the names that were skipped.
func ParsePermissions(names []string) (Permissions, []string) {
	var (
		out     Permissions
		unknown []string
	)
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		p, ok := ParsePermission(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		out = out.Add(p)
	}
	return out, unknown
}

// StripLDAPPrefix removes a leading ldap:/// (any case) from a DN value.
func StripLDAPPrefix(v string) string {
	if len(v) >= len(ldapURLPrefix) && strings.EqualFold(v[:len(ldapURLPrefix)], ldapURLPrefix) {
		return v[len(ldapURLPrefix):]
	}
	return v
}

// WithLDAPPrefix adds ldap:/// to a DN value that does not carry it.
func WithLDAPPrefix(v string) string {
	if len(v) >= len(ldapURLPrefix) && strings.EqualFold(v[:len(ldapURLPrefix)], ldapURLPrefix) {
		return v
	}
	return ldapURLPrefix + v
}
