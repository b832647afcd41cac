package capdl

import "strings"

// Rights is the capability rights mask attached to a cap slot.
type Rights uint8

const (
	CanRead Rights = 1 << iota
	CanWrite
	CanGrant
	CanGrantReply

	AllRights = CanRead | CanWrite | CanGrant | CanGrantReply
)

var rightNames = []struct {
	right Rights
	name  string
}{
	{CanRead, "R"},
	{CanWrite, "W"},
	{CanGrant, "G"},
	{CanGrantReply, "P"},
}

// Has reports whether every bit in other is present in r.
func (r Rights) Has(other Rights) bool {
	return r&other == other
}

// String renders the rights using capDL's letter notation, e.g. "RW".
func (r Rights) String() string {
	var b strings.Builder
	for _, entry := range rightNames {
		if r.Has(entry.right) {
			b.WriteString(entry.name)
		}
	}
	return b.String()
}

// MarshalText encodes rights in letter notation so manifests stay readable.
func (r Rights) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses letter notation written by MarshalText.
func (r *Rights) UnmarshalText(text []byte) error {
	var out Rights
	for _, c := range strings.ToUpper(string(text)) {
		for _, entry := range rightNames {
			if string(c) == entry.name {
				out |= entry.right
			}
		}
	}
	*r = out
	return nil
}
