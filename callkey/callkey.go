package callkey

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Named is a single named argument. Named arguments participate in key
// identity independent of the order they were supplied in.
type Named struct {
	Name  string
	Value any
}

// Key is the canonical identity of one call. It is immutable after New
// returns. The canonical string form and its hash are built lazily on first
// use and cached, which is safe because the canonical argument tokens are
// fixed at construction time.
type Key struct {
	positional []any
	named      []Named

	posTokens   []string
	namedTokens []string // "name=token", sorted by name

	idOnce sync.Once
	id     string

	hashOnce sync.Once
	hash     uint64
}

// New canonicalizes the given arguments into a Key. Every argument must be
// hashable or freezable; otherwise New fails with an error wrapping
// ErrUnhashableArg, identifying the offending argument.
func New(positional []any, named []Named) (*Key, error) {
	k := &Key{
		positional: positional,
		named:      named,
		posTokens:  make([]string, len(positional)),
	}
	for i, arg := range positional {
		tok, err := canonicalize(arg)
		if err != nil {
			return nil, fmt.Errorf("positional argument %d: %w", i, err)
		}
		k.posTokens[i] = tok
	}
	if len(named) > 0 {
		k.namedTokens = make([]string, len(named))
		for i, na := range named {
			tok, err := canonicalize(na.Value)
			if err != nil {
				return nil, fmt.Errorf("named argument %q: %w", na.Name, err)
			}
			k.namedTokens[i] = na.Name + "=" + tok
		}
		sort.Strings(k.namedTokens)
	}
	return k, nil
}

// FromMap is a convenience constructor for callers holding named arguments
// as a map.
func FromMap(positional []any, named map[string]any) (*Key, error) {
	if len(named) == 0 {
		return New(positional, nil)
	}
	pairs := make([]Named, 0, len(named))
	for name, value := range named {
		pairs = append(pairs, Named{Name: name, Value: value})
	}
	return New(positional, pairs)
}

// ID returns the canonical string form of the key. Two keys are equal iff
// their IDs are equal, so the ID is directly usable as a map key.
func (k *Key) ID() string {
	k.idOnce.Do(func() {
		var b strings.Builder
		b.WriteByte('(')
		for i, tok := range k.posTokens {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(tok)
		}
		b.WriteByte(')')
		if len(k.namedTokens) > 0 {
			b.WriteByte('{')
			for i, tok := range k.namedTokens {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(tok)
			}
			b.WriteByte('}')
		}
		k.id = b.String()
	})
	return k.id
}

// Hash returns the xxhash of the canonical form, computed once on first use.
func (k *Key) Hash() uint64 {
	k.hashOnce.Do(func() {
		k.hash = xxhash.Sum64String(k.ID())
	})
	return k.hash
}

// Equal reports whether two keys canonicalize identically.
func (k *Key) Equal(other *Key) bool {
	return other != nil && k.ID() == other.ID()
}

// Positional returns the original positional argument values, as supplied at
// construction. The slice must not be mutated; it is reused verbatim when a
// deferred call is replayed.
func (k *Key) Positional() []any {
	return k.positional
}

// NamedValues returns the original named arguments as a map. The map is
// rebuilt per call and safe for the caller to own.
func (k *Key) NamedValues() map[string]any {
	if len(k.named) == 0 {
		return nil
	}
	m := make(map[string]any, len(k.named))
	for _, na := range k.named {
		m[na.Name] = na.Value
	}
	return m
}

// String implements fmt.Stringer for log output.
func (k *Key) String() string {
	return k.ID()
}
