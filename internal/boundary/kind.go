package boundary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/rodsim/internal/rod"
)

// Kind names a boundary condition variant.
type Kind uint8

const (
	KindFree Kind = iota
	KindOneEndFixed
	KindHelicalBuckling
)

var kindNames = map[string]Kind{
	"free":             KindFree,
	"none":             KindFree,
	"fixed":            KindOneEndFixed,
	"one_end_fixed":    KindOneEndFixed,
	"clamped":          KindOneEndFixed,
	"helical":          KindHelicalBuckling,
	"helical_buckling": KindHelicalBuckling,
	"twist":            KindHelicalBuckling,
}

func (k Kind) String() string {
	switch k {
	case KindFree:
		return "free"
	case KindOneEndFixed:
		return "one_end_fixed"
	case KindHelicalBuckling:
		return "helical_buckling"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind maps a case-insensitive name or alias to a Kind.
func ParseKind(name string) (Kind, error) {
	k, ok := kindNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q (available: %s)", ErrUnknownKind, name, strings.Join(KindNames(), ", "))
	}
	return k, nil
}

// KindNames lists every accepted name, sorted.
func KindNames() []string {
	names := make([]string, 0, len(kindNames))
	for name := range kindNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromRod builds a condition of kind k from the current end poses of r.
// p is only read by KindHelicalBuckling.
func FromRod(k Kind, r *rod.Rod, p Params) (Condition, error) {
	switch k {
	case KindFree:
		return Free{}, nil
	case KindOneEndFixed:
		return NewOneEndFixedFromRod(r), nil
	case KindHelicalBuckling:
		c, err := NewHelicalBucklingFromRod(r, p)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}
}
