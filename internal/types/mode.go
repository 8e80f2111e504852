package types

import (
	"fmt"
	"strings"
)

// Scheme selects how keystrokes map to diacritics.
type Scheme int

const (
	SchemeTelex Scheme = iota
	SchemeVNI
)

func (s Scheme) String() string {
	switch s {
	case SchemeTelex:
		return "telex"
	case SchemeVNI:
		return "vni"
	default:
		return "unknown"
	}
}

func ParseScheme(value string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "telex", "0":
		return SchemeTelex, nil
	case "vni", "1":
		return SchemeVNI, nil
	}
	return SchemeTelex, fmt.Errorf("unknown input scheme %q", value)
}

// PlacementStyle selects where the tone goes in open oa, oe and uy.
type PlacementStyle int

const (
	PlacementModern PlacementStyle = iota
	PlacementTraditional
)

func (p PlacementStyle) String() string {
	switch p {
	case PlacementModern:
		return "modern"
	case PlacementTraditional:
		return "traditional"
	default:
		return "unknown"
	}
}

func ParsePlacementStyle(value string) (PlacementStyle, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "modern", "new", "0":
		return PlacementModern, nil
	case "traditional", "old", "1":
		return PlacementTraditional, nil
	}
	return PlacementModern, fmt.Errorf("unknown placement style %q", value)
}
