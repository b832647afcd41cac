package stash

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-tutorialgen/pkg/capdl"
)

// Default special page layout given to every ELF.
const (
	PageSize       uint64 = 0x1000
	StackSize      uint64 = 16 * PageSize
	SectionGuarded        = "guarded"

	StackSymbol     = "stack"
	IPCBufferSymbol = "mainIpcBuffer"
)

// Attrs carries free-form object attributes supplied by templates.
type Attrs map[string]any

func (a Attrs) clone() Attrs {
	if len(a) == 0 {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func (a Attrs) str(key string) (string, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: %q", ErrMissingAttr, key)
	}
	value := strings.TrimSpace(fmt.Sprint(raw))
	if value == "" {
		return "", fmt.Errorf("%w: %q is empty", ErrMissingAttr, key)
	}
	return value, nil
}

func (a Attrs) uint(key string) (uint64, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: %q", ErrMissingAttr, key)
	}
	switch v := raw.(type) {
	case int:
		if v < 0 {
			return 0, fmt.Errorf("stash: attribute %q must not be negative", key)
		}
		return uint64(v), nil
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("stash: attribute %q must not be negative", key)
		}
		return uint64(v), nil
	case uint64:
		return v, nil
	case float64:
		if v < 0 || v != float64(uint64(v)) {
			return 0, fmt.Errorf("stash: attribute %q must be a whole number", key)
		}
		return uint64(v), nil
	case string:
		parsed, err := strconv.ParseUint(strings.TrimSpace(v), 0, 64)
		if err != nil {
			return 0, fmt.Errorf("stash: attribute %q: %w", key, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("stash: attribute %q has unsupported type %T", key, raw)
	}
}

// Object is a declared kernel object.
type Object struct {
	Type  capdl.ObjectType `json:"type" yaml:"type"`
	Attrs Attrs            `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Cap is a capability slot in an ELF's cspace. Symbol is the C symbol the
// slot number is exported through; Object names the target object and may be
// empty for an empty slot.
type Cap struct {
	Symbol string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Object string `json:"object,omitempty" yaml:"object,omitempty"`
	Attrs  Attrs  `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// SpecialPage is a symbol-backed memory region mapped into an ELF.
type SpecialPage struct {
	Symbol    string `json:"symbol" yaml:"symbol"`
	Size      uint64 `json:"size" yaml:"size"`
	Alignment uint64 `json:"alignment" yaml:"alignment"`
	Section   string `json:"section" yaml:"section"`
}

// ELF records an emitted program image.
type ELF struct {
	Filename string `json:"filename" yaml:"filename"`
}

func defaultSpecialPages() []SpecialPage {
	return []SpecialPage{
		{Symbol: StackSymbol, Size: StackSize, Alignment: PageSize, Section: SectionGuarded},
		{Symbol: IPCBufferSymbol, Size: PageSize, Alignment: PageSize, Section: SectionGuarded},
	}
}
