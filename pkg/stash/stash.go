package stash

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-tutorialgen/pkg/capdl"
)

// Stash holds every object, cap and special page declared during a render.
type Stash struct {
	objects      map[string]*Object
	caps         map[string][]Cap
	specialPages map[string][]SpecialPage
	elfs         map[string]ELF

	unclaimedCaps  []Cap
	unclaimedPages []SpecialPage
}

// New returns an empty stash.
func New() *Stash {
	return &Stash{
		objects:      make(map[string]*Object),
		caps:         make(map[string][]Cap),
		specialPages: make(map[string][]SpecialPage),
		elfs:         make(map[string]ELF),
	}
}

// RecordObject declares an object of type typ under name and queues a cap to
// it for the next ELF. It returns the C declarations the template should emit
// for the recorded symbols.
//
// Re-recording an existing name merges attrs into the stored object; the type
// must match. Frames are not stored as objects: they queue a special page
// described by the symbol, size, alignment and section attrs. An empty typ
// records only the cap, which is how a program's own cspace/vspace and empty
// slots are declared.
func (s *Stash) RecordObject(typ capdl.ObjectType, name, capSymbol string, attrs Attrs) (string, error) {
	var decls []string

	if existing, ok := s.objects[name]; ok && name != "" {
		if existing.Type != typ {
			return "", fmt.Errorf("%w: %q was recorded as %s, not %q", ErrTypeMismatch, name, existing.Type, typ)
		}
		if len(attrs) > 0 && existing.Attrs == nil {
			existing.Attrs = make(Attrs, len(attrs))
		}
		for k, v := range attrs {
			existing.Attrs[k] = v
		}
	} else {
		switch {
		case typ == capdl.FrameObject:
			page, err := specialPageFromAttrs(attrs)
			if err != nil {
				return "", err
			}
			s.unclaimedPages = append(s.unclaimedPages, page)
			decls = append(decls, fmt.Sprintf("extern const void *%s;\n", page.Symbol))
		case typ != "":
			if name == "" {
				return "", fmt.Errorf("stash: object of type %s needs a name", typ)
			}
			s.objects[name] = &Object{Type: typ, Attrs: attrs.clone()}
		}
	}

	s.unclaimedCaps = append(s.unclaimedCaps, Cap{
		Symbol: capSymbol,
		Object: name,
		Attrs:  attrs.clone(),
	})
	if capSymbol != "" {
		decls = append(decls, fmt.Sprintf("extern seL4_CPtr %s;", capSymbol))
	}
	return strings.Join(decls, "\n"), nil
}

func specialPageFromAttrs(attrs Attrs) (SpecialPage, error) {
	symbol, err := attrs.str("symbol")
	if err != nil {
		return SpecialPage{}, fmt.Errorf("stash: frame: %w", err)
	}
	size, err := attrs.uint("size")
	if err != nil {
		return SpecialPage{}, fmt.Errorf("stash: frame %q: %w", symbol, err)
	}
	alignment, err := attrs.uint("alignment")
	if err != nil {
		return SpecialPage{}, fmt.Errorf("stash: frame %q: %w", symbol, err)
	}
	section, err := attrs.str("section")
	if err != nil {
		return SpecialPage{}, fmt.Errorf("stash: frame %q: %w", symbol, err)
	}
	return SpecialPage{Symbol: symbol, Size: size, Alignment: alignment, Section: section}, nil
}

// ClaimELF assigns every unclaimed cap and special page to the ELF name. The
// ELF always receives a stack and IPC buffer ahead of its own pages.
func (s *Stash) ClaimELF(name string) {
	s.caps[name] = append([]Cap{}, s.unclaimedCaps...)
	s.unclaimedCaps = nil

	s.elfs[name] = ELF{Filename: name + ".c"}

	pages := defaultSpecialPages()
	pages = append(pages, s.unclaimedPages...)
	s.specialPages[name] = pages
	s.unclaimedPages = nil
}

// Object returns a copy of the named object.
func (s *Stash) Object(name string) (Object, bool) {
	obj, ok := s.objects[name]
	if !ok {
		return Object{}, false
	}
	return Object{Type: obj.Type, Attrs: obj.Attrs.clone()}, true
}

// ObjectNames returns the recorded object names, sorted.
func (s *Stash) ObjectNames() []string {
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Caps returns the cspace layout claimed by elf.
func (s *Stash) Caps(elf string) []Cap {
	return append([]Cap(nil), s.caps[elf]...)
}

// SpecialPages returns the special pages claimed by elf.
func (s *Stash) SpecialPages(elf string) []SpecialPage {
	return append([]SpecialPage(nil), s.specialPages[elf]...)
}

// ELFs returns the declared ELF names, sorted.
func (s *Stash) ELFs() []string {
	names := make([]string, 0, len(s.elfs))
	for name := range s.elfs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnclaimedCaps returns caps recorded since the last ELF declaration.
func (s *Stash) UnclaimedCaps() []Cap {
	return append([]Cap(nil), s.unclaimedCaps...)
}

// UnclaimedSpecialPages returns pages recorded since the last ELF declaration.
func (s *Stash) UnclaimedSpecialPages() []SpecialPage {
	return append([]SpecialPage(nil), s.unclaimedPages...)
}

// Manifest snapshots the claimed state.
func (s *Stash) Manifest() Manifest {
	m := Manifest{
		Objects:      make(map[string]Object, len(s.objects)),
		CSpaceLayout: make(map[string][]Cap, len(s.caps)),
		SpecialPages: make(map[string][]SpecialPage, len(s.specialPages)),
		ELFs:         make(map[string]ELF, len(s.elfs)),
	}
	for name, obj := range s.objects {
		m.Objects[name] = Object{Type: obj.Type, Attrs: obj.Attrs.clone()}
	}
	for elf, caps := range s.caps {
		m.CSpaceLayout[elf] = append([]Cap{}, caps...)
	}
	for elf, pages := range s.specialPages {
		m.SpecialPages[elf] = append([]SpecialPage(nil), pages...)
	}
	for name, elf := range s.elfs {
		m.ELFs[name] = elf
	}
	return m
}
