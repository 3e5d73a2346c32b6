package generator

import (
	"fmt"
	"path"
	"strings"

	"github.com/tacogips/autopilot/internal/template/model"
)

// Mode selects which catalog files a sync writes.
type Mode string

const (
	// ModeFull writes every catalog file.
	ModeFull Mode = "full"
	// ModeMinimal writes only critical files.
	ModeMinimal Mode = "minimal"
	// ModeCustom writes an explicit subset.
	ModeCustom Mode = "custom"
)

// Modes returns all selection modes.
func Modes() []string {
	return []string{string(ModeFull), string(ModeMinimal), string(ModeCustom)}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeFull, ModeMinimal, ModeCustom:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected one of %s)", s, strings.Join(Modes(), ", "))
	}
}

// Lister enumerates the catalog.
type Lister interface {
	ListAll() []model.TemplateDescriptor
	FilterCritical() []model.TemplateDescriptor
}

// ResolveSelection returns the paths to plan for mode. Custom entries may be
// full paths or an unambiguous base name such as "settings.json"; they keep
// the order given.
func ResolveSelection(mode Mode, catalog Lister, custom []string) ([]string, error) {
	switch mode {
	case ModeFull:
		return descriptorPaths(catalog.ListAll()), nil
	case ModeMinimal:
		return descriptorPaths(catalog.FilterCritical()), nil
	case ModeCustom:
		if len(custom) == 0 {
			return nil, newGeneratorError(GeneratorPathError, "custom mode requires at least one file", "", nil)
		}
		all := catalog.ListAll()
		out := make([]string, 0, len(custom))
		for _, name := range custom {
			resolved, err := resolveName(all, strings.TrimSpace(name))
			if err != nil {
				return nil, err
			}
			out = append(out, resolved)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

func resolveName(all []model.TemplateDescriptor, name string) (string, error) {
	for _, d := range all {
		if d.Path == name {
			return d.Path, nil
		}
	}

	var matches []string
	for _, d := range all {
		if path.Base(d.Path) == name {
			matches = append(matches, d.Path)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", newGeneratorError(GeneratorPathError, "unknown scaffold file", name, nil)
	default:
		return "", newGeneratorError(GeneratorPathError,
			fmt.Sprintf("ambiguous name, use one of %s", strings.Join(matches, ", ")), name, nil)
	}
}

func descriptorPaths(ds []model.TemplateDescriptor) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Path
	}
	return out
}
