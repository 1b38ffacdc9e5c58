package migration

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// sliceSource serves a fixed, compiled-in migration list.
type sliceSource struct {
	migrations []Migration
}

// NewSource wraps a fixed migration list. Validation runs on every
// Migrations call so a bad registry fails loudly at startup.
func NewSource(migrations ...Migration) Source {
	return &sliceSource{migrations: migrations}
}

func (s *sliceSource) Migrations() ([]Migration, error) {
	out := make([]Migration, len(s.migrations))
	copy(out, s.migrations)

	seen := make(map[int]string, len(out))
	for _, m := range out {
		version, err := strconv.Atoi(m.Version)
		if err != nil {
			return nil, newError(m.Version, "validate registry", ErrInvalidVersion)
		}
		if previous, ok := seen[version]; ok {
			return nil, newError(m.Version, "validate registry",
				fmt.Errorf("%w: also declared as %q", ErrDuplicateVersion, previous))
		}
		seen[version] = m.Version
		if strings.TrimSpace(m.SQL) == "" {
			return nil, newError(m.Version, "validate registry", ErrEmptyMigration)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		left, _ := strconv.Atoi(out[i].Version)
		right, _ := strconv.Atoi(out[j].Version)
		return left < right
	})

	// Versions must be continuous so nothing silently skips a step.
	for i := 1; i < len(out); i++ {
		previous, _ := strconv.Atoi(out[i-1].Version)
		current, _ := strconv.Atoi(out[i].Version)
		if current != previous+1 {
			return nil, newError(out[i].Version, "validate registry",
				fmt.Errorf("%w: %s does not follow %s", ErrSequenceGap, out[i].Version, out[i-1].Version))
		}
	}

	return out, nil
}
