package release

import (
	"fmt"
	"path"
	"sort"
)

// MatchAsset selects the single asset whose name matches the shell-style
// glob pattern (*, ?, [...] per path.Match).
//
// Candidates are considered in lexicographic name order, so the result is
// deterministic regardless of the order the forge returned them in. Zero
// matches yield a NoMatchError. Multiple matches yield an
// AmbiguousMatchError unless pickFirst is set, in which case the
// lexicographically first match is selected.
func MatchAsset(assets []Asset, pattern string, pickFirst bool) (Asset, error) {
	if pattern == "" {
		return Asset{}, fmt.Errorf("asset pattern must not be empty")
	}

	sorted := make([]Asset, len(assets))
	copy(sorted, assets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var matches []Asset
	for _, asset := range sorted {
		ok, err := path.Match(pattern, asset.Name)
		if err != nil {
			return Asset{}, fmt.Errorf("invalid asset pattern %q: %w", pattern, err)
		}
		if ok {
			matches = append(matches, asset)
		}
	}

	switch {
	case len(matches) == 0:
		return Asset{}, &NoMatchError{Pattern: pattern, Available: assetNames(sorted)}
	case len(matches) > 1 && !pickFirst:
		return Asset{}, &AmbiguousMatchError{Pattern: pattern, Matches: assetNames(matches)}
	default:
		return matches[0], nil
	}
}

func assetNames(assets []Asset) []string {
	names := make([]string, len(assets))
	for i, asset := range assets {
		names[i] = asset.Name
	}
	return names
}
