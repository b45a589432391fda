// Package workspace creates schema-conformant feature folders and answers
// existence checks ahead of creation.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"workbench/internal/fsys"
)

// featureNameRe: lowercase kebab-case, the only shape the title renderer
// and the schema-facing UI accept.
var featureNameRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidFeatureName reports whether name is acceptable as a feature folder.
func ValidFeatureName(name string) bool {
	return featureNameRe.MatchString(name)
}

// Exists walks segments from root and reports whether the final directory
// exists. A missing directory at any step yields (false, nil); any other
// failure (permission, I/O) is returned as an error rather than being
// masked as "does not exist".
func Exists(ctx context.Context, root fsys.Dir, segments []string) (bool, error) {
	d := root
	for _, seg := range segments {
		next, err := d.Dir(ctx, seg, false)
		if errors.Is(err, fsys.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		d = next
	}
	return true, nil
}

// CreateFeature creates the feature folder name under the directory
// described by segments, creating intermediate directories as needed
// (creating an already-existing directory is not an error), then writes a
// templated feature.md inside it. It does not guard against an existing
// folder of the same name; callers check Exists first.
func CreateFeature(ctx context.Context, root fsys.Dir, segments []string, name string) (fsys.Dir, fsys.File, error) {
	d := root
	for _, seg := range segments {
		next, err := d.Dir(ctx, seg, true)
		if err != nil {
			return nil, nil, fmt.Errorf("create feature %s: %w", name, err)
		}
		d = next
	}

	featureDir, err := d.Dir(ctx, name, true)
	if err != nil {
		return nil, nil, fmt.Errorf("create feature %s: %w", name, err)
	}

	f, err := featureDir.File(ctx, "feature.md", true)
	if err != nil {
		return nil, nil, fmt.Errorf("create feature %s: %w", name, err)
	}
	if err := f.WriteText(ctx, RenderTemplate(name)); err != nil {
		return nil, nil, fmt.Errorf("create feature %s: %w", name, err)
	}
	return featureDir, f, nil
}

// FeatureTitle derives a display title from a kebab-case folder name:
// "dark-mode" -> "Dark Mode".
func FeatureTitle(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// RenderTemplate returns the initial feature.md content for a new feature.
func RenderTemplate(name string) string {
	return fmt.Sprintf(featureTemplate, FeatureTitle(name))
}

const featureTemplate = `# %s

## Overview

_What is this feature and why does it matter?_

## Problem Statement

## Proposed Solution

## Key Requirements

### Functional Requirements

- [ ] FR-1:

### Technical Requirements

- [ ] TR-1:

## Out of Scope

## Success Criteria

## Open Questions
`
