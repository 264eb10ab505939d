package parser

import (
	"strconv"
	"strings"

	"github.com/kamilpajak/pulse/pkg/models"
)

const (
	pathSeparator = " / "
	idSeparator   = "-"
)

// specIdentity uses the source id when present, otherwise the spec's path
// followed by its position among its siblings.
func specIdentity(sourceID string, path []string, index int) string {
	if sourceID != "" {
		return sourceID
	}
	parts := make([]string, 0, len(path)+1)
	parts = append(parts, path...)
	parts = append(parts, strconv.Itoa(index))
	return strings.Join(parts, pathSeparator)
}

// testIdentity joins the non-empty project id, project name, spec id and
// test index. The index is always present so tests of one spec never share
// an identity.
func testIdentity(projectID, projectName, specID string, testIndex int) string {
	var parts []string
	for _, p := range []string{projectID, projectName, specID, strconv.Itoa(testIndex)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if id := strings.Join(parts, idSeparator); id != "" {
		return id
	}
	return specID + "#" + strconv.Itoa(testIndex)
}

// dedupeTestIDs suffixes repeated test identities with "~N" in document
// order. A suffixed identity never matches any other identity of the
// document. Documents without collisions are left untouched.
func dedupeTestIDs(specs []models.Spec) {
	original := make(map[string]bool)
	for _, spec := range specs {
		for _, test := range spec.Tests {
			original[test.ID] = true
		}
	}

	assigned := make(map[string]bool, len(original))
	next := make(map[string]int)
	for i := range specs {
		for j := range specs[i].Tests {
			id := specs[i].Tests[j].ID
			if !assigned[id] {
				assigned[id] = true
				continue
			}
			n := next[id]
			candidate := id
			for original[candidate] || assigned[candidate] {
				n++
				candidate = id + "~" + strconv.Itoa(n)
			}
			next[id] = n
			assigned[candidate] = true
			specs[i].Tests[j].ID = candidate
		}
	}
}
