package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/licitaciones/constants"
)

// Extensions builds an extension set from user input; empty input yields the
// default set.
func Extensions(list []string) map[string]struct{} {
	exts := map[string]struct{}{}
	for _, e := range list {
		if e = constants.NormalizeExt(e); e != "" {
			exts[e] = struct{}{}
		}
	}
	if len(exts) == 0 {
		for e := range constants.AllowedExtensions {
			exts[e] = struct{}{}
		}
	}
	return exts
}

func allowed(path string, exts map[string]struct{}) bool {
	_, ok := exts[constants.NormalizeExt(filepath.Ext(path))]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
