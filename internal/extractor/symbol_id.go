package extractor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"fileranker/internal/ir"
)

// BuildStableFactID creates a deterministic fact ID.
// The ID is derived from the owning file, the kind and the nesting path, so
// re-extracting unchanged source yields the same IDs and parent links.
func BuildStableFactID(file string, kind ir.Kind, binaryName, name string) string {
	file = filepath.ToSlash(strings.TrimSpace(file))
	if file == "" {
		file = "_"
	}
	if name == "" {
		name = "_"
	}

	fingerprint := strings.Join([]string{
		file,
		string(kind),
		binaryName,
		name,
	}, "|")

	sum := sha256.Sum256([]byte(fingerprint))
	short := hex.EncodeToString(sum[:8])
	return fmt.Sprintf("%s:%s:%s", kind, name, short)
}
