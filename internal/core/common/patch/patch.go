// Package patch applies RFC 7396 JSON merge patches to typed values.
package patch

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	errors "github.com/frahmantamala/asset-management/internal"
)

// Merge returns current with patch applied. Keys set to null in the patch
// reset the field to its zero value; absent keys keep their current value.
func Merge[T any](current T, patch []byte) (T, error) {
	var out T

	trimmed := bytes.TrimSpace(patch)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return out, errors.NewValidationError("update body must be a JSON object", errors.ErrCodeInvalidPatch)
	}

	doc, err := json.Marshal(current)
	if err != nil {
		return out, fmt.Errorf("encode current value: %w", err)
	}

	merged, err := jsonpatch.MergePatch(doc, trimmed)
	if err != nil {
		return out, errors.NewValidationError(fmt.Sprintf("invalid merge patch: %v", err), errors.ErrCodeInvalidPatch)
	}

	if err := json.Unmarshal(merged, &out); err != nil {
		return out, errors.NewValidationError(fmt.Sprintf("invalid field value: %v", err), errors.ErrCodeInvalidPatch)
	}
	return out, nil
}
