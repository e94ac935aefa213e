package check

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wI2L/jsondiff"
)

// normalizeDocument parses a serialized payload into a generic document so
// the comparison sees structure, not serialization artifacts. After this
// step map key order is insignificant; array order is preserved.
func normalizeDocument(raw json.RawMessage) (any, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// diffBlocks structurally compares the cached payload against the
// canonical one and renders a human-readable delta. An empty string means
// the payloads are structurally equal. A diff that carries no operations
// is treated as equality even when the raw representations differ.
func diffBlocks(cached, canonical json.RawMessage) (string, error) {
	cachedDoc, err := normalizeDocument(cached)
	if err != nil {
		return "", fmt.Errorf("cannot parse cached block payload: %w", err)
	}
	canonicalDoc, err := normalizeDocument(canonical)
	if err != nil {
		return "", fmt.Errorf("cannot parse canonical block payload: %w", err)
	}

	patch, err := jsondiff.Compare(cachedDoc, canonicalDoc)
	if err != nil {
		return "", fmt.Errorf("failed to diff block payloads: %w", err)
	}
	if len(patch) == 0 {
		return "", nil
	}

	return renderPatch(patch), nil
}

// renderPatch formats the operations turning the cached payload into the
// canonical one, one line per changed key or array position.
func renderPatch(patch jsondiff.Patch) string {
	var b strings.Builder
	for _, op := range patch {
		switch op.Type {
		case jsondiff.OperationAdd:
			fmt.Fprintf(&b, "+ %s: %s\n", op.Path, renderValue(op.Value))
		case jsondiff.OperationRemove:
			fmt.Fprintf(&b, "- %s: %s\n", op.Path, renderValue(op.OldValue))
		case jsondiff.OperationReplace:
			fmt.Fprintf(&b, "~ %s: %s -> %s\n", op.Path, renderValue(op.OldValue), renderValue(op.Value))
		default:
			fmt.Fprintf(&b, "%s %s\n", op.Type, op.Path)
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderValue(v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(out)
}
