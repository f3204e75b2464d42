package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OperationKind classifies what a mutation request does to its target.
type OperationKind int

const (
	// OpCreate writes a target that does not exist yet.
	OpCreate OperationKind = iota
	// OpReplace rewrites the full content of an existing target.
	OpReplace
	// OpPatch applies a partial edit, expressed as the full resulting content.
	OpPatch
)

func (k OperationKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpReplace:
		return "replace"
	case OpPatch:
		return "patch"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ParseOperationKind converts a user-supplied kind name into an OperationKind.
func ParseOperationKind(s string) (OperationKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "create":
		return OpCreate, nil
	case "replace":
		return OpReplace, nil
	case "patch":
		return OpPatch, nil
	default:
		return 0, fmt.Errorf("unknown operation kind %q (expected create, replace, or patch)", s)
	}
}

// MarshalJSON stores the kind by name so ledger metadata stays readable.
func (k OperationKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *OperationKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseOperationKind(name)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
