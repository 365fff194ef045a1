package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/civickit/permitgraph/pkg/types"
)

// nodeEnvelope wraps a node with its kind so heterogeneous nodes share
// one JSONL file and one table.
type nodeEnvelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// encodeNode wraps a node in its kind envelope.
func encodeNode(n types.Node) (json.RawMessage, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", n.NodeID(), err)
	}
	return json.Marshal(nodeEnvelope{Kind: n.Kind(), Data: data})
}

// decodeNode reconstructs a typed node from its kind and payload.
func decodeNode(kind string, data []byte) (types.Node, error) {
	var n types.Node
	switch kind {
	case types.KindProcess:
		n = &types.Process{}
	case types.KindStep:
		n = &types.Step{}
	case types.KindRequirement:
		n = &types.Requirement{}
	case types.KindRule:
		n = &types.Rule{}
	case types.KindDocumentType:
		n = &types.DocumentType{}
	case types.KindOffice:
		n = &types.Office{}
	case types.KindWebResource:
		n = &types.WebResource{}
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownKind, kind)
	}
	if err := json.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("decoding %s node: %w", kind, err)
	}
	return n, nil
}
