package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/studykit/pkg/core"
)

type buildOptions struct {
	allowDangling bool
}

// Option configures MindMap.
type Option func(*buildOptions)

// AllowDangling keeps edges whose endpoints were never declared. The missing
// endpoint is added as an implicit node labelled with its id, so the graph
// still satisfies the declared-endpoint invariant.
// By default such edges are dropped and reported.
func AllowDangling() Option {
	return func(o *buildOptions) {
		o.allowDangling = true
	}
}

// MindMap builds a graph from a JSON object {"nodes": [...], "edges": [...]}.
//
// The payload fails as a whole, with core.ErrMalformedGraph, only when it is
// not a JSON object or either array is missing. Node entries need an id and a
// label; edge entries need a source and a target and default their relation to
// core.DefaultRelation. Invalid entries are skipped and listed in the report.
func MindMap(text string, opts ...Option) (*core.Graph, Report, error) {
	o := &buildOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var report Report
	graph := &core.Graph{Nodes: []core.Node{}, Edges: []core.Edge{}}

	body := StripFence(text)
	if body == "" {
		return graph, report, nil
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return graph, report, fmt.Errorf("%w: %v", core.ErrMalformedGraph, err)
	}
	rawNodes, err := array(payload, "nodes")
	if err != nil {
		return graph, report, err
	}
	rawEdges, err := array(payload, "edges")
	if err != nil {
		return graph, report, err
	}

	declared := make(map[string]bool, len(rawNodes))
	for i, raw := range rawNodes {
		entry, ok := object(raw)
		if !ok {
			report.drop(fmt.Errorf("%w: node %d is not an object", core.ErrValidationDropped, i))
			continue
		}
		id, hasID := scalar(entry, "id")
		label, hasLabel := scalar(entry, "label")
		if !hasID || id == "" || !hasLabel {
			report.drop(fmt.Errorf("%w: node %d needs both id and label", core.ErrValidationDropped, i))
			continue
		}
		if declared[id] {
			report.drop(fmt.Errorf("%w: node %d repeats id %q", core.ErrValidationDropped, i, id))
			continue
		}
		desc, ok := scalar(entry, "description")
		if !ok {
			desc, _ = scalar(entry, "desc")
		}
		declared[id] = true
		graph.Nodes = append(graph.Nodes, core.Node{ID: id, Label: label, Description: desc})
	}

	for i, raw := range rawEdges {
		entry, ok := object(raw)
		if !ok {
			report.drop(fmt.Errorf("%w: edge %d is not an object", core.ErrValidationDropped, i))
			continue
		}
		source, hasSource := scalar(entry, "source")
		target, hasTarget := scalar(entry, "target")
		if !hasSource || !hasTarget || source == "" || target == "" {
			report.drop(fmt.Errorf("%w: edge %d needs both source and target", core.ErrValidationDropped, i))
			continue
		}

		if !declared[source] || !declared[target] {
			if !o.allowDangling {
				report.drop(fmt.Errorf("%w: edge %d %s-%s references an undeclared node", core.ErrValidationDropped, i, source, target))
				continue
			}
			for _, id := range []string{source, target} {
				if !declared[id] {
					declared[id] = true
					graph.Nodes = append(graph.Nodes, core.Node{ID: id, Label: id})
				}
			}
		}

		relation, ok := scalar(entry, "relation")
		if !ok || relation == "" {
			relation, ok = scalar(entry, "label")
		}
		if !ok || relation == "" {
			relation = core.DefaultRelation
		}
		graph.Edges = append(graph.Edges, core.Edge{Source: source, Target: target, Relation: relation})
	}

	return graph, report, nil
}

func array(payload map[string]json.RawMessage, field string) ([]json.RawMessage, error) {
	raw, ok := payload[field]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", core.ErrMalformedGraph, field)
	}
	var items []json.RawMessage
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) || json.Unmarshal(raw, &items) != nil {
		return nil, fmt.Errorf("%w: %q is not an array", core.ErrMalformedGraph, field)
	}
	return items, nil
}

func object(raw json.RawMessage) (map[string]any, bool) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var entry map[string]any
	if err := dec.Decode(&entry); err != nil {
		return nil, false
	}
	return entry, true
}

// scalar reads a string, number or boolean field as text. Null, objects and
// arrays count as absent.
func scalar(entry map[string]any, field string) (string, bool) {
	switch v := entry[field].(type) {
	case string:
		return strings.TrimSpace(v), true
	case json.Number:
		return v.String(), true
	case bool:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}
