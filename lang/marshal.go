package lang

import (
	"encoding/json"
)

// ToMap converts an expression tree to native Go maps and slices for
// serialization. Every node has a "kind" and a "span" of [offset, length].
func ToMap(e Expr) map[string]any {
	pos := e.Span()

	m := map[string]any{
		"kind": nodeKind(e),
		"span": []int{pos.Offset, pos.Length},
	}

	switch x := e.(type) {
	case *Text:
		m["value"] = x.Value
	case *Number:
		m["value"] = x.Value
	case *Identifier:
		m["name"] = x.Name
	case *Keyword:
		m["name"] = x.Name
	case *Deferred:
		m["inner"] = ToMap(x.Inner)
	case *Block:
		m["body"] = ToMap(x.Body)
	case *Chain:
		list := make([]any, len(x.Items))
		for i, item := range x.Items {
			list[i] = ToMap(item)
		}

		m["items"] = list
	}

	return m
}

// MarshalJSON implements json.Marshaler.
func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(ToMap(q.Expr))
}
