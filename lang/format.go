package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes e in canonical source syntax to the writer. Parsing the
// output yields an equivalent tree, except for text ending in a backslash,
// which the grammar cannot express.
func Format(_ context.Context, w io.Writer, e Expr) error {
	_, err := fmt.Fprintln(w, e.String())

	return err
}

// FormatAST writes e as an indented tree, one node per line, with the byte
// offset and length of each node.
func FormatAST(_ context.Context, w io.Writer, e Expr, indent int) error {
	return dumpNode(w, e, max(indent, 1), 0)
}

func dumpNode(w io.Writer, e Expr, indent, depth int) error {
	pad := strings.Repeat(" ", depth*indent)
	pos := e.Span()

	var detail string

	switch x := e.(type) {
	case *Text:
		detail = " " + quoteText(x.Value)
	case *Number:
		detail = " " + strconv.Itoa(x.Value)
	case *Identifier:
		detail = " " + x.Name
	case *Keyword:
		detail = " " + x.Name
	}

	if _, err := fmt.Fprintf(w, "%s%s%s @%d+%d\n",
		pad, nodeKind(e), detail, pos.Offset, pos.Length); err != nil {
		return err
	}

	switch x := e.(type) {
	case *Deferred:
		return dumpNode(w, x.Inner, indent, depth+1)

	case *Block:
		return dumpNode(w, x.Body, indent, depth+1)

	case *Chain:
		for _, item := range x.Items {
			if err := dumpNode(w, item, indent, depth+1); err != nil {
				return err
			}
		}
	}

	return nil
}

// FormatJSON writes the tree of e as JSON to the writer.
func FormatJSON(_ context.Context, w io.Writer, e Expr, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(ToMap(e), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(ToMap(e))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the tree of e as YAML to the writer.
func FormatYAML(ctx context.Context, w io.Writer, e Expr, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, ToMap(e), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// FormatResult formats an evaluation result for output, in source syntax
// where the value has one. Text ending in a backslash prints as it would be
// written, but that form does not parse back.
func FormatResult(result any) string {
	return formatResultValue(result)
}

// formatResultValue recursively formats a Go value.
func formatResultValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"

	case bool:
		return strconv.FormatBool(val)

	case int:
		return strconv.Itoa(val)

	case int64:
		return strconv.FormatInt(val, 10)

	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)

	case string:
		return quoteText(val)

	case Symbol:
		return "'" + string(val)

	case Quote:
		return val.String()

	case Method:
		return "<method " + describeMethod(val) + ">"

	case []any:
		return formatSlice(val)

	case []int:
		parts := make([]any, len(val))
		for i, n := range val {
			parts[i] = n
		}

		return formatSlice(parts)

	case map[string]any:
		return formatMap(val)

	case fmt.Stringer:
		return val.String()

	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatSlice formats a slice as a list constructor.
func formatSlice(vals []any) string {
	if len(vals) == 0 {
		return "(list)"
	}

	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatResultValue(v)
	}

	return "(list " + strings.Join(parts, " ") + ")"
}

// formatMap formats a map as key/value pairs in key order.
func formatMap(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + formatResultValue(m[k])
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
