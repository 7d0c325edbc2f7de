package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/donaldgifford/ozon-seller-client/internal/ozon"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

// printDocument prints the members of a response as key/value rows. The
// "result" member is used when it is an object; other shapes are printed as
// JSON.
func printDocument(w io.Writer, doc ozon.Document) error {
	if apiErr := doc.APIError(); apiErr != nil {
		tw := newTabWriter(w)
		tw.writef("Code:\t%d\n", apiErr.Code)
		tw.writef("Message:\t%s\n", apiErr.Message)
		if len(apiErr.Details) > 0 {
			tw.writef("Details:\t%s\n", formatValue(apiErr.Details))
		}
		return tw.finish()
	}

	fields := map[string]any(doc)
	if result, ok := doc["result"]; ok {
		m, isObject := result.(map[string]any)
		if !isObject {
			return outputJSON(w, result)
		}
		fields = m
	}

	keys := lo.Keys(fields)
	slices.Sort(keys)

	tw := newTabWriter(w)
	for _, k := range keys {
		tw.writef("%s:\t%s\n", k, formatValue(fields[k]))
	}
	return tw.finish()
}

func printCategoryTree(w io.Writer, nodes []any) error {
	tw := newTabWriter(w)
	tw.writef("CATEGORY ID\tTYPE ID\tNAME\tDISABLED\n")
	writeTreeNodes(tw, nodes, 0)
	return tw.finish()
}

func writeTreeNodes(tw *tabWriter, nodes []any, depth int) {
	for _, n := range nodes {
		node, ok := n.(map[string]any)
		if !ok {
			continue
		}
		name := node["category_name"]
		if name == nil {
			name = node["type_name"]
		}
		tw.writef("%s\t%s\t%s%s\t%s\n",
			formatValue(node["description_category_id"]),
			formatValue(node["type_id"]),
			strings.Repeat("  ", depth),
			formatValue(name),
			formatValue(node["disabled"]),
		)
		if children, ok := node["children"].([]any); ok {
			writeTreeNodes(tw, children, depth+1)
		}
	}
}

func printAttributesTable(w io.Writer, attrs []ozon.Attribute) error {
	tw := newTabWriter(w)
	tw.writef("ID\tNAME\tTYPE\tREQUIRED\tCOLLECTION\tDICTIONARY\tGROUP\n")
	for i := range attrs {
		a := &attrs[i]
		tw.writef("%d\t%s\t%s\t%v\t%v\t%d\t%s\n",
			a.ID,
			truncate(a.Name, 40),
			a.Type,
			a.IsRequired,
			a.IsCollection,
			a.DictionaryID,
			a.GroupName,
		)
	}
	return tw.finish()
}

func printValuesTable(w io.Writer, values []ozon.AttributeValue) error {
	tw := newTabWriter(w)
	tw.writef("ID\tVALUE\tINFO\n")
	for _, v := range values {
		tw.writef("%s\t%s\t%s\n",
			formatValue(v["id"]),
			truncate(formatValue(v["value"]), 50),
			truncate(formatValue(v["info"]), 40),
		)
	}
	return tw.finish()
}

func printCategoryInfo(w io.Writer, info *ozon.CategoryInfo) error {
	failed := lo.SliceToMap(info.Failures, func(f ozon.FieldFailure) (int64, bool) {
		return f.AttributeID, true
	})

	tw := newTabWriter(w)
	tw.writef("ID\tNAME\tREQUIRED\tVALUES\tCOMPLETE\n")
	for i := range info.Fields {
		f := &info.Fields[i]
		tw.writef("%d\t%s\t%v\t%d\t%v\n",
			f.ID,
			truncate(f.Name, 40),
			f.IsRequired,
			len(f.Values),
			!failed[f.ID],
		)
	}
	return tw.finish()
}

func printProductsTable(w io.Writer, doc ozon.Document) error {
	result, _ := doc.Result().(map[string]any)
	items, _ := result["items"].([]any)
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No products found.")
		return err
	}

	tw := newTabWriter(w)
	tw.writef("PRODUCT ID\tOFFER ID\tARCHIVED\n")
	for _, it := range lo.FilterMap(items, asObject) {
		tw.writef("%s\t%s\t%s\n",
			formatValue(it["product_id"]),
			formatValue(it["offer_id"]),
			formatValue(it["archived"]),
		)
	}
	tw.writef("\nTotal:\t%s\n", formatValue(result["total"]))
	tw.writef("Last ID:\t%s\n", formatValue(result["last_id"]))
	return tw.finish()
}

func asObject(v any, _ int) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// formatValue renders a decoded JSON value for a table cell.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return truncate(string(data), 60)
	}
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// render prints a response in the selected format and returns the business
// error it carries, if any.
func (a *app) render(w io.Writer, doc ozon.Document, table func(io.Writer, ozon.Document) error) error {
	var err error
	if a.jsonOutput() {
		err = outputJSON(w, doc)
	} else {
		err = table(w, doc)
	}
	if err != nil {
		return err
	}
	if apiErr := doc.APIError(); apiErr != nil {
		return apiErr
	}
	return nil
}
