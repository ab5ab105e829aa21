package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/crumbtrail/internal/breadcrumb"
	"github.com/hupe1980/crumbtrail/internal/view"
)

// TextSeparator joins labels in the text rendering.
const TextSeparator = " / "

// Crumb is a trail entry together with its key in the trail.
type Crumb struct {
	Key   string
	Entry breadcrumb.Entry
}

// FromTrail collects the breadcrumb entries of t in order. Values that are
// not entries are skipped.
func FromTrail(t *view.Trail) []Crumb {
	if t == nil {
		return nil
	}

	keys := t.Keys()
	crumbs := make([]Crumb, 0, len(keys))

	for _, k := range keys {
		v, _ := t.Get(k)

		e, ok := v.(breadcrumb.Entry)
		if !ok {
			continue
		}

		crumbs = append(crumbs, Crumb{Key: k, Entry: e})
	}

	return crumbs
}

// Renderer writes crumbs to w in one format.
type Renderer func(w io.Writer, crumbs []Crumb) error

// RenderText writes the labels on one line, "Home / Admin / Users". An
// empty trail writes an empty line.
func RenderText(w io.Writer, crumbs []Crumb) error {
	labels := make([]string, len(crumbs))
	for i, c := range crumbs {
		labels[i] = c.Entry.Label
	}

	if _, err := fmt.Fprintln(w, strings.Join(labels, TextSeparator)); err != nil {
		return fmt.Errorf("writing text: %w", err)
	}

	return nil
}

// RenderTable writes one row per crumb with columns aligned by display
// width, so wide runes in labels keep the table straight.
func RenderTable(w io.Writer, crumbs []Crumb) error {
	header := []string{"KEY", "LABEL", "URL", "ACTIVE"}
	rows := [][]string{header}

	for _, c := range crumbs {
		rows = append(rows, []string{
			c.Key,
			c.Entry.Label,
			orDash(c.Entry.URL),
			strconv.FormatBool(c.Entry.Active),
		})
	}

	widths := make([]int, len(header))

	for _, row := range rows {
		for i, cell := range row {
			if n := runewidth.StringWidth(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var buf bytes.Buffer

	for _, row := range rows {
		for i, cell := range row {
			if i == len(row)-1 {
				buf.WriteString(cell)
				break
			}

			buf.WriteString(runewidth.FillRight(cell, widths[i]))
			buf.WriteString("  ")
		}

		buf.WriteByte('\n')
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

// RenderJSON writes the trail as an indented JSON object keyed by trail
// key, in trail order.
func RenderJSON(w io.Writer, crumbs []Crumb) error {
	om := orderedmap.New()
	om.SetEscapeHTML(false)

	for _, c := range crumbs {
		om.Set(c.Key, c.Entry)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(om); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// RenderYAML writes the trail as a YAML mapping keyed by trail key, in
// trail order.
func RenderYAML(w io.Writer, crumbs []Crumb) error {
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, c := range crumbs {
		doc.Content = append(doc.Content, stringNode(c.Key), entryNode(c.Entry))
	}

	if len(crumbs) == 0 {
		doc.Style = yaml.FlowStyle
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}

	return enc.Close()
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func entryNode(e breadcrumb.Entry) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	n.Content = append(n.Content, stringNode("label"), stringNode(e.Label))

	if e.URL != "" {
		n.Content = append(n.Content, stringNode("url"), stringNode(e.URL))
	}

	if e.Active {
		n.Content = append(n.Content,
			stringNode("active"),
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"},
		)
	}

	return n
}
