package app

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vk/naosoccer/internal/params"
	"gopkg.in/yaml.v3"
)

// writeParams prints the registry in the given format. Text and YAML keep
// registration order; JSON objects are keyed by namespace.
func writeParams(w io.Writer, reg *params.Registry, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reg.Snapshot())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(yamlParams(reg)); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAMESPACE\tNAME\tVALUE")
		for _, e := range reg.Entries() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key.Namespace, e.Key.Name, e.Value)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// yamlParams builds a namespace -> name -> value mapping node in
// registration order.
func yamlParams(reg *params.Registry) *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode}
	namespaces := map[string]*yaml.Node{}
	for _, e := range reg.Entries() {
		ns, ok := namespaces[e.Key.Namespace]
		if !ok {
			ns = &yaml.Node{Kind: yaml.MappingNode}
			namespaces[e.Key.Namespace] = ns
			root.Content = append(root.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: e.Key.Namespace}, ns)
		}
		val := &yaml.Node{}
		if err := val.Encode(e.Value.Interface()); err != nil {
			val = &yaml.Node{Kind: yaml.ScalarNode, Value: e.Value.String()}
		}
		ns.Content = append(ns.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: e.Key.Name}, val)
	}
	return root
}
