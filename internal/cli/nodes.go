package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-nodes/internal/node"
)

type nodeInfo struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Tags        []string               `json:"tags,omitempty"`
	BasicFields []string               `json:"basic_fields,omitempty"`
	Schema      map[string]interface{} `json:"schema"`
}

// nodesCommand creates the catalog listing command.
func (c *CLI) nodesCommand() *cobra.Command {
	var (
		asJSON    bool
		namespace string
	)

	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List the node catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var descs []node.Descriptor
			for _, d := range c.catalog.Descriptors() {
				if namespace == "" || node.Namespace(d.Type) == namespace || strings.HasPrefix(d.Type, namespace+".") {
					descs = append(descs, d)
				}
			}

			if asJSON {
				infos := make([]nodeInfo, len(descs))
				for i, d := range descs {
					infos[i] = nodeInfo{
						Type:        d.Type,
						Description: d.Description,
						Tags:        d.Tags,
						BasicFields: d.BasicFields,
						Schema:      node.Schema(d),
					}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, d := range descs {
				fmt.Fprintf(tw, "%s\t%s\n", d.Type, d.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print descriptors and input schemas as JSON")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "only list nodes under this namespace, e.g. lib.svg")
	return cmd
}
