package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-nodes/internal/node"
	"github.com/ironsheep/image-nodes/internal/workflow"
)

// runCommand creates the workflow execution command.
func (c *CLI) runCommand() *cobra.Command {
	var (
		inputs []string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "run <workflow.hcl>",
		Short: "Run an HCL workflow",
		Long: `Run executes a workflow file and prints its outputs as JSON.

Inputs are given as name=value. Values that parse as JSON numbers, booleans,
arrays or objects are passed as such; anything else is a string, so image
inputs are plain paths:

  image-nodes run tile.hcl --input photo=cat.png --out ./out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			g, err := workflow.LoadHCL(args[0], c.catalog)
			if err != nil {
				return err
			}
			values, err := parseInputs(inputs)
			if err != nil {
				return err
			}
			assets, err := c.openAssets()
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			res, err := (&workflow.Runner{}).Run(ctx, g, assets, values)
			if err != nil {
				return err
			}
			prog.done("Workflow complete", "steps", len(g.Steps))

			if outDir != "" {
				for _, name := range slices.Sorted(maps.Keys(res.Outputs)) {
					ref, ok := res.Outputs[name].(node.ImageRef)
					if !ok {
						continue
					}
					saved, err := assets.SaveImage(ctx, ref, node.FolderRef{URI: outDir}, name+".png")
					if err != nil {
						return fmt.Errorf("save output %q: %w", name, err)
					}
					res.Outputs[name] = saved
					c.Logger.Info("Saved output", "name", name, "uri", saved.URI)
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res.Outputs)
		},
	}

	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "workflow input as name=value (repeatable)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write image outputs to")
	return cmd
}

// parseInputs turns name=value pairs into workflow input values.
func parseInputs(pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("input %q: want name=value", p)
		}
		if _, dup := values[name]; dup {
			return nil, fmt.Errorf("input %q given twice", name)
		}
		values[name] = inputValue(value)
	}
	return values, nil
}

func inputValue(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	return s
}
