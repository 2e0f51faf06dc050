package server

import (
	"strings"

	"github.com/ironsheep/image-nodes/internal/node"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// WorkflowTool runs an HCL workflow in one call.
const WorkflowTool = "workflow_run"

// ToolName converts a node type to a tool name: "lib.image.Resize" becomes
// "lib_image_Resize".
func ToolName(typ string) string {
	return strings.ReplaceAll(typ, ".", "_")
}

// toolDefinitions returns one tool per registered node, sorted by node
// type, followed by the workflow tool.
func (s *Server) toolDefinitions() []Tool {
	descs := s.registry.Descriptors()
	tools := make([]Tool, 0, len(descs)+1)
	for _, d := range descs {
		tools = append(tools, Tool{
			Name:        ToolName(d.Type),
			Description: describe(d),
			InputSchema: node.Schema(d),
		})
	}
	return append(tools, workflowToolDefinition())
}

func describe(d node.Descriptor) string {
	desc := d.Description
	if desc == "" {
		desc = d.Type
	}
	if len(d.Tags) > 0 {
		desc += " Tags: " + strings.Join(d.Tags, ", ") + "."
	}
	return desc
}

func workflowToolDefinition() Tool {
	return Tool{
		Name: WorkflowTool,
		Description: "Run a workflow written in HCL. Declare inputs with `input \"name\" {}` and steps with " +
			"`node \"<type>\" \"<name>\" { field = value }`; reference values as input.<name>, node.<name> " +
			"or node.<name>.<field>. Returns the named outputs and every step's value.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Workflow source in HCL",
				},
				"inputs": map[string]interface{}{
					"type":                 "object",
					"description":          "Values for the declared inputs, keyed by input name. Images may be given as a path or URI string.",
					"additionalProperties": true,
				},
			},
			"required": []string{"source"},
		},
	}
}
