package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ironsheep/image-nodes/internal/node"
	"github.com/ironsheep/image-nodes/internal/workflow"
)

// maxImageContent caps how many images one response embeds.
const maxImageContent = 16

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "lib_grid_SliceImageGrid").
	Name string `json:"name"`

	// Arguments contains the node's field values as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}, {"type": "image", ...}]
//	}
//
// Image results are embedded as image content after the text block.
// Invalid arguments return -32602; execution errors return -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("Tool failed", "tool", params.Name, "err", err)
		if node.IsInputError(err) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid tool arguments", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": mustMarshalJSON(result),
		},
	}
	content = append(content, s.imageContent(ctx, result)...)

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
	}
}

// executeTool runs the workflow tool or the node a tool name maps to.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if name == WorkflowTool {
		return s.handleWorkflowRun(ctx, args)
	}

	typ, ok := s.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown tool: %s", node.ErrUnknownType, name)
	}
	n, err := s.registry.New(typ)
	if err != nil {
		return nil, err
	}
	if err := node.ApplyJSON(n, args); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := node.Invoke(ctx, n, s.assets)
	s.metrics.ObserveNode(typ, time.Since(start), err)
	return result, err
}

type workflowRunArgs struct {
	Source string                     `json:"source"`
	Inputs map[string]json.RawMessage `json:"inputs"`
}

func (s *Server) handleWorkflowRun(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a workflowRunArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", node.ErrInvalidInput, err)
	}
	if a.Source == "" {
		return nil, fmt.Errorf("%w: source is required", node.ErrInvalidInput)
	}

	g, err := workflow.ParseHCL([]byte(a.Source), "workflow.hcl", s.registry)
	if err != nil {
		return nil, err
	}
	inputs := make(map[string]any, len(a.Inputs))
	for k, v := range a.Inputs {
		inputs[k] = v
	}
	return s.runner.Run(ctx, g, s.assets, inputs)
}

// imageContent embeds the images a result refers to.
func (s *Server) imageContent(ctx context.Context, result interface{}) []map[string]interface{} {
	var refs []node.ImageRef
	switch v := result.(type) {
	case node.ImageRef:
		refs = []node.ImageRef{v}
	case []node.ImageRef:
		refs = v
	case *workflow.Result:
		for _, out := range v.Outputs {
			if ref, ok := out.(node.ImageRef); ok {
				refs = append(refs, ref)
			}
		}
	}

	var content []map[string]interface{}
	for _, ref := range refs {
		if len(content) == maxImageContent {
			break
		}
		data, err := s.assets.Bytes(ctx, ref)
		if err != nil {
			s.logger.Warn("Cannot embed image", "ref", ref.URI, "err", err)
			continue
		}
		content = append(content, map[string]interface{}{
			"type":     "image",
			"data":     base64.StdEncoding.EncodeToString(data),
			"mimeType": http.DetectContentType(data),
		})
	}
	return content
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
