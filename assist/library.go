package assist

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Library answers the function calls of the model.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

// Function is a tool the model can call.
type Function interface {
	// Declaration declares this function to the model.
	Declaration() *genai.FunctionDeclaration
	// Call calls this function.
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// NewLibrary dispatches calls to functions by name.
func NewLibrary[T Function](functions []T) Library {
	return func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		for _, f := range functions {
			if f.Declaration().Name == call.Name {
				return f.Call(ctx, call.ID, call.Args)
			}
		}
		return &genai.FunctionResponse{
			ID:   call.ID,
			Name: call.Name,
			Response: map[string]any{
				"error": fmt.Sprintf("unknown function %s", call.Name),
			},
		}
	}
}

// NewDeclaration returns the declarations of functions.
func NewDeclaration[T Function](functions []T) []*genai.FunctionDeclaration {
	result := make([]*genai.FunctionDeclaration, 0, len(functions))
	for _, f := range functions {
		result = append(result, f.Declaration())
	}
	return result
}

// Tool is a Function without arguments returning a markdown document.
type Tool struct {
	Name        string
	Description string
	Render      func(ctx context.Context) (string, error)
}

func (t Tool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name,
		Description: t.Description,
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown document.",
		},
	}
}

func (t Tool) Call(ctx context.Context, id string, _ map[string]any) *genai.FunctionResponse {
	resp := &genai.FunctionResponse{ID: id, Name: t.Name, Response: map[string]any{}}
	doc, err := t.Render(ctx)
	if err != nil {
		resp.Response["error"] = err.Error()
		return resp
	}
	resp.Response["output"] = doc
	return resp
}
