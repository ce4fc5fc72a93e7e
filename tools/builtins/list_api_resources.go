package builtins

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/initializ/bosun/security"
	"github.com/initializ/bosun/tools"
)

// ListAPIResourcesName is the tool that reports the whitelisted root paths.
const ListAPIResourcesName = "list_api_resources"

type listAPIResourcesTool struct {
	whitelist *security.Whitelist
}

func (t *listAPIResourcesTool) Name() string { return ListAPIResourcesName }
func (t *listAPIResourcesTool) Description() string {
	return "List the boatyard REST API root resources reachable through call_api_resource."
}

func (t *listAPIResourcesTool) InputSchema() json.RawMessage {
	return json.RawMessage(`{"type": "object", "additionalProperties": false, "properties": {}}`)
}

// Execute ignores its arguments and always succeeds.
func (t *listAPIResourcesTool) Execute(_ context.Context, _ json.RawMessage) (*tools.Result, error) {
	data, err := json.Marshal(map[string][]string{"resources": t.whitelist.Roots()})
	if err != nil {
		return nil, fmt.Errorf("encoding resources: %w", err)
	}
	return tools.TextResult(string(data)), nil
}
