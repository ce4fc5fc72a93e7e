package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/initializ/bosun/jsonrpc"
	"github.com/initializ/bosun/tools"
	"github.com/initializ/bosun/tools/adapters"
)

// LocalClient calls a gateway in process. It follows the same contract as
// adapters.GatewayClient, so the agent loop can use either.
type LocalClient struct {
	g *Gateway
}

// Local returns an in-process client for g.
func (g *Gateway) Local() *LocalClient {
	return &LocalClient{g: g}
}

// ListTools returns the gateway's descriptors.
func (c *LocalClient) ListTools(context.Context) ([]tools.Descriptor, error) {
	return c.g.Descriptors(), nil
}

// CallTool dispatches tools/call and returns the marshalled result.
func (c *LocalClient) CallTool(ctx context.Context, name string, arguments json.RawMessage) (json.RawMessage, error) {
	if len(arguments) == 0 {
		arguments = json.RawMessage(`{}`)
	}
	params, err := json.Marshal(CallParams{Name: name, Arguments: arguments})
	if err != nil {
		return nil, fmt.Errorf("marshalling tools/call params: %w", err)
	}

	resp := c.g.Dispatch(ctx, &jsonrpc.Request{
		JSONRPC: jsonrpc.Version,
		ID:      json.RawMessage(`0`),
		Method:  MethodToolsCall,
		Params:  params,
	})
	if resp == nil || (resp.Result == nil && resp.Error == nil) {
		return nil, adapters.ErrResultMissing
	}
	if resp.Error != nil {
		return nil, &adapters.GatewayError{Code: resp.Error.Code, Message: resp.Error.Message}
	}
	return json.Marshal(resp.Result)
}
