// Package client sends bound requests.
//
// [Adapter] is the transport contract: it takes an *operation.Request,
// renders it with the per-send options and returns the raw reply. Adapters
// never modify the request, so a request built once can be sent any number
// of times.
//
// [HTTPClient] is the net/http adapter:
//
//	c, err := client.New(client.WithUserAgent("petstore-cli/1.0"))
//	res, err := c.Request(ctx, req, resp,
//		client.WithURLNetloc("localhost:8080"),
//		client.WithHeaders(operation.Pairs("X-Tag", "a", "X-Tag", "b")),
//		client.WithJoinHeaders(true))
//
// Send options:
//
//   - [WithURLNetloc] replaces the declared host and port
//   - [WithHeaders] merges operation.HeaderMap or operation.HeaderPairs
//   - [WithJoinHeaders] sends repeated headers as one comma-joined line
package client
