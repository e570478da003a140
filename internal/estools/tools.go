package estools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

// labeledJSONResult returns a summary text block followed by a structured
// JSON content block, the two-content-block shape every tool that returns a
// list uses: one line a human can read at a glance, one block a client can
// parse without scraping text.
func labeledJSONResult(label string, data any) (*mcp.CallToolResult, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: label},
			&mcp.TextContent{Text: string(encoded)},
		},
	}, nil
}

func errorResult(format string, args ...any) (*mcp.CallToolResult, error) {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}, nil
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (s *Server) listIndices(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	pattern, _ := stringArg(args, "index_pattern")
	if pattern == "" {
		pattern = "*"
	}

	req := esapi.CatIndicesRequest{
		Index:  []string{pattern},
		Format: "json",
		H:      []string{"index", "status", "docs.count"},
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errorResult("list_indices: request failed: %s", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return errorResult("list_indices: %s", res.String())
	}

	var rows []catIndexRow
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return errorResult("list_indices: decoding response: %s", err)
	}

	result, err := labeledJSONResult(fmt.Sprintf("Found %d indices:", len(rows)), rows)
	if err != nil {
		return errorResult("list_indices: encoding response: %s", err)
	}
	return result, nil
}

func (s *Server) getMappings(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	index, ok := stringArg(args, "index")
	if !ok || index == "" {
		return errorResult("get_mappings: missing required argument \"index\"")
	}

	req := esapi.IndicesGetMappingRequest{Index: []string{index}}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errorResult("get_mappings: request failed: %s", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return errorResult("get_mappings: %s", res.String())
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return errorResult("get_mappings: decoding response: %s", err)
	}

	// Elasticsearch keys the mapping response by the concrete index(es) the
	// pattern resolved to. Only one entry is returned; when the pattern
	// resolved to several indices, which one follows Go's map iteration
	// order and is not defined.
	for _, raw := range body {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Mappings for index %s:", index)},
				&mcp.TextContent{Text: string(raw)},
			},
		}, nil
	}
	return errorResult("get_mappings: no mapping found for index %q", index)
}

func (s *Server) search(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	index, ok := stringArg(args, "index")
	if !ok || index == "" {
		return errorResult("search: missing required argument \"index\"")
	}
	queryBodyRaw, ok := args["query_body"]
	if !ok {
		return errorResult("search: missing required argument \"query_body\"")
	}
	queryBody, ok := queryBodyRaw.(map[string]any)
	if !ok {
		return errorResult("search: \"query_body\" must be an object")
	}

	var fields []string
	if raw, ok := args["fields"].([]any); ok {
		for _, f := range raw {
			if fs, ok := f.(string); ok {
				fields = append(fields, fs)
			}
		}
	}

	// fields augments query_body's own _source rather than being passed as
	// a separate request parameter: an existing _source list is extended,
	// not replaced.
	if len(fields) > 0 {
		existing, _ := queryBody["_source"].([]any)
		merged := make([]any, 0, len(existing)+len(fields))
		merged = append(merged, existing...)
		for _, f := range fields {
			merged = append(merged, f)
		}
		queryBody["_source"] = merged
	}

	bodyJSON, err := json.Marshal(queryBody)
	if err != nil {
		return errorResult("search: encoding query_body: %s", err)
	}

	req := esapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(bodyJSON),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errorResult("search: request failed: %s", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return errorResult("search: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return errorResult("search: decoding response: %s", err)
	}

	var b strings.Builder

	// A pure-aggregation query with no hits omits the "Total results" line
	// and the source dump; every other shape (plain search, or an
	// aggregation that also returned hits) gets it.
	if len(parsed.Aggregations) == 0 || len(parsed.Hits.Hits) > 0 {
		total := 0
		if parsed.Hits.Total != nil {
			total = parsed.Hits.Total.Value
		}
		fmt.Fprintf(&b, "Total results: %d, showing %d.\n", total, len(parsed.Hits.Hits))
	}

	if len(parsed.Hits.Hits) > 0 {
		sources := make([]json.RawMessage, 0, len(parsed.Hits.Hits))
		for _, h := range parsed.Hits.Hits {
			sources = append(sources, h.Source)
		}
		sourceJSON, err := json.Marshal(sources)
		if err != nil {
			return errorResult("search: encoding hits: %s", err)
		}
		b.Write(sourceJSON)
		b.WriteByte('\n')
	}

	if len(parsed.Aggregations) > 0 {
		aggJSON, err := json.Marshal(parsed.Aggregations)
		if err != nil {
			return errorResult("search: encoding aggregations: %s", err)
		}
		b.WriteString("Aggregations results:\n")
		b.Write(aggJSON)
		b.WriteByte('\n')
	}

	return textResult(b.String()), nil
}

func (s *Server) esql(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	query, ok := stringArg(args, "query")
	if !ok || query == "" {
		return errorResult("esql: missing required argument \"query\"")
	}

	bodyJSON, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return errorResult("esql: encoding request: %s", err)
	}

	req := esapi.EsqlQueryRequest{Body: bytes.NewReader(bodyJSON)}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errorResult("esql: request failed: %s", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return errorResult("esql: %s", res.String())
	}

	var parsed esqlResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return errorResult("esql: decoding response: %s", err)
	}

	rows := make([]map[string]any, 0, len(parsed.Values))
	for _, values := range parsed.Values {
		row := make(map[string]any, len(parsed.Columns))
		for i, col := range parsed.Columns {
			if i < len(values) {
				row[col.Name] = values[i]
			}
		}
		rows = append(rows, row)
	}

	result, err := labeledJSONResult("Results", rows)
	if err != nil {
		return errorResult("esql: encoding rows: %s", err)
	}
	return result, nil
}

func (s *Server) getShards(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	req := esapi.CatShardsRequest{Format: "json"}
	if index, ok := stringArg(args, "index"); ok && index != "" {
		req.Index = []string{index}
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errorResult("get_shards: request failed: %s", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return errorResult("get_shards: %s", res.String())
	}

	var rows []catShardRow
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return errorResult("get_shards: decoding response: %s", err)
	}

	result, err := labeledJSONResult(fmt.Sprintf("Found %d shards:", len(rows)), rows)
	if err != nil {
		return errorResult("get_shards: encoding response: %s", err)
	}
	return result, nil
}
