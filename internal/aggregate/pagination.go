package aggregate

import "context"

// drainPages eagerly exhausts a cursor-paginated upstream list call,
// concatenating every page's items into a single slice. The aggregate
// never forwards cursors to its own downstream client: callers of
// ListTools/ListResources/etc. on the aggregate always see the complete,
// already-merged result in one page.
//
// call is invoked repeatedly with the cursor returned by the previous call
// (starting from the empty cursor) until a page reports no further cursor.
// items/nextCursor extract the page's contents since the four list result
// types (tools, resources, resource templates, prompts) do not share a
// common field-accessible shape in Go.
func drainPages[Result any, Item any](
	ctx context.Context,
	call func(ctx context.Context, cursor string) (Result, error),
	items func(Result) []Item,
	nextCursor func(Result) string,
) ([]Item, error) {
	var all []Item
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := call(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, items(page)...)
		cursor = nextCursor(page)
		if cursor == "" {
			break
		}
	}
	return all, nil
}
