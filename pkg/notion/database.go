package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// QueryAll pages through a database and returns every result. The next
// page is requested in the background while the current one is appended.
func QueryAll(ctx context.Context, c Client, dbID string, filter notionapi.Filter) ([]notionapi.Page, error) {
	type pageResult struct {
		resp *notionapi.DatabaseQueryResponse
		err  error
	}
	fetch := func(cursor notionapi.Cursor) <-chan pageResult {
		ch := make(chan pageResult, 1)
		go func() {
			resp, err := c.QueryDatabase(ctx, dbID, &notionapi.DatabaseQueryRequest{
				Filter:      filter,
				StartCursor: cursor,
			})
			ch <- pageResult{resp: resp, err: err}
		}()
		return ch
	}

	var all []notionapi.Page
	next := fetch("")
	for {
		r := <-next
		if r.err != nil {
			return nil, eris.Wrap(r.err, "notion: query all")
		}
		if r.resp.HasMore {
			next = fetch(r.resp.NextCursor)
		}
		all = append(all, r.resp.Results...)
		if !r.resp.HasMore {
			return all, nil
		}
	}
}

// IndexByText maps the plain text of a rich-text property to its page ID.
// Pages where the property is missing or blank are skipped; the first page
// wins on duplicates.
func IndexByText(pages []notionapi.Page, property string) map[string]string {
	idx := make(map[string]string, len(pages))
	for _, p := range pages {
		key := PlainText(p.Properties[property])
		if key == "" {
			continue
		}
		if _, dup := idx[key]; !dup {
			idx[key] = string(p.ID)
		}
	}
	return idx
}
