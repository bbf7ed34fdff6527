package result

import "encoding/json"

// Response is one page of raw backend hits in WS/2 entity shape. Each item
// carries its own "score".
type Response struct {
	Items []json.RawMessage `json:"items"`
	Count int               `json:"count"`
}

// Len returns the number of hits on the page.
func (r Response) Len() int { return len(r.Items) }
