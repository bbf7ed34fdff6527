// Package entitysearch is an embedded client for structured MusicBrainz
// entity search. It builds Lucene queries from field conditions, sends them
// to the MusicBrainz web service or an Elasticsearch mirror and returns the
// normalized hits, without running the HTTP API.
//
//	client, _ := entitysearch.New(ctx,
//	    entitysearch.WithWebService("", "my-app/1.0 (me@example.com)"),
//	    entitysearch.WithValkey("localhost:6379", ""),
//	)
//	defer client.Close()
//
//	page, _ := client.Query("artist").
//	    Where("artist", "Beatles").
//	    Where("type", "group").
//	    Do(ctx)
//
// Failed searches return an error wrapping ErrBackend; the page is never
// partially filled.
package entitysearch
