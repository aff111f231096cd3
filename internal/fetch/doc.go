// Package fetch implements the fetch-with-cache-fallback state machine.
//
// A Pipeline serves one dataset kind. Each request moves Idle → Loading →
// Success or Error:
//
//   - offline: Error("No Internet Connection."), with no remote call and no cache access
//   - transport fault: Error("Recipes Not Found"), then a cache-fallback read
//   - classified Success: write-through to the cache, then Success
//   - classified Error: Error on the primary channel, then a cache-fallback read
//
// A non-empty fallback read is delivered as Success on the fallback channel.
// Nothing is retried and superseded requests are not cancelled, so the last
// delivered outcome wins.
package fetch
