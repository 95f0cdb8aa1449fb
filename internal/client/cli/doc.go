// Package cli implements the interactive JobDeck terminal client.
//
// The entry point is NewApp, which wires the local state database, the API
// gateway, the resource services and the session store, and Run, which
// restores the persisted session and starts a read-eval-print loop.
//
// The REPL keeps one paginated listing open at a time; the paging commands
// (search, filter, more, reload) act on whichever resource was opened last.
// Contact rows render masked until unlocked through the credit-spend flow.
package cli
