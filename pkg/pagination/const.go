package pagination

// PageDefaultSize is the page size used when none is requested.
const PageDefaultSize = 100

// PageMaxSize caps a single page; the document stores translate pages into
// offset queries.
const PageMaxSize = 1_000
