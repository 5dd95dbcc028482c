package unsplash

// BaseURL is the random-image endpoint. The path layout below it is fixed by
// the remote service.
const BaseURL = "https://source.unsplash.com"

const (
	collectionSegment = "/collection/"
	randomSegment     = "/random"

	// cacheSubDir groups downloaded assets under the platform temp dir.
	cacheSubDir = "UnsplashedPaper"
)

// Characters that may appear unescaped in a path segment and in a query,
// beyond ASCII letters and digits.
const (
	pathAllowed  = "-._~!$&'()*+,;=:@/"
	queryAllowed = "-._~!$&'()*+,;=:@/?"
)
