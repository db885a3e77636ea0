// Package constants provides shared constant values used throughout the application.
//
// The httpcodes.go file defines HTTP header names, content types and the header
// values written by the response middleware. Keeping them here means the no-cache
// policy and the security headers are declared exactly once.
package constants

// HTTP Header Names define common HTTP headers used in requests and responses.
const (
	// HeaderContentType specifies the media type of the resource.
	HeaderContentType = "Content-Type"

	// HeaderContentLength specifies the size of the entity-body in bytes.
	HeaderContentLength = "Content-Length"

	// HeaderContentDisposition suggests how the content should be displayed.
	HeaderContentDisposition = "Content-Disposition"

	// HeaderCacheControl directs caching behavior for the request/response chain.
	HeaderCacheControl = "Cache-Control"

	// HeaderPragma provides HTTP/1.0 caching directives.
	HeaderPragma = "Pragma"

	// HeaderExpires specifies the date/time after which the response is considered stale.
	HeaderExpires = "Expires"

	// HeaderRetryAfter tells a rate-limited client when to retry.
	HeaderRetryAfter = "Retry-After"

	// HeaderXRequestID contains a unique identifier for the HTTP request.
	HeaderXRequestID = "X-Request-ID"

	// HeaderXContentTypeOptions controls MIME type sniffing.
	HeaderXContentTypeOptions = "X-Content-Type-Options"

	// HeaderXFrameOptions controls whether the page can be displayed in a frame.
	HeaderXFrameOptions = "X-Frame-Options"

	// HeaderReferrerPolicy controls how much referrer information is sent.
	HeaderReferrerPolicy = "Referrer-Policy"
)

// HTTP Content Types define media types used in the Content-Type header.
const (
	// ContentTypeJSON specifies the content is in JSON format.
	ContentTypeJSON = "application/json"

	// ContentTypePDF specifies a PDF document.
	ContentTypePDF = "application/pdf"
)

// Header Values written by the response middleware.
const (
	// CacheControlNoStore disables every browser and proxy cache.
	CacheControlNoStore = "no-store, no-cache, must-revalidate, max-age=0"

	// PragmaNoCache prevents caching in HTTP/1.0 caches.
	PragmaNoCache = "no-cache"

	// ExpiresZero marks the response as already expired.
	ExpiresZero = "0"

	// FrameOptionsDeny prevents the page from being displayed in a frame.
	FrameOptionsDeny = "DENY"

	// ContentTypeOptionsNoSniff prevents MIME type sniffing.
	ContentTypeOptionsNoSniff = "nosniff"

	// ReferrerPolicyStrictOrigin restricts referrer information for cross-origin requests.
	ReferrerPolicyStrictOrigin = "strict-origin-when-cross-origin"
)
