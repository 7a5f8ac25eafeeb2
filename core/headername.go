package core

// ReqHeader enumerates the request header names given dedicated storage
// slots. Anything else goes in the request's custom map.
type ReqHeader uint8

const (
	ReqAccept ReqHeader = iota
	ReqAcceptEncoding
	ReqAcceptLanguage
	ReqAuthorization
	ReqCacheControl
	ReqConnection
	ReqContentLength
	ReqContentType
	ReqCookie
	ReqDate
	ReqHost
	ReqIfModifiedSince
	ReqIfNoneMatch
	ReqOrigin
	ReqRange
	ReqReferer
	ReqSecWebSocketKey
	ReqSecWebSocketVersion
	ReqSecWebSocketProtocol
	ReqSecWebSocketExtensions
	ReqTransferEncoding
	ReqUpgrade
	ReqUserAgent
	ReqXForwardedFor
	ReqXForwardedProto
	ReqXRequestID

	reqHeaderCount
)

var reqHeaderNames = [reqHeaderCount]string{
	ReqAccept:                 "Accept",
	ReqAcceptEncoding:         "Accept-Encoding",
	ReqAcceptLanguage:         "Accept-Language",
	ReqAuthorization:          "Authorization",
	ReqCacheControl:           "Cache-Control",
	ReqConnection:             "Connection",
	ReqContentLength:          "Content-Length",
	ReqContentType:            "Content-Type",
	ReqCookie:                 "Cookie",
	ReqDate:                   "Date",
	ReqHost:                   "Host",
	ReqIfModifiedSince:        "If-Modified-Since",
	ReqIfNoneMatch:            "If-None-Match",
	ReqOrigin:                 "Origin",
	ReqRange:                  "Range",
	ReqReferer:                "Referer",
	ReqSecWebSocketKey:        "Sec-WebSocket-Key",
	ReqSecWebSocketVersion:    "Sec-WebSocket-Version",
	ReqSecWebSocketProtocol:   "Sec-WebSocket-Protocol",
	ReqSecWebSocketExtensions: "Sec-WebSocket-Extensions",
	ReqTransferEncoding:       "Transfer-Encoding",
	ReqUpgrade:                "Upgrade",
	ReqUserAgent:              "User-Agent",
	ReqXForwardedFor:          "X-Forwarded-For",
	ReqXForwardedProto:        "X-Forwarded-Proto",
	ReqXRequestID:             "X-Request-Id",
}

func (h ReqHeader) String() string { return reqHeaderNames[h] }

// lookupReqHeader resolves a header name seen on the wire to its slot, case
// insensitively. Returns ok=false for anything without a dedicated slot.
func lookupReqHeader(name []byte) (ReqHeader, bool) {
	for i, n := range reqHeaderNames {
		if equalFold(name, n) {
			return ReqHeader(i), true
		}
	}
	return 0, false
}

// ResHeader enumerates the response header names given dedicated storage
// slots.
type ResHeader uint8

const (
	ResAccessControlAllowCredentials ResHeader = iota
	ResAccessControlAllowHeaders
	ResAccessControlAllowMethods
	ResAccessControlAllowOrigin
	ResAccessControlExposeHeaders
	ResAccessControlMaxAge
	ResCacheControl
	ResConnection
	ResContentDisposition
	ResContentEncoding
	ResContentLength
	ResContentType
	ResDate
	ResETag
	ResExpires
	ResLastModified
	ResLocation
	ResPragma
	ResRetryAfter
	ResSecWebSocketAccept
	ResSecWebSocketProtocol
	ResServer
	ResTransferEncoding
	ResUpgrade
	ResVary
	ResWWWAuthenticate
	ResXContentTypeOptions
	ResXFrameOptions
	ResXRequestID

	resHeaderCount
)

var resHeaderNames = [resHeaderCount]string{
	ResAccessControlAllowCredentials: "Access-Control-Allow-Credentials",
	ResAccessControlAllowHeaders:     "Access-Control-Allow-Headers",
	ResAccessControlAllowMethods:     "Access-Control-Allow-Methods",
	ResAccessControlAllowOrigin:      "Access-Control-Allow-Origin",
	ResAccessControlExposeHeaders:    "Access-Control-Expose-Headers",
	ResAccessControlMaxAge:           "Access-Control-Max-Age",
	ResCacheControl:                  "Cache-Control",
	ResConnection:                    "Connection",
	ResContentDisposition:            "Content-Disposition",
	ResContentEncoding:               "Content-Encoding",
	ResContentLength:                 "Content-Length",
	ResContentType:                   "Content-Type",
	ResDate:                          "Date",
	ResETag:                          "ETag",
	ResExpires:                       "Expires",
	ResLastModified:                  "Last-Modified",
	ResLocation:                      "Location",
	ResPragma:                        "Pragma",
	ResRetryAfter:                    "Retry-After",
	ResSecWebSocketAccept:            "Sec-WebSocket-Accept",
	ResSecWebSocketProtocol:          "Sec-WebSocket-Protocol",
	ResServer:                        "Server",
	ResTransferEncoding:              "Transfer-Encoding",
	ResUpgrade:                       "Upgrade",
	ResVary:                          "Vary",
	ResWWWAuthenticate:               "WWW-Authenticate",
	ResXContentTypeOptions:           "X-Content-Type-Options",
	ResXFrameOptions:                 "X-Frame-Options",
	ResXRequestID:                    "X-Request-Id",
}

func (h ResHeader) String() string { return resHeaderNames[h] }

func equalFold(b []byte, s string) bool {
	if len(b) != len(s) {
		return false
	}
	for i := 0; i < len(b); i++ {
		if lower(b[i]) != lower(s[i]) {
			return false
		}
	}
	return true
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 32
	}
	return b
}
