// Package docscout acquires and analyzes third-party API documentation.
// Given a handful of URLs typed by a user, it retrieves page content
// (deep crawl, single fetch or raw fallback), extracts API endpoints, code
// samples and authentication hints, reduces the content to what matters for
// the user's request and packages it as a bounded context blob.
//
// This package contains domain types, interfaces and pure analysis functions
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., http/,
// firecrawl/, sqlite/, gin/).
package docscout
