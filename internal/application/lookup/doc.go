// Package lookup implements the gist lookup for a single username.
//
// The service performs exactly one upstream call per lookup and reduces the
// outcome to either an ordered list of gist URLs or ErrLookupFailed. Whether
// the upstream reported 404, another status, a transport failure or an
// unparseable body, callers only ever see ErrLookupFailed.
package lookup
