// Package github provides a minimal client for the GitHub gists API.
//
// Only the public listing endpoint is used:
//
//	GET /users/{username}/gists
//
// No authentication is applied and no pagination is followed.
package github
