// Package client is the REST client for the summarization backend. It posts
// artifacts as multipart bodies or JSON documents, maps non-2xx answers to
// typed errors and keeps a cookie jar for the session-based PDF flows.
package client
