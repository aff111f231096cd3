// Package handlers contains HTTP handlers for the recipefeed HTTP API.
//
// This package provides handlers for:
//   - The recipe list, search and food joke feeds
//   - Favorites management
//   - Meal and diet preferences
//   - Health and connectivity endpoints
//
// Feed handlers always answer 200 with every outcome the request emitted;
// a failed fetch is an Error outcome in the body, not an HTTP error. HTTP
// errors are reserved for bad input and local storage failures and are
// written through the foundation/errors HTTP adapter.
package handlers
