// Package recipes defines the payload models served by the recipe API and the
// dataset kinds the fetch pipeline caches independently.
package recipes
