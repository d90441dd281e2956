// Package task holds the in-memory task store and title validation.
//
// Tasks live for the lifetime of the process. Ids start at 1 and are
// assigned in insertion order; a rejected title never consumes an id.
package task
