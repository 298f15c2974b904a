// Package ui holds the color themes used by the command line summary.
// Progress lines themselves are never colored so their width stays exact.
package ui
