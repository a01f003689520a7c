// Package app builds a table from a definition file and a data file and
// renders its header rows and current page as text.
package app
