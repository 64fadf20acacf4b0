// Package templates holds the HTML fragments swapped in by HTMX requests.
// The *_templ.go files are generated from the .templ sources by templ generate.
package templates
