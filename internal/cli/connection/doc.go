// Package connection talks to a running linkdrop server over HTTP.
package connection
