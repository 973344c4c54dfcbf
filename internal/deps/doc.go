// Package deps resolves the external programs the importer shells out to.
package deps
