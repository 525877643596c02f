// Package resolver turns a package's declared asset rules into operations.
//
// Rules live under [assets] in the package manifest, keyed by mode:
//
//	[assets]
//	create = ["config", "@web-root/robots.txt.tmpl"]
//	overwrite = { path = "Makefile" }
//	merge = [".gitignore", { path = ".env", to = "@app-root/.env" }]
//	skip = ".htaccess"
//	read-config = "questions.yaml"
//
// A rule value is false (the mode is disabled), a path, a table with
// path, overwrite and to keys, or an array of paths and tables. Paths are
// relative to the package's assets directory. Directories expand into one
// operation per file, walked depth-first in lexicographic order, each file
// inheriting the rule's mode and overwrite flag.
//
// Destinations follow the declared path (or "to" when given): "@token/x"
// lands under that symbolic root and rootless paths under the project root.
// A table with to = false declares the destination unmanaged.
package resolver
