// Package packs loads the asset packages a project uses.
//
// A package is a directory with a scaffold.toml manifest:
//
//	name = "base"              # defaults to the directory name
//	assets_dir = "assets"      # rule paths are relative to this
//
//	[assets]
//	create = ["config"]
//	merge = ".gitignore"
//
//	[variables]
//	php.version = "8.3"
//
// The project configuration lists package directories in priority order,
// lowest first. A package containing a .scaffoldignore file is left out.
package packs
