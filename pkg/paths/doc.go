// Package paths resolves the symbolic roots that asset destinations are
// written against.
//
// A destination is declared either with an @token prefix on the
// package-relative source path (@web-root/robots.txt) or, once normalized,
// with a bracketed prefix ([web-root]/robots.txt). A path with no recognized
// prefix is anchored at the project root.
//
// # Recognized roots
//
//   - project-root: the project being scaffolded (auto-detected)
//   - app-root: application root, relative to project-root (default ".")
//   - web-root: public web root, relative to project-root (default "web")
//
// # Environment Variables
//
//   - SCAFFOLD_PROJECT_ROOT: explicit project root
//
// # Usage
//
//	r, err := paths.New("", map[string]string{"web-root": "public"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dest := paths.NormalizeDestination("@web-root/robots.txt") // [web-root]/robots.txt
//	abs, err := r.Substitute(dest)                          // /srv/app/public/robots.txt
package paths
