package paths

import (
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/scaffold/pkg/errors"
)

// Environment variable names
const (
	// EnvProjectRoot overrides project root discovery
	EnvProjectRoot = "SCAFFOLD_PROJECT_ROOT"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Root tokens
const (
	TokenProjectRoot = "project-root"
	TokenAppRoot     = "app-root"
	TokenWebRoot     = "web-root"
)

const (
	// DefaultAppRoot is app-root relative to the project root
	DefaultAppRoot = "."

	// DefaultWebRoot is web-root relative to the project root
	DefaultWebRoot = "web"

	// AppDirName is the directory name used under XDG locations
	AppDirName = "scaffold"

	// SourceTokenPrefix marks a symbolic root in package-relative source paths
	SourceTokenPrefix = "@"
)

// Resolver maps symbolic root tokens to absolute paths.
type Resolver struct {
	projectRoot  string
	roots        map[string]string
	usedFallback bool
}

// New creates a Resolver for the given project root. An empty projectRoot is
// discovered from the environment, the enclosing git repository or the
// current directory, in that order. locations maps extra tokens (and
// overrides for app-root and web-root) to paths relative to the project root.
func New(projectRoot string, locations map[string]string) (*Resolver, error) {
	r := &Resolver{roots: make(map[string]string)}

	if projectRoot == "" {
		root, usedFallback, err := findProjectRoot()
		if err != nil {
			return nil, err
		}
		r.projectRoot = root
		r.usedFallback = usedFallback
	} else {
		r.projectRoot = ExpandHome(projectRoot)
	}

	absRoot, err := filepath.Abs(r.projectRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for project root")
	}
	r.projectRoot = absRoot

	r.roots[TokenProjectRoot] = absRoot
	r.roots[TokenAppRoot] = filepath.Join(absRoot, DefaultAppRoot)
	r.roots[TokenWebRoot] = filepath.Join(absRoot, DefaultWebRoot)

	for token, location := range locations {
		if token == TokenProjectRoot {
			return nil, errors.New(errors.ErrConfigInvalid, "project-root cannot be relocated").
				WithDetail("location", location)
		}
		if !isValidToken(token) {
			return nil, errors.Newf(errors.ErrConfigInvalid, "invalid location token %q", token)
		}
		location = ExpandHome(location)
		if !filepath.IsAbs(location) {
			location = filepath.Join(absRoot, location)
		}
		r.roots[token] = filepath.Clean(location)
	}

	return r, nil
}

// ProjectRoot returns the absolute project root
func (r *Resolver) ProjectRoot() string {
	return r.projectRoot
}

// UsedFallback returns true if the current working directory was used as fallback
func (r *Resolver) UsedFallback() bool {
	return r.usedFallback
}

// Tokens returns the known root tokens in sorted order
func (r *Resolver) Tokens() []string {
	tokens := make([]string, 0, len(r.roots))
	for token := range r.roots {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// Path returns the absolute path bound to a token
func (r *Resolver) Path(token string) (string, error) {
	root, ok := r.roots[token]
	if !ok {
		return "", errors.Newf(errors.ErrConfigInvalid, "unknown location token [%s]", token).
			WithDetail("known", r.Tokens())
	}
	return root, nil
}

// Substitute turns a symbolic destination path into an absolute path.
// "[token]/rest" is resolved against the token's root, absolute paths are
// cleaned and anything else is anchored at the project root.
func (r *Resolver) Substitute(p string) (string, error) {
	if token, rest, ok := SplitToken(p); ok {
		root, err := r.Path(token)
		if err != nil {
			return "", err
		}
		return filepath.Join(root, filepath.FromSlash(rest)), nil
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	return filepath.Join(r.projectRoot, filepath.FromSlash(p)), nil
}

// Relative returns abs relative to the project root when it lies inside it,
// otherwise abs unchanged. Used for status messages.
func (r *Resolver) Relative(abs string) string {
	rel, err := filepath.Rel(r.projectRoot, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs
	}
	return filepath.ToSlash(rel)
}

// SplitToken splits "[token]/rest" into its parts.
func SplitToken(p string) (token, rest string, ok bool) {
	if !strings.HasPrefix(p, "[") {
		return "", "", false
	}
	end := strings.Index(p, "]")
	if end < 2 {
		return "", "", false
	}
	token = p[1:end]
	rest = strings.TrimLeft(p[end+1:], "/")
	return token, rest, true
}

// NormalizeDestination converts a package-relative destination into its
// bracketed form: "@web-root/x" becomes "[web-root]/x" and a rootless path
// gets an implicit "[project-root]/" prefix.
func NormalizeDestination(rel string) string {
	rel = filepath.ToSlash(rel)

	if token, rest, ok := SplitToken(rel); ok {
		return bracket(token, rest)
	}

	if strings.HasPrefix(rel, SourceTokenPrefix) {
		token, rest, _ := strings.Cut(strings.TrimPrefix(rel, SourceTokenPrefix), "/")
		if isValidToken(token) {
			return bracket(token, rest)
		}
	}

	return bracket(TokenProjectRoot, rel)
}

func bracket(token, rest string) string {
	rest = strings.TrimLeft(rest, "/")
	if rest == "" {
		return fmt.Sprintf("[%s]", token)
	}
	return fmt.Sprintf("[%s]/%s", token, path.Clean(rest))
}

func isValidToken(token string) bool {
	if token == "" {
		return false
	}
	for _, c := range token {
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '-' && c != '_' {
			return false
		}
	}
	return true
}

// StateDir returns the XDG state directory for scaffold
func StateDir() string {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, AppDirName)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// findProjectRoot determines the project root using the following priority:
// 1. SCAFFOLD_PROJECT_ROOT environment variable (if set)
// 2. Git repository root (found via 'git rev-parse --show-toplevel')
// 3. Current working directory (fallback)
func findProjectRoot() (string, bool, error) {
	if root := os.Getenv(EnvProjectRoot); root != "" {
		return ExpandHome(root), false, nil
	}

	gitRoot, err := findGitRoot()
	if err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}

	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")

	output, err := cmd.Output()
	if err != nil {
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}

	return gitRoot, nil
}

// ExpandHome expands ~ to the home directory
func ExpandHome(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return p
		}
	}

	if len(p) == 1 {
		return homeDir
	}

	if p[1] == '/' || p[1] == filepath.Separator {
		return filepath.Join(homeDir, p[2:])
	}

	// ~something (not the user's home)
	return p
}
