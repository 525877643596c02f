package resolver

import (
	"sort"
	"strings"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
)

// Modes as written in package manifests
const (
	ModeCreate     = "create"
	ModeOverwrite  = "overwrite"
	ModeMerge      = "merge"
	ModeSkip       = "skip"
	ModeReadConfig = "read-config"
)

// modeAliases maps accepted spellings to their canonical mode
var modeAliases = map[string]string{
	ModeCreate:     ModeCreate,
	"add":          ModeCreate,
	ModeOverwrite:  ModeOverwrite,
	"replace":      ModeOverwrite,
	ModeMerge:      ModeMerge,
	ModeSkip:       ModeSkip,
	ModeReadConfig: ModeReadConfig,
	"read":         ModeReadConfig,
}

// modeOrder is the order rules of different modes are expanded in. Skips
// come last so a package can exclude files its own directory rules pull in.
var modeOrder = []string{ModeReadConfig, ModeCreate, ModeOverwrite, ModeMerge, ModeSkip}

// Rule is one normalized asset declaration
type Rule struct {
	Mode string
	// Path is relative to the package's assets directory
	Path string
	// To overrides the destination; empty means Path
	To string
	// Overwrite lets a create replace an existing destination
	Overwrite bool
	// Unmanaged marks the destination as declared skip (to = false)
	Unmanaged bool
}

// ruleTable is the table form of a rule value
type ruleTable struct {
	Path      string      `mapstructure:"path"`
	Overwrite *bool       `mapstructure:"overwrite"`
	To        interface{} `mapstructure:"to"`
}

// CanonicalMode resolves a mode name or alias
func CanonicalMode(mode string) (string, error) {
	canonical, ok := modeAliases[strings.ToLower(strings.TrimSpace(mode))]
	if !ok {
		known := make([]string, 0, len(modeAliases))
		for alias := range modeAliases {
			known = append(known, alias)
		}
		sort.Strings(known)
		return "", errors.Newf(errors.ErrUnknownMode, "unknown asset mode %q", mode).
			WithDetail("known", known)
	}
	return canonical, nil
}

// ParseRules normalizes the raw [assets] table of a manifest. Rules come
// back grouped by mode in a fixed order, declaration order within a mode.
func ParseRules(assets map[string]interface{}) ([]Rule, error) {
	byMode := make(map[string][]interface{})
	for key, value := range assets {
		mode, err := CanonicalMode(key)
		if err != nil {
			return nil, err
		}
		if values, ok := value.([]interface{}); ok {
			byMode[mode] = append(byMode[mode], values...)
			continue
		}
		byMode[mode] = append(byMode[mode], value)
	}

	var rules []Rule
	for _, mode := range modeOrder {
		for _, value := range byMode[mode] {
			rule, enabled, err := parseRule(mode, value)
			if err != nil {
				return nil, err
			}
			if enabled {
				rules = append(rules, rule)
			}
		}
	}
	return rules, nil
}

func parseRule(mode string, value interface{}) (Rule, bool, error) {
	rule := Rule{Mode: mode, Overwrite: mode == ModeOverwrite}

	switch v := value.(type) {
	case bool:
		if v {
			return rule, false, errors.Newf(errors.ErrConfigInvalid, "%s rule cannot be true; give a path", mode)
		}
		return rule, false, nil
	case string:
		rule.Path = v
	case map[string]interface{}:
		var table ruleTable
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			ErrorUnused: true,
			Result:      &table,
		})
		if err != nil {
			return rule, false, errors.Wrap(err, errors.ErrInternal, "cannot build rule decoder")
		}
		if err := decoder.Decode(v); err != nil {
			return rule, false, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid %s rule", mode)
		}
		rule.Path = table.Path
		if table.Overwrite != nil {
			rule.Overwrite = *table.Overwrite
		}
		switch to := table.To.(type) {
		case nil:
		case string:
			rule.To = to
		case bool:
			if to {
				return rule, false, errors.Newf(errors.ErrConfigInvalid, "%s rule for %s: to must be a path or false", mode, table.Path)
			}
			rule.Unmanaged = true
		default:
			return rule, false, errors.Newf(errors.ErrConfigInvalid, "%s rule for %s: to must be a path or false", mode, table.Path)
		}
	default:
		return rule, false, errors.Newf(errors.ErrConfigInvalid, "%s rule has unsupported value %v", mode, value)
	}

	rule.Path = strings.TrimSpace(rule.Path)
	if rule.Path == "" {
		return rule, false, errors.Newf(errors.ErrConfigInvalid, "%s rule has an empty path", mode)
	}
	if mode == ModeReadConfig && (rule.To != "" || rule.Unmanaged) {
		return rule, false, errors.Newf(errors.ErrConfigInvalid, "read-config rule for %s cannot have a destination", rule.Path)
	}
	return rule, true, nil
}
