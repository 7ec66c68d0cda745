package secret

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
)

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvStrict substitutes ${VAR} references in s with values from
// the environment. A reference to an unset variable is an error, so a
// typo in a configuration file fails at load time instead of producing
// an empty credential. "$$" emits a literal dollar sign.
func ExpandEnvStrict(s string) (string, error) {
	const dollar = "\x00searchgate-dollar\x00"
	s = strings.ReplaceAll(s, "$$", dollar)

	var missing []string
	out := envPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		value, ok := os.LookupEnv(name)
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})

	if len(missing) > 0 {
		slices.Sort(missing)
		missing = slices.Compact(missing)
		return "", fmt.Errorf("secret: unset environment variables: %s", strings.Join(missing, ", "))
	}
	return strings.ReplaceAll(out, dollar, "$"), nil
}
