package secret

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
)

var bracedVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvStrict expands $VAR and ${VAR} references in s. A braced
// reference to an unset variable is an error; "$$" produces a literal "$".
func ExpandEnvStrict(s string) (string, error) {
	if !strings.Contains(s, "$") {
		return s, nil
	}

	const escaped = "\x00DDMCP_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$$", escaped)

	var missing []string
	for _, m := range bracedVarPattern.FindAllStringSubmatch(s, -1) {
		if _, ok := os.LookupEnv(m[1]); !ok && !slices.Contains(missing, m[1]) {
			missing = append(missing, m[1])
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}

	return strings.ReplaceAll(os.ExpandEnv(s), escaped, "$"), nil
}
