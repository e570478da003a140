package config

import (
	"fmt"
	"os"
	"regexp"
)

var interpolationPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// interpolate substitutes every `${NAME}` token in text with the value of
// the process environment variable NAME. It runs on the raw text before
// JSON5 parsing, so substituted values are parsed as part of the document:
// a value containing JSON5-significant characters (a `"` inside a quoted
// string, say) changes how the document parses unless it is escaped.
func interpolate(text string) (string, error) {
	var missing []string
	result := interpolationPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := interpolationPattern.FindStringSubmatch(token)[1]
		v, ok := os.LookupEnv(name)
		if !ok {
			missing = append(missing, name)
			return token
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("config: undefined environment variable(s) referenced: %v", missing)
	}
	return result, nil
}
