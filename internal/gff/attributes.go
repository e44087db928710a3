package gff

import "strings"

// ParseAttributes parses the attribute column into a key→value map.
//
// Fields are separated by ";". Each field is either `key=value` (split at
// the first "="), `key value` (split at the first space, surrounding double
// quotes stripped from the value), or a bare token kept as a key with an
// empty value. Empty fields are skipped; "." or blank input yields an empty
// map. When a key repeats, the last occurrence wins.
func ParseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	if strings.TrimSpace(attrStr) == "." {
		return attrs
	}

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if idx := strings.Index(part, "="); idx != -1 {
			attrs[part[:idx]] = part[idx+1:]
			continue
		}

		if idx := strings.Index(part, " "); idx != -1 {
			value := strings.TrimSpace(part[idx+1:])
			attrs[part[:idx]] = strings.Trim(value, `"`)
			continue
		}

		attrs[part] = ""
	}

	return attrs
}
