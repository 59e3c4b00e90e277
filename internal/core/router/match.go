package router

import "strings"

// match reports whether path matches pattern and returns the captured
// ":name" parameters. Literal segments compare case-insensitively and a
// trailing slash is ignored.
func match(pattern, path string, exact bool) (map[string]string, bool) {
	pat := segments(pattern)
	got := segments(path)

	if len(got) < len(pat) || (exact && len(got) != len(pat)) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range pat {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			if params == nil {
				params = make(map[string]string)
			}
			params[name] = got[i]
			continue
		}
		if !strings.EqualFold(seg, got[i]) {
			return nil, false
		}
	}
	return params, true
}

func segments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
