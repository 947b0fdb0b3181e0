package scan

import "strings"

// index maps column name variants to a field position
type index map[string]uint16

func (i index) match(name string) int {
	if pos, ok := i[name]; ok {
		return int(pos)
	}
	if pos, ok := i[strings.ToLower(name)]; ok {
		return int(pos)
	}
	if pos, ok := i[fuzzyKey(name)]; ok {
		return int(pos)
	}
	return -1
}

func (i index) add(name string, pos int) {
	value := uint16(pos)
	for _, key := range []string{name, strings.ToLower(name), fuzzyKey(name)} {
		if _, ok := i[key]; !ok {
			i[key] = value
		}
	}
}

func fuzzyKey(key string) string {
	lowerCased := strings.ToLower(key)
	count := strings.Count(lowerCased, "_")
	if count == 0 {
		return lowerCased
	}
	return strings.Replace(lowerCased, "_", "", count)
}
