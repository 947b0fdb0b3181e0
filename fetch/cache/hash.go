package cache

import (
	"encoding/json"
	"strconv"

	"github.com/minio/highwayhash"
)

// hashKey keys entry URLs only, it carries no security meaning and has to stay
// stable across processes sharing one cache location.
var hashKey = []byte("fetchly-result-set-cache-key-32b")

// entryURL derives the storage location of a statement from its normalized
// SQL and marshaled arguments.
func entryURL(SQL, URL, extension string, args []interface{}) (string, []byte, error) {
	argsData, err := json.Marshal(args)
	if err != nil {
		return "", nil, err
	}
	normalized := normalizeSQL(SQL)
	hasher, err := highwayhash.New64(hashKey)
	if err != nil {
		return "", nil, err
	}
	if _, err = hasher.Write(append([]byte(normalized), argsData...)); err != nil {
		return "", nil, err
	}
	entryKey := strconv.FormatUint(hasher.Sum64(), 10)
	return URL + entryKey + extension, argsData, nil
}

// normalizeSQL lowercases and collapses whitespace so formatting differences
// do not produce distinct entries
func normalizeSQL(input string) string {
	var result = make([]byte, len(input))
	index := 0
	whiteSpaces := 0
	for i := range input {
		c := input[i]
		switch c {
		case ' ', '\t', '\r', '\n':
			if whiteSpaces == 0 {
				result[index] = ' '
				index++
			}
			whiteSpaces++
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			result[index] = c
			index++
		default:
			whiteSpaces = 0
			result[index] = c | ' '
			index++
		}
	}
	return string(result[:index])
}
