package repositories

import "strings"

// likeEscaper escapes LIKE wildcards; queries pair it with ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches search as a literal, case-insensitive substring
// of a LOWER()ed column.
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
}

func prefixPattern(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
