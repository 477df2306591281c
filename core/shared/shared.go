package shared

import "strings"

// Ext returns the extension of a bare file name, leading dot included. Only
// an interior dot starts an extension: a leading-dot name (".env") and a
// trailing-dot name ("archive.") have none.
func Ext(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}
