package bundle

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf16"
)

// keyExceptions are the only non-alphanumeric characters left
// unescaped in member path keys.
const keyExceptions = "./-_"

// EscapeKey encodes a member module path for use as an object key in
// the packaged payload. Alphanumerics and the exception set pass
// through, every other character is emitted as a \uXXXX escape so the
// payload stays inert if it is ever interpolated into an html context.
func EscapeKey(modulePath string) string {
	var escaped strings.Builder

	for _, r := range modulePath {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' ||
			strings.ContainsRune(keyExceptions, r) {
			escaped.WriteRune(r)
			continue
		}

		for _, unit := range utf16.Encode([]rune{r}) {
			fmt.Fprintf(&escaped, `\u%04x`, unit)
		}
	}

	return escaped.String()
}

// wrapperName derives a syntactically valid function name from a member
// module path so the member's identity shows up in stack traces even
// though the path itself is rarely a legal identifier.
func wrapperName(modulePath string) string {
	var name strings.Builder

	for i, r := range modulePath {
		valid := r == '$' || r == '_' ||
			r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'

		if i == 0 && r >= '0' && r <= '9' {
			name.WriteByte('_')
		}

		if valid {
			name.WriteRune(r)
		} else {
			name.WriteByte('_')
		}
	}

	if name.Len() == 0 {
		return "_"
	}

	return name.String()
}

// Package serializes the bundle's member bodies into the wire payload
//
//	<callback>({
//	  "<key>": function <name>(require, exports, module) {<body>},
//	  ...
//	});
//
// Members appear in exactly the order given. A nil body (member fetch
// returned non-200) is emitted as a literal null marker rather than
// omitted, the client side loader needs an entry for every requested
// member to distinguish "missing" from "never bundled". bodies must be
// the same length as members.
func Package(callback string, members []string, bodies [][]byte) []byte {
	var payload bytes.Buffer

	payload.WriteString(callback)
	payload.WriteString("({")

	for i, member := range members {
		if i > 0 {
			payload.WriteString(", ")
		}

		payload.WriteString("\n  \"")
		payload.WriteString(EscapeKey(member))
		payload.WriteString("\": ")

		if bodies[i] == nil {
			payload.WriteString("null")
			continue
		}

		payload.WriteString("function ")
		payload.WriteString(wrapperName(member))
		payload.WriteString("(require, exports, module) {\n")
		payload.Write(bodies[i])
		payload.WriteString("\n}")
	}

	payload.WriteString("\n});\n")

	return payload.Bytes()
}
