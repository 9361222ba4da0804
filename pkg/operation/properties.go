// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"bytes"
	"strings"
)

// setProperty sets key=value in a .properties document.
// Every assignment of key is replaced in place; when there is none the line
// is appended.
func setProperty(content []byte, key, value string) []byte {
	lines := strings.SplitAfter(string(content), "\n")
	found := false
	for i, line := range lines {
		if assignsKey(line, key) {
			eol := line[len(strings.TrimRight(line, "\r\n")):]
			lines[i] = key + "=" + value + eol
			found = true
		}
	}
	if found {
		return []byte(strings.Join(lines, ""))
	}

	var b bytes.Buffer
	b.Write(content)
	if len(content) > 0 && content[len(content)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.WriteString(key + "=" + value + "\n")
	return b.Bytes()
}

// assignsKey reports whether a properties line assigns key
func assignsKey(line, key string) bool {
	trimmed := strings.TrimLeft(line, " \t\f")
	if trimmed == "" || trimmed[0] == '#' || trimmed[0] == '!' {
		return false
	}
	if !strings.HasPrefix(trimmed, key) {
		return false
	}
	rest := strings.TrimLeft(trimmed[len(key):], " \t\f")
	if rest == "" {
		return false
	}
	return rest[0] == '=' || rest[0] == ':' || len(rest) < len(trimmed[len(key):])
}
