package compile

import (
	"strings"
)

// makeDeps renders a Makefile rule listing the outputs and the files they
// depend on
func makeDeps(outputs, deps []string) string {
	var b strings.Builder
	for i, out := range outputs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(escapeMake(out))
	}
	b.WriteByte(':')
	for _, dep := range deps {
		b.WriteByte(' ')
		b.WriteString(escapeMake(dep))
	}
	b.WriteByte('\n')
	return b.String()
}

var makeEscaper = strings.NewReplacer(
	`\`, `\\`,
	" ", `\ `,
	"#", `\#`,
	"$", "$$",
	"\t", "\\\t",
)

func escapeMake(path string) string {
	return makeEscaper.Replace(path)
}
