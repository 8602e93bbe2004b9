// Package textfile parses the line-oriented text files that drive card
// generation: "|"-separated lists (keywords, colours) and "key:value" config
// files. Lines starting with '#' are comments.
package textfile

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	listLexer = lexer.MustStateful(lexer.Rules{
		"Root": {
			{Name: "Comment", Pattern: `#[^\r\n]*`},
			{Name: "Newline", Pattern: `\r?\n`},
			{Name: "Head", Pattern: `[^|\r\n]+`, Action: lexer.Push("Fields")},
			{Name: "Pipe", Pattern: `\|`, Action: lexer.Push("Fields")},
		},
		"Fields": {
			{Name: "Pipe", Pattern: `\|`},
			{Name: "Field", Pattern: `[^|\r\n]+`},
			{Name: "Newline", Pattern: `\r?\n`, Action: lexer.Pop()},
		},
	})

	configLexer = lexer.MustStateful(lexer.Rules{
		"Root": {
			{Name: "Comment", Pattern: `#[^\r\n]*`},
			{Name: "Newline", Pattern: `\r?\n`},
			{Name: "Key", Pattern: `[^:\r\n]+`, Action: lexer.Push("Value")},
		},
		"Value": {
			{Name: "Colon", Pattern: `:`},
			{Name: "Text", Pattern: `[^\r\n]+`},
			{Name: "Newline", Pattern: `\r?\n`, Action: lexer.Pop()},
		},
	})

	listParser = participle.MustBuild[ListFile](
		participle.Lexer(listLexer),
		participle.Elide("Comment"),
	)

	configParser = participle.MustBuild[ConfigFile](
		participle.Lexer(configLexer),
		participle.Elide("Comment"),
	)
)

// ListFile is a parsed "|"-separated list file.
type ListFile struct {
	Lines []*ListLine `parser:"( @@ | Newline )*"`
}

// ListLine is one non-comment line of cells.
type ListLine struct {
	Cells []*Cell `parser:"@@+ Newline?"`
}

// Cell is the leading value of a line or one "|"-prefixed value after it.
type Cell struct {
	Value string `parser:"  @Head | Pipe @Field?"`
}

// ConfigFile is a parsed key:value file.
type ConfigFile struct {
	Entries []*Entry `parser:"( @@ | Newline )*"`
}

// Entry is one key:value line. Everything after the first colon is the
// value; a line without a colon has an empty value.
type Entry struct {
	Key   string   `parser:"@Key"`
	Value []string `parser:"( Colon ( @Text | @Colon )* )? Newline?"`
}

// Values returns the trimmed cells of a list line.
func (l *ListLine) Values() []string {
	out := make([]string, 0, len(l.Cells))
	for _, c := range l.Cells {
		out = append(out, strings.TrimSpace(c.Value))
	}
	return out
}

// ParseList parses a list file into rows of cells. Blank and comment lines
// are skipped.
func ParseList(r io.Reader) ([][]string, error) {
	f, err := listParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("textfile: parse list: %w", err)
	}
	var rows [][]string
	for _, line := range f.Lines {
		vals := line.Values()
		if len(vals) == 1 && vals[0] == "" {
			continue
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// ParseConfig parses key:value lines. Later keys override earlier ones.
func ParseConfig(r io.Reader) (map[string]string, error) {
	f, err := configParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("textfile: parse config: %w", err)
	}
	out := make(map[string]string, len(f.Entries))
	for _, e := range f.Entries {
		key := strings.TrimSpace(e.Key)
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(strings.Join(e.Value, ""))
	}
	return out, nil
}
