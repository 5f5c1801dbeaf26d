// Command loglatchtail tails a SinkEmitter's plain-text transcript and
// re-emits each line as a structured JSON object, so async-dispatched log
// output can be piped into tools that expect line-delimited JSON instead
// of the human-readable console format.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

type record struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Location  string `json:"location"`
	Tag       string `json:"tag"`
	Args      []any  `json:"args"`
}

func main() {
	var follow bool

	root := &cobra.Command{
		Use:   "loglatchtail [file]",
		Short: "Convert a SinkEmitter transcript to line-delimited JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) > 0 {
				path = args[0]
			}
			return run(path, follow, os.Stdout)
		},
	}
	root.Flags().BoolVarP(&follow, "follow", "f", false, "keep watching the file for new lines (like tail -f)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "loglatchtail:", err)
		os.Exit(1)
	}
}

func run(path string, follow bool, out io.Writer) error {
	if path == "-" {
		return convert(os.Stdin, out)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := convert(f, out); err != nil {
		return err
	}
	if !follow {
		return nil
	}
	return followFile(f, path, out)
}

func convert(r io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	enc := json.NewEncoder(out)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			continue
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func followFile(f *os.File, path string, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return err
	}

	reader := bufio.NewReader(f)
	enc := json.NewEncoder(out)
	for event := range watcher.Events {
		if event.Op&fsnotify.Write == 0 {
			continue
		}
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				line = strings.TrimRight(line, "\n")
				if rec, err := parseLine(line); err == nil {
					_ = enc.Encode(rec)
				}
			}
			if err != nil {
				break
			}
		}
	}
	return nil
}

// parseLine parses one SinkEmitter line: "<timestamp> <LEVEL> <location>
// [tag] <space-separated args>", where string args are double-quoted and
// backslash-escaped. Unquoted args are type-inferred the same way the
// sink's own Message rendering would have produced them.
func parseLine(line string) (record, error) {
	fields := splitPrefix(line, 5)
	if len(fields) < 5 {
		return record{}, fmt.Errorf("malformed line: %q", line)
	}
	tag := strings.TrimSuffix(strings.TrimPrefix(fields[3], "["), "]")
	rec := record{
		Timestamp: fields[0],
		Level:     fields[1],
		Location:  fields[2],
		Tag:       tag,
		Args:      splitArgs(fields[4]),
	}
	return rec, nil
}

// splitPrefix splits line into exactly n whitespace-delimited leading
// fields, leaving the remainder (if any) unsplit as the final element.
func splitPrefix(line string, n int) []string {
	fields := make([]string, 0, n)
	rest := line
	for i := 0; i < n-1; i++ {
		rest = strings.TrimLeft(rest, " ")
		idx := strings.IndexByte(rest, ' ')
		if idx < 0 {
			fields = append(fields, rest)
			rest = ""
			break
		}
		fields = append(fields, rest[:idx])
		rest = rest[idx+1:]
	}
	fields = append(fields, strings.TrimLeft(rest, " "))
	return fields
}

// splitArgs tokenizes a sink line's argument tail, honouring double-quoted
// strings with backslash escapes, and type-infers unquoted tokens the way
// the teacher's console-to-JSON converter does.
func splitArgs(rest string) []any {
	var args []any
	var chunk strings.Builder
	inQuotes := false
	escape := false
	quoted := false
	flush := func() {
		if chunk.Len() == 0 && !quoted {
			return
		}
		args = append(args, decodeArg(chunk.String(), quoted))
		chunk.Reset()
		quoted = false
	}
	for _, r := range rest {
		switch {
		case escape:
			chunk.WriteRune(unescapeRune(r))
			escape = false
		case r == '\\' && inQuotes:
			escape = true
		case r == '"':
			inQuotes = !inQuotes
			quoted = true
		case r == ' ' && !inQuotes:
			flush()
		default:
			chunk.WriteRune(r)
		}
	}
	flush()
	return args
}

func unescapeRune(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return r
	}
}

func decodeArg(raw string, quoted bool) any {
	if quoted {
		return raw
	}
	if raw == "" {
		return raw
	}
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	case "nil", "null":
		return nil
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return raw
}
