// Copyright © 2024 The ELPS authors

package signature

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	parsec "github.com/prataprc/goparsec"
)

// ErrBadBound is returned when an argument bound in a signature table is not
// an unsigned integer.
var ErrBadBound = errors.New("argument bound is not an unsigned integer")

// LineError locates an error in a signature table.
type LineError struct {
	File string
	Line int
	Err  error
}

func (err *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", err.File, err.Line, err.Err)
}

func (err *LineError) Unwrap() error {
	return err.Err
}

// fieldsParser splits a table line into whitespace separated fields.
var fieldsParser = parsec.Kleene(collectFields, parsec.Token(`[^\s]+`, "FIELD"))

func collectFields(nodes []parsec.ParsecNode) parsec.ParsecNode {
	fields := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if term, ok := n.(*parsec.Terminal); ok {
			fields = append(fields, term.Value)
		}
	}
	return fields
}

func splitFields(line string) []string {
	root, _ := fieldsParser(parsec.NewScanner([]byte(line)))
	fields, _ := root.([]string)
	return fields
}

// Load reads a signature table from r.  Each line holds a command path
// followed by the minimum and maximum number of arguments:
//
//	set 2 2
//	with game 1 3
//
// Lines starting with '#' are comments.  Lines with fewer than three fields
// are ignored.  The name is used to report errors.
func Load(r io.Reader, name string) (*Function, error) {
	root := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := splitFields(line)
		if len(fields) < 3 {
			continue
		}
		n := len(fields)
		minArgs, err := parseBound(fields[n-2])
		if err != nil {
			return nil, &LineError{File: name, Line: lineno, Err: err}
		}
		maxArgs, err := parseBound(fields[n-1])
		if err != nil {
			return nil, &LineError{File: name, Line: lineno, Err: err}
		}
		root.Insert(fields[:n-2], minArgs, maxArgs)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return root, nil
}

// LoadFile reads the signature table at path.
func LoadFile(path string) (*Function, error) {
	f, err := os.Open(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file
	return Load(f, path)
}

func parseBound(field string) (int, error) {
	x, err := strconv.ParseUint(field, 10, strconv.IntSize-1)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadBound, field)
	}
	return int(x), nil
}
