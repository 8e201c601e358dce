package feed

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// FileFetcher tails a JSON-lines file, one round per line. Each Fetch returns
// the lines appended since the previous call.
type FileFetcher struct {
	Path     string
	Location *time.Location

	offset int64
}

// NewFileFetcher creates a fetcher for path. Date/time fields are read in loc.
func NewFileFetcher(path string, loc *time.Location) *FileFetcher {
	if loc == nil {
		loc = time.UTC
	}
	return &FileFetcher{Path: path, Location: loc}
}

func (f *FileFetcher) Name() string { return "file" }

func (f *FileFetcher) Fetch(ctx context.Context) ([]Observation, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open feed file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek feed file: %w", err)
	}

	var out []Observation
	reader := bufio.NewReader(file)
	for {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		line, err := reader.ReadBytes('\n')
		if err == io.EOF {
			// Partial trailing line; pick it up once it is complete.
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("read feed file: %w", err)
		}
		f.offset += int64(len(line))

		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		obs, err := decodeRecord(line, f.Location)
		if err != nil {
			return out, fmt.Errorf("line at offset %d: %w", f.offset, err)
		}
		out = append(out, obs)
	}
}

// ReadAll loads every observation in a JSON-lines reader. A final line without
// a newline is included.
func ReadAll(r io.Reader, loc *time.Location) ([]Observation, error) {
	if loc == nil {
		loc = time.UTC
	}
	var out []Observation
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		obs, err := decodeRecord(line, loc)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		out = append(out, obs)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan rounds: %w", err)
	}
	return out, nil
}
