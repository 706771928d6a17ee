package util

import (
	"bufio"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ReadSysString reads a small sysfs/procfs style file and returns its
// trimmed contents. Missing or unreadable files return an empty string;
// callers reduce that to a sentinel.
func ReadSysString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ReadFileString reads a file and returns its contents as a string.
func ReadFileString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadFileLines reads a file and returns its lines.
func ReadFileLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// DirNames returns the sorted entry names of a directory, or nil when
// the directory cannot be read. Sorting keeps probe row order stable
// from run to run.
func DirNames(path string) []string {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// Exists reports whether a path can be stat'ed.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ParseKeyValueLines parses lines in "key: value", "key=value" or
// "key value" form. uevent files use '=', most of /proc uses ':'.
func ParseKeyValueLines(lines []string) map[string]string {
	m := make(map[string]string)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Whichever separator appears first wins, so "PCI_ID=1002:164E"
		// splits on '=' and "model name : x" splits on ':'.
		var key, val string
		ci := strings.Index(line, ":")
		ei := strings.Index(line, "=")
		if ei >= 0 && (ci < 0 || ei < ci) {
			key = strings.TrimSpace(line[:ei])
			val = strings.TrimSpace(line[ei+1:])
		} else if ci >= 0 {
			key = strings.TrimSpace(line[:ci])
			val = strings.TrimSpace(line[ci+1:])
		} else {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				key = fields[0]
				val = strings.Join(fields[1:], " ")
			} else if len(fields) == 1 {
				key = fields[0]
			}
		}
		if key != "" {
			m[key] = val
		}
	}
	return m
}

// ParseKeyValueFile parses a file with ParseKeyValueLines semantics.
func ParseKeyValueFile(path string) (map[string]string, error) {
	lines, err := ReadFileLines(path)
	if err != nil {
		return nil, err
	}
	return ParseKeyValueLines(lines), nil
}

// ParseInt parses a string to int, returning 0 on error.
func ParseInt(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

// ParseUint64 parses a string to uint64, returning 0 on error.
func ParseUint64(s string) uint64 {
	v, _ := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	return v
}

// FieldsAt returns the field at the given index of a whitespace-split
// line, or an empty string when the index is out of range.
func FieldsAt(line string, idx int) string {
	fields := strings.Fields(line)
	if idx < len(fields) {
		return fields[idx]
	}
	return ""
}
