package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type urlFile struct {
	URLs []string `yaml:"urls"`
}

// readURLFile accepts a YAML list, a YAML document with a urls key, or one URL
// per line with # comments.
func readURLFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return parseURLList(data)
}

func parseURLList(data []byte) ([]string, error) {
	var list []string
	if err := yaml.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return list, nil
	}
	var doc urlFile
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.URLs) > 0 {
		return doc.URLs, nil
	}

	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// withScheme lets users type bare hostnames.
func withScheme(raw []string) []string {
	out := make([]string, len(raw))
	for i, u := range raw {
		u = strings.TrimSpace(u)
		if u != "" && !strings.Contains(u, "://") {
			u = "https://" + u
		}
		out[i] = u
	}
	return out
}
