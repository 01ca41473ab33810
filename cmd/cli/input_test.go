package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseURLList(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"yaml list", "- https://a.example\n- https://b.example\n", []string{"https://a.example", "https://b.example"}},
		{"yaml doc", "urls:\n  - https://a.example\n", []string{"https://a.example"}},
		{"lines", "https://a.example\n\n# skip me\nhttps://b.example\n", []string{"https://a.example", "https://b.example"}},
		{"single line", "https://a.example\n", []string{"https://a.example"}},
		{"empty", "", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := parseURLList([]byte(c.in))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if !reflect.DeepEqual(got, c.want) {
				t.Fatalf("want %v, got %v", c.want, got)
			}
		})
	}
}

func TestReadURLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte("example.com\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := readURLFile(path)
	if err != nil || len(got) != 1 || got[0] != "example.com" {
		t.Fatalf("want [example.com], got %v (%v)", got, err)
	}
	if _, err := readURLFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("want error for missing file")
	}
}

func TestWithScheme(t *testing.T) {
	got := withScheme([]string{"example.com", "http://plain.example", " https://x.example "})
	want := []string{"https://example.com", "http://plain.example", "https://x.example"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}
