// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/staranto/reposearch/internal/attrs"
)

const payload = `{
	"total_count": 3,
	"items": [
		{"id": 1, "full_name": "vuejs/core", "stars": 48000, "forks": 8300, "language": "TypeScript"},
		{"id": 2, "full_name": "facebook/react", "stars": 230000, "forks": 47000, "language": "JavaScript"},
		{"id": 3, "full_name": "preactjs/preact", "stars": 37000, "forks": 1900}
	]
}`

func testAttrs(t *testing.T, extra ...string) attrs.AttrList {
	t.Helper()
	var al attrs.AttrList
	require.NoError(t, al.Set("full_name:name,stars,language"))
	for _, e := range extra {
		require.NoError(t, al.Set(e))
	}
	require.NoError(t, al.SetGlobalTransformSpec())
	return al
}

// runSpit runs SliceDiceSpit inside a real cli.Command so flag parsing is
// exercised the same way the search command does it.
func runSpit(t *testing.T, al attrs.AttrList, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cli.Command{
		Name: "search",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Value: "text"},
			&cli.StringFlag{Name: "filter"},
			&cli.StringFlag{Name: "sort"},
			&cli.BoolFlag{Name: "color"},
			&cli.BoolFlag{Name: "titles"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return SliceDiceSpit(*bytes.NewBufferString(payload), al, cmd, "items", &buf)
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"search"}, args...)))
	return buf.String()
}

func TestSliceDiceSpit_Text(t *testing.T) {
	out := runSpit(t, testAttrs(t), "--titles", "--sort", "-stars")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "name")
	assert.Contains(t, lines[0], "language")
	assert.Contains(t, lines[1], "facebook/react")
	assert.Contains(t, lines[2], "vuejs/core")
	assert.Contains(t, lines[3], "preactjs/preact")
	// Missing language renders as the empty marker.
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[3]), "-"))
}

func TestSliceDiceSpit_TextNoRows(t *testing.T) {
	out := runSpit(t, testAttrs(t), "--filter", "stars>1000000")
	assert.Empty(t, out)
}

func TestSliceDiceSpit_JSON(t *testing.T) {
	out := runSpit(t, testAttrs(t, "stars::c", "!forks"), "--output", "json", "--filter", "forks>5000", "--sort", "name")

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, map[string]interface{}{"name": "facebook/react", "stars": "230,000", "language": "JavaScript"}, got[0])
	assert.Equal(t, "vuejs/core", got[1]["name"])
	assert.NotContains(t, got[1], "forks")
}

func TestSliceDiceSpit_JSONEmpty(t *testing.T) {
	out := runSpit(t, testAttrs(t), "--output", "json", "--filter", "name=none")
	assert.Equal(t, "[]\n", out)
}

func TestSliceDiceSpit_YAML(t *testing.T) {
	out := runSpit(t, testAttrs(t, "*::u"), "--output", "yaml", "--filter", "language~typescript")

	var got []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "VUEJS/CORE", got[0]["name"])
	assert.Equal(t, "TYPESCRIPT", got[0]["language"])
}

func TestSliceDiceSpit_Raw(t *testing.T) {
	out := runSpit(t, testAttrs(t), "--output", "raw", "--filter", "name=ignored")
	assert.Equal(t, payload, out)
}

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"name": "zebra", "stars": 3.0, "language": "go"},
		{"name": "Alpha", "stars": 10.0, "language": "Go"},
		{"name": "beta", "stars": 2.0},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{name: "ascending by name", spec: "name", wantOrder: []string{"Alpha", "beta", "zebra"}},
		{name: "descending by name", spec: "-name", wantOrder: []string{"zebra", "beta", "Alpha"}},
		{name: "numbers are numeric", spec: "stars", wantOrder: []string{"beta", "zebra", "Alpha"}},
		{name: "descending numbers", spec: "-stars", wantOrder: []string{"Alpha", "zebra", "beta"}},
		{name: "case sensitive", spec: "!name", wantOrder: []string{"Alpha", "beta", "zebra"}},
		{name: "case sensitive descending", spec: "-!name", wantOrder: []string{"zebra", "beta", "Alpha"}},
		{name: "missing values first", spec: "language,name", wantOrder: []string{"beta", "Alpha", "zebra"}},
		{name: "case sensitive tie break", spec: "!language", wantOrder: []string{"beta", "Alpha", "zebra"}},
		{name: "empty spec", spec: "", wantOrder: []string{"zebra", "Alpha", "beta"}},
		{name: "blank keys ignored", spec: " , -", wantOrder: []string{"zebra", "Alpha", "beta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expectedName := range tt.wantOrder {
				assert.Equal(t, expectedName, data[i]["name"], "at index %d", i)
			}
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal string
		want     string
	}{
		{name: "string", value: "react", want: "react"},
		{name: "int", value: 42, want: "42"},
		{name: "float64", value: 42.5, want: "42"},
		{name: "float64 rounds", value: 42.7, want: "43"},
		{name: "bool true", value: true, want: "true"},
		{name: "bool false is zero value", value: false, want: ""},
		{name: "nil default", value: nil, want: ""},
		{name: "nil custom", value: nil, emptyVal: "-", want: "-"},
		{name: "slice", value: []string{"ui", "web"}, want: `["ui","web"]`},
		{name: "map", value: map[string]int{"x": 1}, want: `{"x":1}`},
		{name: "zero stars", value: 0.0, emptyVal: "-", want: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.emptyVal != "" {
				got = InterfaceToString(tt.value, tt.emptyVal)
			} else {
				got = InterfaceToString(tt.value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTag(t *testing.T) {
	tests := []struct {
		name string
		h    string
		s    string
		want Tag
	}{
		{name: "simple", s: "full_name", want: Tag{Name: "full_name", Kind: "string"}},
		{name: "with holder", h: "owner", s: "login", want: Tag{Name: "owner.login", Kind: "string"}},
		{name: "with options", s: "description,omitempty", want: Tag{Name: "description", Kind: "string"}},
		{name: "skipped", s: "-", want: Tag{}},
		{name: "empty name", s: ",omitempty", want: Tag{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTag(tt.h, tt.s, reflect.String))
		})
	}
}

func TestTag_Print(t *testing.T) {
	assert.Equal(t, "stars (int)", Tag{Name: "stars", Kind: "int"}.Print())
	assert.Equal(t, "stars", Tag{Name: "stars"}.Print())
	assert.Equal(t, "", Tag{}.Print())
}

func TestDumpSchema(t *testing.T) {
	type owner struct {
		Login string `json:"login"`
	}
	type repo struct {
		ID       int64  `json:"id"`
		FullName string `json:"full_name"`
		Secret   string `json:"-"`
		Untagged string
		Owner    *owner `json:"owner"`
	}

	tags := DumpSchemaWalker("", reflect.TypeOf(repo{}), 0)
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"id", "full_name", "owner.login"}, names)

	var buf bytes.Buffer
	DumpSchema(&buf, reflect.TypeOf(repo{}))
	assert.Contains(t, buf.String(), "Schema for repo --\nfull_name (string)\nid (int64)\nowner.login (string)\n")
}

func TestGetColors(t *testing.T) {
	header, even, odd := getColors("nocolors")
	assert.Equal(t, "#f6be00", header)
	assert.Equal(t, "#ffffff", even)
	assert.Equal(t, "#00c8f0", odd)
}

func BenchmarkSortDataset(b *testing.B) {
	testData := []map[string]interface{}{
		{"name": "zebra", "stars": 3.0},
		{"name": "alpha", "stars": 1.0},
		{"name": "beta", "stars": 2.0},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data := make([]map[string]interface{}, len(testData))
		copy(data, testData)
		SortDataset(data, "-stars,name")
	}
}
