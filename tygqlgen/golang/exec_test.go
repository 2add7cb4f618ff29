package golang

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/broady/tygql/tygqlgen/provider"
	"github.com/kylelemons/godebug/pretty"
)

// runnerMain executes the JSON array of documents read from stdin against
// the generated schema and prints the results as a JSON array.
const runnerMain = `package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/graphql-go/graphql"
)

func main() {
	var docs []string
	if err := json.NewDecoder(os.Stdin).Decode(&docs); err != nil {
		panic(err)
	}
	schema, err := NewSchema()
	if err != nil {
		panic(err)
	}
	var results []*graphql.Result
	for _, doc := range docs {
		results = append(results, graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: doc,
			Context:       context.Background(),
		}))
	}
	if err := json.NewEncoder(os.Stdout).Encode(results); err != nil {
		panic(err)
	}
}
`

type execResult struct {
	Data   map[string]any `json:"data"`
	Errors []struct {
		Message string `json:"message"`
		Path    []any  `json:"path"`
	} `json:"errors"`
}

// runGenerated emits the schema of the annotated file into a throwaway main
// package inside the module, then runs docs against it with the go command.
func runGenerated(t *testing.T, file string, docs []string) []execResult {
	t.Helper()
	if testing.Short() {
		t.Skip("builds generated code")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}

	p := &provider.SourceProvider{}
	s, err := p.BuildSchema(context.Background(), provider.SourceOptions{
		File:    file,
		BaseDir: "testdata",
	})
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}
	out, err := Emit(s, Options{Package: "main"})
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	dir, err := os.MkdirTemp("testdata", "run-")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	if err := os.WriteFile(filepath.Join(dir, "schema.go"), out, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte(runnerMain), 0o644); err != nil {
		t.Fatal(err)
	}

	input, err := json.Marshal(docs)
	if err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.Command("go", "run", "./"+filepath.ToSlash(dir))
	cmd.Env = append(os.Environ(), "GOWORK=off")
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("go run: %v\n%s\ngenerated:\n%s", err, stderr.String(), out)
	}

	var results []execResult
	if err := json.Unmarshal(stdout.Bytes(), &results); err != nil {
		t.Fatalf("decode results: %v\n%s", err, stdout.String())
	}
	if len(results) != len(docs) {
		t.Fatalf("got %d results, want %d", len(results), len(docs))
	}
	return results
}

func TestEmit_Executes(t *testing.T) {
	docs := []string{
		`{ countries(filter: {prefix: "N", limit: 1}) {
			name capital population
			cities { name slug founded greeting(greeting: "Hei", excited: true) }
		} }`,
		`{ countries(filter: {prefix: ""}) { name city(name: "Wellington") { greeting(greeting: "Kia ora") } } }`,
		`mutation { shout(text: "hi") }`,
	}
	results := runGenerated(t, "testdata/atlas/atlas.go", docs)

	t.Run("properties and methods", func(t *testing.T) {
		got := results[0]
		if len(got.Errors) > 0 {
			t.Fatalf("errors: %+v", got.Errors)
		}
		want := map[string]any{
			"countries": []any{
				map[string]any{
					"name":       "Norway",
					"capital":    "Oslo",
					"population": 5500000.0,
					"cities": []any{
						map[string]any{"name": "Oslo", "slug": "oslo", "founded": "1040-01-01T00:00:00Z", "greeting": "Hei, Oslo!"},
						map[string]any{"name": "Bergen", "slug": "bergen", "founded": "1070-01-01T00:00:00Z", "greeting": "Hei, Bergen!"},
					},
				},
			},
		}
		if d := pretty.Compare(got.Data, want); d != "" {
			t.Errorf("data diff (-got +want):\n%s", d)
		}
	})

	t.Run("resolver errors", func(t *testing.T) {
		got := results[1]
		want := map[string]any{
			"countries": []any{
				map[string]any{"name": "Norway", "city": nil},
				map[string]any{"name": "New Zealand", "city": map[string]any{"greeting": "Kia ora, Wellington"}},
				map[string]any{"name": "Peru", "city": nil},
			},
		}
		if d := pretty.Compare(got.Data, want); d != "" {
			t.Errorf("data diff (-got +want):\n%s", d)
		}
		if len(got.Errors) != 2 {
			t.Fatalf("got %d errors, want 2: %+v", len(got.Errors), got.Errors)
		}
		for _, e := range got.Errors {
			if !strings.Contains(e.Message, "no city Wellington") {
				t.Errorf("error = %q", e.Message)
			}
		}
	})

	t.Run("mutation", func(t *testing.T) {
		got := results[2]
		if len(got.Errors) > 0 {
			t.Fatalf("errors: %+v", got.Errors)
		}
		if got.Data["shout"] != "HI" {
			t.Errorf("shout = %v", got.Data["shout"])
		}
	})
}
