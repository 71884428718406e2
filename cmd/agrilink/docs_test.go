package main

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/swaggo/swag"
)

var ginParam = regexp.MustCompile(`:([A-Za-z]+)`)

// Every /api route must be described in the registered swagger document.
func TestSwaggerDocCoversRoutes(t *testing.T) {
	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("swag.ReadDoc: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("json inválido: %v", err)
	}

	f := newFixture(t)
	for _, r := range f.router.Routes() {
		if !strings.HasPrefix(r.Path, "/api/") {
			continue
		}
		p := ginParam.ReplaceAllString(strings.TrimPrefix(r.Path, "/api"), "{$1}")
		if _, ok := doc.Paths[p][strings.ToLower(r.Method)]; !ok {
			t.Fatalf("ruta sin documentar: %s %s", r.Method, p)
		}
	}
}
