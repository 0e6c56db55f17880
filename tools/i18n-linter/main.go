// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the locale files against each other and against the
// message ids referenced in the Go sources. It fails when a referenced id or
// a translation is missing, or when a translation uses different format
// verbs than the English message.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

// Location stores the file and line number of a found string.
type Location struct {
	Filepath string
	Line     int
}

// report collects every finding of one run.
type report struct {
	Undefined map[string][]Location // referenced in code, absent from the primary locale
	Orphaned  []string              // in the primary locale, never referenced
	Missing   map[string][]string   // locale file -> ids it lacks
	Extra     map[string][]string   // locale file -> ids unknown to the primary locale
	Verbs     map[string][]string   // locale file -> ids whose format verbs differ
}

func (r *report) failed() bool {
	return len(r.Undefined) > 0 || len(r.Missing) > 0 || len(r.Verbs) > 0
}

func main() {
	fmt.Println("🔍 Running i18n linter...")
	r, err := lint(projectRoot, localesDir)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	r.print()
	if r.failed() {
		fmt.Println("❌ Found issues that need to be addressed.")
		os.Exit(1)
	}
	if len(r.Orphaned) > 0 {
		fmt.Println("⚠️  Found orphaned keys. Please consider removing them.")
		return
	}
	fmt.Println("✅ All translation files are consistent!")
}

func lint(root, dir string) (*report, error) {
	primary, err := loadMessages(filepath.Join(dir, primaryLocale))
	if err != nil {
		return nil, fmt.Errorf("load primary locale %s: %w", primaryLocale, err)
	}
	used, err := findUsedKeys(root, namespaces(primary))
	if err != nil {
		return nil, fmt.Errorf("scan sources: %w", err)
	}

	r := &report{
		Undefined: map[string][]Location{},
		Missing:   map[string][]string{},
		Extra:     map[string][]string{},
		Verbs:     map[string][]string{},
	}
	for id, locs := range used {
		if _, ok := primary[id]; !ok {
			r.Undefined[id] = locs
		}
	}
	for id := range primary {
		if _, ok := used[id]; !ok {
			r.Orphaned = append(r.Orphaned, id)
		}
	}
	sort.Strings(r.Orphaned)

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if filepath.Base(file) == primaryLocale {
			continue
		}
		other, err := loadMessages(file)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
		name := filepath.Base(file)
		for id, msg := range primary {
			tr, ok := other[id]
			if !ok {
				r.Missing[name] = append(r.Missing[name], id)
				continue
			}
			if !sameVerbs(msg, tr) {
				r.Verbs[name] = append(r.Verbs[name], id)
			}
		}
		for id := range other {
			if _, ok := primary[id]; !ok {
				r.Extra[name] = append(r.Extra[name], id)
			}
		}
		sort.Strings(r.Missing[name])
		sort.Strings(r.Extra[name])
		sort.Strings(r.Verbs[name])
	}
	for _, m := range []map[string][]string{r.Missing, r.Extra, r.Verbs} {
		for k, v := range m {
			if len(v) == 0 {
				delete(m, k)
			}
		}
	}
	return r, nil
}

func (r *report) print() {
	fmt.Println("--- Ids referenced in code but not defined ---")
	if len(r.Undefined) == 0 {
		fmt.Println("  ✨ None found.")
	}
	var ids []string
	for id := range r.Undefined {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		loc := r.Undefined[id][0]
		fmt.Printf("  - Undefined: %s (%s:%d)\n", id, loc.Filepath, loc.Line)
	}

	fmt.Println("\n--- Orphaned ids (defined but never referenced) ---")
	if len(r.Orphaned) == 0 {
		fmt.Println("  ✨ None found.")
	}
	for _, id := range r.Orphaned {
		fmt.Printf("  - Orphaned: %s\n", id)
	}

	fmt.Println("\n--- Translations ---")
	printGroup("Missing", r.Missing)
	printGroup("Unknown", r.Extra)
	printGroup("Format verbs differ", r.Verbs)
	fmt.Println()
}

func printGroup(title string, m map[string][]string) {
	var files []string
	for f := range m {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		for _, id := range m[f] {
			fmt.Printf("  - %s in %s: %s\n", title, f, id)
		}
	}
}

// loadMessages reads a flat "id": "message" YAML file.
func loadMessages(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]string
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// namespaces returns the id prefixes before the first dot, e.g. "wallet".
func namespaces(msgs map[string]string) map[string]struct{} {
	out := map[string]struct{}{}
	for id := range msgs {
		if i := strings.IndexByte(id, '.'); i > 0 {
			out[id[:i]] = struct{}{}
		}
	}
	return out
}

var literalRe = regexp.MustCompile(`"([a-z]+)\.([a-z_.]+)"`)

// findUsedKeys collects every string literal in non-test Go files that looks
// like a message id of one of the known namespaces.
func findUsedKeys(root string, ns map[string]struct{}) (map[string][]Location, error) {
	keys := make(map[string][]Location)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			switch info.Name() {
			case "tools", "_examples", ".git":
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for i, line := range strings.Split(string(content), "\n") {
			for _, m := range literalRe.FindAllStringSubmatch(line, -1) {
				if _, ok := ns[m[1]]; !ok {
					continue
				}
				id := m[1] + "." + m[2]
				keys[id] = append(keys[id], Location{Filepath: path, Line: i + 1})
			}
		}
		return nil
	})
	return keys, err
}

var verbRe = regexp.MustCompile(`%[-+# 0]*\d*(?:\.\d+)?[a-zA-Z%]`)

// sameVerbs reports whether a and b use the same format verbs in the same
// order.
func sameVerbs(a, b string) bool {
	va, vb := verbRe.FindAllString(a, -1), verbRe.FindAllString(b, -1)
	if len(va) != len(vb) {
		return false
	}
	for i := range va {
		if va[i] != vb[i] {
			return false
		}
	}
	return true
}
