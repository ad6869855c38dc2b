package main

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bububa/trip-agents/planner"
)

const (
	formatMarkdown = "md"
	formatHTML     = "html"
	formatJSON     = "json"
)

func validFormat(format string) bool {
	switch format {
	case formatMarkdown, formatHTML, formatJSON:
		return true
	}
	return false
}

// printResult shows every agent section, with the error in place of the content for failures
func printResult(w io.Writer, res *planner.Result) {
	for i, o := range res.Outcomes() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "=== %s ===\n", o.Kind().Title())
		if o.Failed() {
			fmt.Fprintf(w, "Error: %s\n", o.Error())
			continue
		}
		fmt.Fprintln(w, strings.TrimSpace(o.Text()))
	}
	usage := res.Usage()
	if usage.Total() > 0 {
		fmt.Fprintf(w, "\nTokens: %s\n", usage)
	}
}

// writeArtifact writes the trip plan into dir and returns its path.
// Markdown and HTML are only written when the document holds at least one section,
// an empty path is returned otherwise.
func writeArtifact(dir string, format string, res *planner.Result) (string, error) {
	name := res.Filename()
	var data []byte
	switch format {
	case formatHTML:
		if res.Document.Empty() {
			return "", nil
		}
		name = strings.TrimSuffix(name, ".md") + ".html"
		data = []byte(htmlPage(res))
	case formatJSON:
		name = strings.TrimSuffix(name, ".md") + ".json"
		buf, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return "", err
		}
		data = buf
	default:
		if res.Document.Empty() {
			return "", nil
		}
		data = []byte(res.Document)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func htmlPage(res *planner.Result) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>Trip plan: %s</title>\n", html.EscapeString(res.Request.Destination))
	fmt.Fprintf(&sb, "<meta name=\"trip-plan-id\" content=\"%s\">\n", res.Document.ID())
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(res.Document.HTML())
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}
