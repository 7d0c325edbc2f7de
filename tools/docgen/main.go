// Package main renders the ozonctl command reference as markdown pages with
// front-matter, or as man pages.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/donaldgifford/ozon-seller-client/cmd/ozonctl/cmd"
)

const frontMatter = `---
title: %q
description: %q
section: ozonctl
---

`

func main() {
	output := flag.String("output", "docs/ozonctl", "output directory for the command reference")
	format := flag.String("format", "markdown", "output format: markdown or man")
	flag.Parse()

	root := cmd.Root()
	if err := generate(root, *output, *format); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("ozonctl %s reference generated in %s/\n", *format, *output)
}

func generate(root *cobra.Command, dir, format string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	root.DisableAutoGenTag = true

	switch format {
	case "markdown":
		descriptions := shortDescriptions(root)
		prepend := func(filename string) string {
			name := strings.TrimSuffix(filepath.Base(filename), ".md")
			return fmt.Sprintf(frontMatter, strings.ReplaceAll(name, "_", " "), descriptions[name])
		}
		if err := doc.GenMarkdownTreeCustom(root, dir, prepend, pageLink); err != nil {
			return fmt.Errorf("generating markdown: %w", err)
		}
	case "man":
		header := &doc.GenManHeader{Title: "OZONCTL", Section: "1", Source: "ozon-seller-client"}
		if err := doc.GenManTree(root, header, dir); err != nil {
			return fmt.Errorf("generating man pages: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q (want markdown or man)", format)
	}
	return nil
}

// shortDescriptions maps a page basename such as "ozonctl_category_tree" to
// the command's short help.
func shortDescriptions(root *cobra.Command) map[string]string {
	out := make(map[string]string)
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		out[strings.ReplaceAll(c.CommandPath(), " ", "_")] = c.Short
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(root)
	return out
}

// pageLink drops the .md suffix so links resolve as site routes.
func pageLink(name string) string {
	return strings.TrimSuffix(name, ".md")
}
