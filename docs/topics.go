// Package docs holds the documentation topics of pvs.
package docs

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed *.md
var docs embed.FS

// Topic returns the content of a documentation topic, "*" for all of them.
func Topic(name string) (string, error) {
	if name == "*" {
		return Topics(name)
	}
	content, err := docs.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", name, err)
	}
	return string(content), nil
}

// Topics returns the content of several topics concatenated together. "*" expands to
// every topic.
func Topics(names ...string) (string, error) {
	var b bytes.Buffer
	for _, name := range names {
		expanded := []string{name}
		if name == "*" {
			all, err := AllTopics()
			if err != nil {
				return "", err
			}
			expanded = all
		}
		for _, n := range expanded {
			content, err := Topic(n)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// AllTopics returns the sorted names of every topic, the readme excluded.
func AllTopics() ([]string, error) {
	entries, err := fs.ReadDir(docs, ".")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if e.IsDir() || name == "readme" {
			continue
		}
		topics = append(topics, name)
	}
	slices.Sort(topics)
	return topics, nil
}

// Index returns the readme, which lists the topics.
func Index() string {
	content, _ := docs.ReadFile("readme.md")
	return string(content)
}
