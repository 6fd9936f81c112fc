package treesitter

import (
	"errors"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"
)

// ErrUnknownLanguage indicates a language with no grammar.
var ErrUnknownLanguage = errors.New("unknown language")

type language struct {
	name       string
	extensions []string
	grammar    func() *sitter.Language
	query      string
}

var languages = []language{
	{name: "go", extensions: []string{".go"}, grammar: golang.GetLanguage, query: goHighlightQuery},
	{name: "toml", extensions: []string{".toml"}, grammar: toml.GetLanguage, query: tomlHighlightQuery},
	{name: "yaml", extensions: []string{".yaml", ".yml"}, grammar: yaml.GetLanguage, query: yamlHighlightQuery},
	{name: "bash", extensions: []string{".sh", ".bash"}, grammar: bash.GetLanguage, query: bashHighlightQuery},
}

// LanguageFor returns the language of path by extension.
func LanguageFor(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, l := range languages {
		for _, e := range l.extensions {
			if e == ext {
				return l.name, true
			}
		}
	}
	return "", false
}

func findLanguage(name string) (language, bool) {
	for _, l := range languages {
		if l.name == name {
			return l, true
		}
	}
	return language{}, false
}
