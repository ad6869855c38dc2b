package systemprompt

import (
	"fmt"
	"strings"
)

// Generator is system prompt generator framework
type Generator interface {
	Generate() string
	// ContextProvider retrieves a context provider by name.
	// If the context provider is not found returns not found error
	ContextProvider(title string) (ContextProvider, error)
	// AddContextProviders registers new context providers
	AddContextProviders(providers ...ContextProvider)
	// RemoveContextProviders Unregisters an existing context provider.
	RemoveContextProviders(titles ...string)
}

type BaseGenerator struct {
	contextProviders []ContextProvider
}

func (g *BaseGenerator) ContextProviders() []ContextProvider {
	return g.contextProviders
}

// ContextProvider retrieves a context provider by name.
// If the context provider is not found returns not found error
func (g *BaseGenerator) ContextProvider(title string) (ContextProvider, error) {
	for _, p := range g.contextProviders {
		if p.Title() == title {
			return p, nil
		}
	}
	return nil, fmt.Errorf("context provider '%s' not found", title)
}

// AddContextProviders registers new context providers, a title already registered is ignored
func (g *BaseGenerator) AddContextProviders(providers ...ContextProvider) {
	for _, provider := range providers {
		if _, err := g.ContextProvider(provider.Title()); err != nil {
			g.contextProviders = append(g.contextProviders, provider)
		}
	}
}

// RemoveContextProviders Unregisters an existing context provider.
func (g *BaseGenerator) RemoveContextProviders(titles ...string) {
	mp := make(map[string]struct{}, len(titles))
	for _, v := range titles {
		mp[v] = struct{}{}
	}
	providers := make([]ContextProvider, 0, len(g.contextProviders))
	for _, p := range g.contextProviders {
		if _, found := mp[p.Title()]; found {
			continue
		}
		providers = append(providers, p)
	}
	g.contextProviders = providers
}

// AppendContext appends the "EXTRA INFORMATION AND CONTEXT" section built from
// the registered providers to promptParts. Providers with empty info are skipped.
func (g *BaseGenerator) AppendContext(promptParts []string) []string {
	return AppendContext(promptParts, g.contextProviders...)
}

// AppendContext appends a context section for providers to promptParts
func AppendContext(promptParts []string, providers ...ContextProvider) []string {
	if len(providers) == 0 {
		return promptParts
	}
	section := make([]string, 0, len(providers)*3+1)
	section = append(section, "# EXTRA INFORMATION AND CONTEXT")
	for _, provider := range providers {
		if info := provider.Info(); info != "" {
			section = append(section, fmt.Sprintf("## %s", provider.Title()), info, "")
		}
	}
	if len(section) == 1 {
		return promptParts
	}
	return append(promptParts, section...)
}

// Section is a titled block of a system prompt
type Section struct {
	Title string
	Lines []string
}

// RenderSections renders the non empty sections as a heading followed by list items
func RenderSections(sections ...Section) []string {
	promptParts := make([]string, 0, len(sections)*4)
	for _, sec := range sections {
		if len(sec.Lines) == 0 {
			continue
		}
		promptParts = append(promptParts, "# "+sec.Title)
		for _, line := range sec.Lines {
			promptParts = append(promptParts, Bullet(line))
		}
		promptParts = append(promptParts, "")
	}
	return promptParts
}

// Bullet turns line into a markdown list item, lines already listed are kept
func Bullet(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		return line
	}
	return "- " + line
}

// Join joins prompt parts into the final prompt
func Join(promptParts []string) string {
	return strings.TrimSpace(strings.Join(promptParts, "\n"))
}
