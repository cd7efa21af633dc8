// File: internal/services/chat/router.go
package chat

import (
	"strings"
	"unicode/utf8"
)

// Router is a pure keyword and length classifier.
type Router struct {
	defaultModel   string
	reasoningModel string
	threshold      int
	keywords       []string
}

func NewRouter(config *Config) *Router {
	keywords := make([]string, 0, len(config.Keywords))
	for _, k := range config.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	return &Router{
		defaultModel:   config.DefaultModel,
		reasoningModel: config.ReasoningModel,
		threshold:      config.LengthThreshold,
		keywords:       keywords,
	}
}

func (r *Router) Choose(text string) Route {
	if r.needsReasoning(text) {
		return Route{Model: r.reasoningModel, DeepThink: true}
	}
	return Route{Model: r.defaultModel, DeepThink: false}
}

func (r *Router) needsReasoning(text string) bool {
	if utf8.RuneCountInString(text) > r.threshold {
		return true
	}
	lower := strings.ToLower(text)
	for _, k := range r.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
