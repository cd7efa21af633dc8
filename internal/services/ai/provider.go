package ai

// NewProvider picks the backend named by config.Provider.
func NewProvider(config *Config) (ChatProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}
	switch config.Provider {
	case ProviderOpenAI:
		return NewOpenAIProvider(config), nil
	default:
		return NewOllamaProvider(config)
	}
}
