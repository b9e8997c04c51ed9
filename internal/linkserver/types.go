package linkserver

type LinkReadInput struct {
	URL string `json:"url" jsonschema:"http(s) URL to read"`
}

type LinkReadOutput struct {
	URL           string `json:"url"`
	Kind          string `json:"kind"` // generic, music, social
	Content       string `json:"content"`
	HasScreenshot bool   `json:"has_screenshot"`
}

type LinkContextInput struct {
	Message string `json:"message" jsonschema:"Chat message that may contain a link"`
}

type LinkContextOutput struct {
	URL    string `json:"url,omitempty"`
	Prompt string `json:"prompt"` // empty when no link was found or the plugin is disabled
}

type LinkStatusInput struct{}

type LinkStatusOutput struct {
	PluginEnabled bool            `json:"plugin_enabled"`
	MusicEnabled  bool            `json:"music_enabled"`
	APISearch     bool            `json:"api_search"`
	RenderReady   bool            `json:"render_ready"`
	ArticleMode   bool            `json:"article_mode"`
	MaxLength     int             `json:"max_length"`
	Cookies       map[string]bool `json:"cookies"`
	Report        string          `json:"report"`
}
