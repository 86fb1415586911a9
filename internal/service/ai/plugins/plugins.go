package plugins

import "github.com/cloudwego/eino/schema"

// Plugin groups tool functions under one name so execution settings can
// exclude a whole plugin from autonomous invocation.
type Plugin struct {
	Name  string
	Tools []*schema.ToolInfo
}

// Registry holds the plugins offered to the completion backend.
type Registry struct {
	plugins []Plugin
}

// NewRegistry returns a registry over the supplied plugins.
func NewRegistry(items ...Plugin) *Registry {
	return &Registry{plugins: append([]Plugin(nil), items...)}
}

// Tools returns the tool surface of every plugin not named in excluded.
func (r *Registry) Tools(excluded ...string) []*schema.ToolInfo {
	skip := make(map[string]struct{}, len(excluded))
	for _, name := range excluded {
		skip[name] = struct{}{}
	}

	var tools []*schema.ToolInfo
	for _, plugin := range r.plugins {
		if _, ok := skip[plugin.Name]; ok {
			continue
		}
		tools = append(tools, plugin.Tools...)
	}
	return tools
}

// Builtin returns the stock plugin set. The ChatBot plugin is the
// conversational surface itself; registering it lets the exclusion filter
// keep the model from invoking the chat loop recursively.
func Builtin() []Plugin {
	return []Plugin{
		{
			Name: "ChatBot",
			Tools: []*schema.ToolInfo{
				{
					Name: "chatbot_respond",
					Desc: "Send a conversational reply to the active chat session.",
					ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
						"text": {
							Type:     schema.String,
							Desc:     "Reply text",
							Required: true,
						},
					}),
				},
			},
		},
		{
			Name: "ThreatLookup",
			Tools: []*schema.ToolInfo{
				{
					Name: "threat_lookup",
					Desc: "Look up reputation data for an indicator of compromise (IP, domain or file hash).",
					ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
						"indicator": {
							Type:     schema.String,
							Desc:     "The IP address, domain name or file hash to look up",
							Required: true,
						},
					}),
				},
			},
		},
	}
}
