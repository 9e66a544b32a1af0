package domain

// Domain is an industry vertical grouping related tools
type Domain struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Tools []Tool `json:"tools" yaml:"tools"`
}

// Tool is an analytical screen within a domain
type Tool struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Icon       string `json:"icon" yaml:"icon"`
	IndustryID string `json:"industry_id" yaml:"industry_id"`
}

// FindTool returns the tool with the given ID from the domain's tool list
func (d Domain) FindTool(toolID string) (Tool, bool) {
	for _, t := range d.Tools {
		if t.ID == toolID {
			return t, true
		}
	}
	return Tool{}, false
}

// HasTool reports whether the domain owns a tool with the given ID
func (d Domain) HasTool(toolID string) bool {
	_, ok := d.FindTool(toolID)
	return ok
}

// ViewKey identifies a (domain, tool) pair
type ViewKey struct {
	DomainID string `json:"domain_id"`
	ToolID   string `json:"tool_id"`
}

// String returns the key as "domain/tool"
func (k ViewKey) String() string {
	return k.DomainID + "/" + k.ToolID
}

// Selection is the active domain and tool supplied by the shell on each render.
// The shell owns it; renderers only read it.
type Selection struct {
	Domain  Domain `json:"domain"`
	Tool    Tool   `json:"tool"`
	Loading bool   `json:"loading"`
	Session string `json:"session,omitempty"`
}

// Key returns the (domain, tool) key of the selection
func (s Selection) Key() ViewKey {
	return ViewKey{DomainID: s.Domain.ID, ToolID: s.Tool.ID}
}

// Consistent reports whether the selected tool belongs to the selected domain
func (s Selection) Consistent() bool {
	return s.Tool.IndustryID == s.Domain.ID && s.Domain.HasTool(s.Tool.ID)
}
