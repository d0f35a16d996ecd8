package toolregistry

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sandipan1/hica/remotetool"
	"github.com/sandipan1/hica/telemetry"
)

// remoteEntry pairs a remote tool descriptor with the connection it was
// loaded from, mirroring the original's mcp_tools: Dict[str,
// Tuple[MCPConnectionManager, ToolDefinition]].
type remoteEntry struct {
	conn *remotetool.Connection
	desc Descriptor
}

// Registry holds three maps keyed by tool name: local tools, remote
// tools, and the merged catalog used for LLM prompting. A later
// registration overwrites an earlier one and logs a warning
// (last-write-wins).
type Registry struct {
	mu sync.RWMutex

	localTools map[string]LocalTool
	remote     map[string]remoteEntry
	catalog    map[string]Descriptor

	logger telemetry.Logger
}

// Options configures a Registry.
type Options struct {
	Logger telemetry.Logger
}

// New constructs an empty Registry.
func New(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}
	return &Registry{
		localTools: make(map[string]LocalTool),
		remote:     make(map[string]remoteEntry),
		catalog:    make(map[string]Descriptor),
		logger:     logger,
	}
}

// RegisterLocal adds a local tool to the registry. If name is already
// registered (local or remote), the prior registration is overwritten
// and a warning is logged.
func (r *Registry) RegisterLocal(tool LocalTool, schema ParameterSchema) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	r.warnIfOverwriting(name)
	r.localTools[name] = tool
	delete(r.remote, name)
	r.catalog[name] = Descriptor{
		Name:             name,
		Description:      tool.Description(),
		ParametersSchema: schema,
		Origin:           OriginLocal,
	}
	r.logger.Info(context.Background(), "registered local tool", "name", name)
}

// RegisterFunc adapts fn via WrapFunc and registers it as a local tool,
// deriving its schema from fn's reflected signature.
func (r *Registry) RegisterFunc(name, description string, fn any, paramNames ...string) error {
	schema, err := DeriveSchemaFromFunc(fn, paramNames)
	if err != nil {
		return err
	}
	tool, err := WrapFunc(name, description, fn, paramNames...)
	if err != nil {
		return err
	}
	r.RegisterLocal(tool, schema)
	return nil
}

// LoadRemoteTools calls ListTools on conn and registers every returned
// descriptor as a remote tool bound to conn.
func (r *Registry) LoadRemoteTools(ctx context.Context, conn *remotetool.Connection) error {
	tools, err := conn.ListTools(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tool := range tools {
		name := tool.Name
		r.warnIfOverwriting(name)
		desc := Descriptor{
			Name:             name,
			Description:      tool.Description,
			ParametersSchema: schemaFromRawInput(tool.InputSchema),
			Origin:           OriginRemote,
		}
		r.remote[name] = remoteEntry{conn: conn, desc: desc}
		delete(r.localTools, name)
		r.catalog[name] = desc
		r.logger.Info(ctx, "registered remote tool", "name", name)
	}
	return nil
}

// Remove removes a tool (local or remote) from the registry by name, per
// the original's remove_tool: warns if the name is not found.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx := context.Background()
	switch {
	case r.isLocal(name):
		delete(r.localTools, name)
		delete(r.catalog, name)
		r.logger.Info(ctx, "removed local tool", "name", name)
	case r.isRemote(name):
		delete(r.remote, name)
		delete(r.catalog, name)
		r.logger.Info(ctx, "removed remote tool", "name", name)
	default:
		r.logger.Warn(ctx, "attempted to remove tool not found in registry", "name", name)
	}
}

// Descriptors returns the merged catalog used for LLM prompting.
func (r *Registry) Descriptors() map[string]Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Descriptor, len(r.catalog))
	for k, v := range r.catalog {
		out[k] = v
	}
	return out
}

// Lookup returns the descriptor for name, if registered.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.catalog[name]
	return desc, ok
}

func (r *Registry) isLocal(name string) bool {
	_, ok := r.localTools[name]
	return ok
}

func (r *Registry) isRemote(name string) bool {
	_, ok := r.remote[name]
	return ok
}

// warnIfOverwriting must be called with mu held.
func (r *Registry) warnIfOverwriting(name string) {
	if _, ok := r.catalog[name]; ok {
		r.logger.Warn(context.Background(), "tool already registered; overwriting", "name", name)
	}
}

func schemaFromRawInput(raw []byte) ParameterSchema {
	var doc struct {
		Properties map[string]struct {
			Type        string `json:"type"`
			Default     any    `json:"default,omitempty"`
			Description string `json:"description,omitempty"`
		} `json:"properties"`
		Required []string `json:"required,omitempty"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ParameterSchema{}
	}
	schema := ParameterSchema{Properties: make(map[string]PropertySchema, len(doc.Properties)), Required: doc.Required}
	for name, prop := range doc.Properties {
		schema.Properties[name] = PropertySchema{Type: prop.Type, Default: prop.Default, Description: prop.Description}
	}
	return schema
}
