package canvas

// Clone returns a deep copy of the canvas. Callers get snapshots, never live
// references into engine state.
func (c *Canvas) Clone() *Canvas {
	if c == nil {
		return nil
	}
	out := *c
	out.Elements = make([]Element, len(c.Elements))
	for i := range c.Elements {
		out.Elements[i] = c.Elements[i].clone()
	}
	out.Constraints = cloneMap(c.Constraints)
	out.Metadata = cloneMap(c.Metadata)
	out.Capabilities.SupportedElementTypes = append([]string(nil), c.Capabilities.SupportedElementTypes...)
	out.Capabilities.SupportedOperations = append([]string(nil), c.Capabilities.SupportedOperations...)
	return &out
}

func (e Element) clone() Element {
	out := e
	out.Metadata = cloneMap(e.Metadata)
	out.State.Properties = cloneMap(e.State.Properties)
	out.Content.Metadata = cloneMap(e.Content.Metadata)
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case map[string]any:
			out[k] = cloneMap(val)
		case []any:
			cp := make([]any, len(val))
			copy(cp, val)
			out[k] = cp
		default:
			out[k] = v
		}
	}
	return out
}
