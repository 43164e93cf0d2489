package reqcache

import "inkcast/internal/panels"

// PanelGroup collects panels that share identical image content. One
// analysis request serves every panel in the group.
type PanelGroup struct {
	Checksum string
	Indices  []int
}

// GroupPanels buckets panels by checksum, preserving first-seen order.
func GroupPanels(list []panels.Panel) []PanelGroup {
	byChecksum := make(map[string]int, len(list))
	groups := make([]PanelGroup, 0, len(list))
	for _, panel := range list {
		if pos, ok := byChecksum[panel.Checksum]; ok {
			groups[pos].Indices = append(groups[pos].Indices, panel.Index)
			continue
		}
		byChecksum[panel.Checksum] = len(groups)
		groups = append(groups, PanelGroup{
			Checksum: panel.Checksum,
			Indices:  []int{panel.Index},
		})
	}
	return groups
}
