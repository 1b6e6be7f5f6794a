package hierarchy

// wrap places all top-level trees under the synthetic organization root.
// An empty forest yields an empty, non-nil slice.
func wrap(trees []TreeNode) []TreeNode {
	if len(trees) == 0 {
		return []TreeNode{}
	}
	return []TreeNode{{
		Name:       VirtualRootName,
		Attributes: Attributes{AttrType: VirtualRootType},
		Children:   trees,
		ID:         VirtualRootID,
	}}
}
