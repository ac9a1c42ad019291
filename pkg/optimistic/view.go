package optimistic

// Membership is a snapshot of one artwork's interaction state as the
// local client sees it.
type Membership struct {
	Liked    bool
	Disliked bool
	// Lists holds the IDs of the lists the artwork belongs to.
	Lists []string
}

// view is the shared membership state all cards render from. It carries no
// lock of its own: the owning Reconciler's mu guards every access.
type view struct {
	liked    map[string]bool
	disliked map[string]bool
	// lists maps listID to the set of artwork IDs it contains.
	lists map[string]map[string]bool
	// removed marks artworks whose delete broadcast has been consumed.
	// Late toggle completions for these resolve to no-ops.
	removed map[string]bool
}

func newView() *view {
	return &view{
		liked:    make(map[string]bool),
		disliked: make(map[string]bool),
		lists:    make(map[string]map[string]bool),
		removed:  make(map[string]bool),
	}
}

// snapshot must be called with the Reconciler's mu held.
func (v *view) snapshot(artworkID string) Membership {
	m := Membership{
		Liked:    v.liked[artworkID],
		Disliked: v.disliked[artworkID],
	}
	for listID, items := range v.lists {
		if items[artworkID] {
			m.Lists = append(m.Lists, listID)
		}
	}
	return m
}

// restore must be called with the Reconciler's mu held.
func (v *view) restore(artworkID string, m Membership) {
	if v.removed[artworkID] {
		return
	}
	v.liked[artworkID] = m.Liked
	v.disliked[artworkID] = m.Disliked
	inList := make(map[string]bool, len(m.Lists))
	for _, listID := range m.Lists {
		inList[listID] = true
	}
	for listID, items := range v.lists {
		if inList[listID] {
			items[artworkID] = true
		} else {
			delete(items, artworkID)
		}
	}
}

// drop must be called with the Reconciler's mu held. It is idempotent.
func (v *view) drop(artworkID string) {
	delete(v.liked, artworkID)
	delete(v.disliked, artworkID)
	for _, items := range v.lists {
		delete(items, artworkID)
	}
	v.removed[artworkID] = true
}
