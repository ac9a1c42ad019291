// Package optimistic reconciles local interaction state with the server.
//
// Cards render likes, dislikes and list membership from a shared view
// owned by a Reconciler. A toggle flips the view immediately, issues a
// single remote mutation, and on failure restores the exact pre-toggle
// state. While a mutation is in flight further toggles of the same pair
// are ignored, so at most one remote call per (artwork, interaction)
// pair is ever outstanding.
package optimistic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Kind identifies which interaction a toggle targets.
type Kind string

const (
	KindLike    Kind = "like"
	KindDislike Kind = "dislike"
	KindList    Kind = "list"
)

// Phase is the lifecycle state of one (artwork, interaction) pair.
type Phase int

const (
	PhaseSettled Phase = iota
	PhasePending
	PhaseError
)

// Status reports how a toggle resolved.
type Status string

const (
	// StatusApplied means the remote mutation succeeded and the view
	// carries the server's authoritative state.
	StatusApplied Status = "applied"
	// StatusIgnored means nothing happened: a mutation for the same
	// pair was already in flight, or the artwork is gone.
	StatusIgnored Status = "ignored"
	// StatusFailed means the remote mutation failed and the view was
	// restored to its pre-toggle state.
	StatusFailed Status = "failed"
)

// Outcome is the resolution of one toggle.
type Outcome struct {
	Status Status
	State  Membership
	Err    error
}

type pairKey struct {
	artworkID string
	kind      Kind
	listID    string
}

type pairState struct {
	phase Phase
}

// command captures everything needed to run a toggle and to revert it
// mechanically: the pre-toggle snapshot is taken before flip is applied,
// and restoring that snapshot undoes the optimistic change.
type command struct {
	key pairKey
	// flip computes the optimistic membership from the pre-toggle one.
	flip func(pre Membership) Membership
	// run issues the remote mutation. On success it may return a settle
	// function that writes the server's authoritative state into the
	// view; the reconciler calls it under its own lock.
	run func(ctx context.Context) (func(v *view, artworkID string), error)
}

// Reconciler owns the shared membership view. All mutation goes through
// its methods; cards only ever read snapshots.
type Reconciler struct {
	remote Remote
	logger *slog.Logger

	mu        sync.Mutex
	view      *view
	pairs     map[pairKey]*pairState
	listeners map[string][]func()

	notifications chan Notification
}

// NewReconciler builds a reconciler over the given remote.
func NewReconciler(remote Remote, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reconciler{
		remote:        remote,
		logger:        logger,
		view:          newView(),
		pairs:         make(map[pairKey]*pairState),
		listeners:     make(map[string][]func()),
		notifications: make(chan Notification, notificationBuffer),
	}
}

// SeedArtwork installs the server-reported membership for an artwork,
// typically when its card first renders.
func (r *Reconciler) SeedArtwork(artworkID string, m Membership) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, listID := range m.Lists {
		if r.view.lists[listID] == nil {
			r.view.lists[listID] = make(map[string]bool)
		}
	}
	delete(r.view.removed, artworkID)
	r.view.restore(artworkID, m)
}

// SeedList makes a list known to the view.
func (r *Reconciler) SeedList(listID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.view.lists[listID] == nil {
		r.view.lists[listID] = make(map[string]bool)
	}
}

// Membership returns the current view snapshot for an artwork.
func (r *Reconciler) Membership(artworkID string) Membership {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view.snapshot(artworkID)
}

// ReactionPhase reports the lifecycle phase of a like or dislike pair.
func (r *Reconciler) ReactionPhase(artworkID string, kind Kind) Phase {
	return r.phaseOf(pairKey{artworkID: artworkID, kind: kind})
}

// ListPhase reports the lifecycle phase of a list membership pair.
func (r *Reconciler) ListPhase(listID, artworkID string) Phase {
	return r.phaseOf(pairKey{artworkID: artworkID, kind: KindList, listID: listID})
}

func (r *Reconciler) phaseOf(key pairKey) Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.pairs[key]; ok {
		return st.phase
	}
	return PhaseSettled
}

// ToggleLike flips the like on an artwork. Liking clears a held dislike
// both locally and on the server.
func (r *Reconciler) ToggleLike(ctx context.Context, artworkID string) Outcome {
	cmd := command{
		key: pairKey{artworkID: artworkID, kind: KindLike},
		flip: func(pre Membership) Membership {
			next := pre
			next.Liked = !pre.Liked
			if next.Liked {
				next.Disliked = false
			}
			return next
		},
		run: func(ctx context.Context) (func(v *view, artworkID string), error) {
			state, err := r.remote.ToggleLike(ctx, artworkID)
			if err != nil {
				return nil, err
			}
			return settleReaction(state), nil
		},
	}
	return r.execute(ctx, cmd, "Reaction saved", "Could not save reaction")
}

// ToggleDislike flips the dislike on an artwork. Disliking clears a held
// like both locally and on the server.
func (r *Reconciler) ToggleDislike(ctx context.Context, artworkID string) Outcome {
	cmd := command{
		key: pairKey{artworkID: artworkID, kind: KindDislike},
		flip: func(pre Membership) Membership {
			next := pre
			next.Disliked = !pre.Disliked
			if next.Disliked {
				next.Liked = false
			}
			return next
		},
		run: func(ctx context.Context) (func(v *view, artworkID string), error) {
			state, err := r.remote.ToggleDislike(ctx, artworkID)
			if err != nil {
				return nil, err
			}
			return settleReaction(state), nil
		},
	}
	return r.execute(ctx, cmd, "Reaction saved", "Could not save reaction")
}

// ToggleListItem flips the artwork's membership in a list.
func (r *Reconciler) ToggleListItem(ctx context.Context, listID, artworkID string) Outcome {
	r.SeedList(listID)
	cmd := command{
		key: pairKey{artworkID: artworkID, kind: KindList, listID: listID},
		flip: func(pre Membership) Membership {
			next := pre
			next.Lists = nil
			present := false
			for _, id := range pre.Lists {
				if id == listID {
					present = true
					continue
				}
				next.Lists = append(next.Lists, id)
			}
			if !present {
				next.Lists = append(next.Lists, listID)
			}
			return next
		},
		run: func(ctx context.Context) (func(v *view, artworkID string), error) {
			_, err := r.remote.ToggleListItem(ctx, listID, artworkID)
			return nil, err
		},
	}
	return r.execute(ctx, cmd, "List updated", "Could not update list")
}

// CreateList creates a new list remotely and registers it in the view.
// There is no optimistic phase: a failed creation leaves no local list
// behind. A blank title never reaches the server.
func (r *Reconciler) CreateList(ctx context.Context, title string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("list title must not be empty")
	}
	listID, err := r.invoke(func() (string, error) {
		return r.remote.CreateList(ctx, title)
	})
	if err != nil {
		r.logger.Warn("list creation failed", "error", err)
		r.notify(LevelFailure, "Could not create list")
		return "", err
	}
	r.SeedList(listID)
	r.notify(LevelSuccess, "List created")
	return listID, nil
}

// RegisterCard subscribes a card to the artwork's delete broadcast. The
// returned function unregisters it.
func (r *Reconciler) RegisterCard(artworkID string, fn func()) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[artworkID] = append(r.listeners[artworkID], fn)
	idx := len(r.listeners[artworkID]) - 1
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		fns := r.listeners[artworkID]
		if idx < len(fns) {
			fns[idx] = nil
		}
	}
}

// HandleArtworkDeleted consumes a delete broadcast. Delivery may repeat;
// only the first occurrence mutates the view or notifies cards. Pending
// mutations for the artwork resolve as no-ops when they complete.
func (r *Reconciler) HandleArtworkDeleted(artworkID string) {
	r.mu.Lock()
	if r.view.removed[artworkID] {
		r.mu.Unlock()
		return
	}
	r.view.drop(artworkID)
	for key := range r.pairs {
		if key.artworkID == artworkID {
			delete(r.pairs, key)
		}
	}
	fns := r.listeners[artworkID]
	delete(r.listeners, artworkID)
	r.mu.Unlock()

	for _, fn := range fns {
		if fn != nil {
			fn()
		}
	}
}

// execute runs the full toggle lifecycle. It never panics: failures in
// the remote call, panics included, fold into a failed outcome with the
// view restored.
func (r *Reconciler) execute(ctx context.Context, cmd command, successMsg, failureMsg string) Outcome {
	artworkID := cmd.key.artworkID

	r.mu.Lock()
	if r.view.removed[artworkID] {
		r.mu.Unlock()
		return Outcome{Status: StatusIgnored}
	}
	st, ok := r.pairs[cmd.key]
	if !ok {
		st = &pairState{}
		r.pairs[cmd.key] = st
	}
	if st.phase == PhasePending {
		snap := r.view.snapshot(artworkID)
		r.mu.Unlock()
		return Outcome{Status: StatusIgnored, State: snap}
	}
	pre := r.view.snapshot(artworkID)
	optimistic := cmd.flip(pre)
	r.view.restore(artworkID, optimistic)
	st.phase = PhasePending
	r.mu.Unlock()

	settle, err := r.invokeCommand(ctx, cmd)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.view.removed[artworkID] {
		// The artwork was deleted while the mutation was in flight.
		return Outcome{Status: StatusIgnored}
	}
	if err != nil {
		r.view.restore(artworkID, pre)
		st.phase = PhaseError
		r.logger.Warn("toggle failed",
			"artwork_id", artworkID,
			"kind", cmd.key.kind,
			"error", err)
		r.notify(LevelFailure, failureMsg)
		return Outcome{Status: StatusFailed, State: r.view.snapshot(artworkID), Err: err}
	}
	if settle != nil {
		settle(r.view, artworkID)
	}
	st.phase = PhaseSettled
	r.notify(LevelSuccess, successMsg)
	return Outcome{Status: StatusApplied, State: r.view.snapshot(artworkID)}
}

func (r *Reconciler) invokeCommand(ctx context.Context, cmd command) (settle func(v *view, artworkID string), err error) {
	defer func() {
		if rec := recover(); rec != nil {
			settle = nil
			err = fmt.Errorf("remote mutation panicked: %v", rec)
		}
	}()
	return cmd.run(ctx)
}

func (r *Reconciler) invoke(fn func() (string, error)) (result string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = ""
			err = fmt.Errorf("remote mutation panicked: %v", rec)
		}
	}()
	return fn()
}

// settleReaction writes the server's authoritative reaction flags into
// the view. Counts stay with the caller via the Outcome.
func settleReaction(state ReactionState) func(v *view, artworkID string) {
	return func(v *view, artworkID string) {
		v.liked[artworkID] = state.Liked
		v.disliked[artworkID] = state.Disliked
	}
}
