package optimistic

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote tracks server-side reaction truth and counts every call so
// tests can assert exactly how many mutations a toggle issued.
type fakeRemote struct {
	mu           sync.Mutex
	likeCalls    int
	dislikeCalls int
	listCalls    int
	createCalls  int

	failErr   error
	panicNext bool

	// entered is closed (once) when a reaction call starts; release, if
	// set, blocks the call until closed. Used to hold a mutation in
	// flight.
	entered   chan struct{}
	release   chan struct{}
	enterOnce sync.Once

	reactions map[string]*ReactionState
	nextList  string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		reactions: make(map[string]*ReactionState),
		nextList:  "list-1",
	}
}

func (f *fakeRemote) gate() error {
	if f.entered != nil {
		f.enterOnce.Do(func() { close(f.entered) })
	}
	if f.release != nil {
		<-f.release
	}
	if f.panicNext {
		panic("remote exploded")
	}
	return f.failErr
}

func (f *fakeRemote) reaction(artworkID string) *ReactionState {
	if f.reactions[artworkID] == nil {
		f.reactions[artworkID] = &ReactionState{}
	}
	return f.reactions[artworkID]
}

func (f *fakeRemote) ToggleLike(_ context.Context, artworkID string) (ReactionState, error) {
	f.mu.Lock()
	f.likeCalls++
	f.mu.Unlock()
	if err := f.gate(); err != nil {
		return ReactionState{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.reaction(artworkID)
	st.Liked = !st.Liked
	if st.Liked {
		st.Disliked = false
		st.LikeCount++
	} else {
		st.LikeCount--
	}
	return *st, nil
}

func (f *fakeRemote) ToggleDislike(_ context.Context, artworkID string) (ReactionState, error) {
	f.mu.Lock()
	f.dislikeCalls++
	f.mu.Unlock()
	if err := f.gate(); err != nil {
		return ReactionState{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.reaction(artworkID)
	st.Disliked = !st.Disliked
	if st.Disliked {
		st.Liked = false
		st.DislikeCount++
	} else {
		st.DislikeCount--
	}
	return *st, nil
}

func (f *fakeRemote) ToggleListItem(_ context.Context, listID, artworkID string) (string, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()
	if err := f.gate(); err != nil {
		return "", err
	}
	return "added", nil
}

func (f *fakeRemote) CreateList(_ context.Context, title string) (string, error) {
	f.mu.Lock()
	f.createCalls++
	f.mu.Unlock()
	if err := f.gate(); err != nil {
		return "", err
	}
	return f.nextList, nil
}

func TestToggleLike_Applies(t *testing.T) {
	remote := newFakeRemote()
	r := NewReconciler(remote, nil)

	out := r.ToggleLike(context.Background(), "art-1")

	require.Equal(t, StatusApplied, out.Status)
	assert.True(t, out.State.Liked)
	assert.False(t, out.State.Disliked)
	assert.Equal(t, PhaseSettled, r.ReactionPhase("art-1", KindLike))
	assert.Equal(t, 1, remote.likeCalls)

	select {
	case n := <-r.Notifications():
		assert.Equal(t, LevelSuccess, n.Level)
	default:
		t.Fatal("expected a success notification")
	}
}

func TestToggleLike_ClearsDislike(t *testing.T) {
	remote := newFakeRemote()
	remote.reaction("art-1").Disliked = true
	r := NewReconciler(remote, nil)
	r.SeedArtwork("art-1", Membership{Disliked: true})

	out := r.ToggleLike(context.Background(), "art-1")

	require.Equal(t, StatusApplied, out.Status)
	assert.True(t, out.State.Liked)
	assert.False(t, out.State.Disliked, "liking must clear the dislike")
	assert.Equal(t, 1, remote.likeCalls)
	assert.Equal(t, 0, remote.dislikeCalls, "mutual exclusion is one mutation, not two")
}

func TestToggleDislike_ClearsLike(t *testing.T) {
	remote := newFakeRemote()
	remote.reaction("art-1").Liked = true
	r := NewReconciler(remote, nil)
	r.SeedArtwork("art-1", Membership{Liked: true})

	out := r.ToggleDislike(context.Background(), "art-1")

	require.Equal(t, StatusApplied, out.Status)
	assert.True(t, out.State.Disliked)
	assert.False(t, out.State.Liked)
	assert.Equal(t, 1, remote.dislikeCalls)
	assert.Equal(t, 0, remote.likeCalls)
}

func TestToggle_WhilePendingIsNoOp(t *testing.T) {
	remote := newFakeRemote()
	remote.entered = make(chan struct{})
	remote.release = make(chan struct{})
	r := NewReconciler(remote, nil)

	done := make(chan Outcome, 1)
	go func() {
		done <- r.ToggleLike(context.Background(), "art-1")
	}()

	select {
	case <-remote.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first toggle never reached the remote")
	}

	// The optimistic flip is already visible while the call is in
	// flight.
	assert.True(t, r.Membership("art-1").Liked)
	assert.Equal(t, PhasePending, r.ReactionPhase("art-1", KindLike))

	second := r.ToggleLike(context.Background(), "art-1")
	assert.Equal(t, StatusIgnored, second.Status)
	assert.True(t, second.State.Liked, "ignored toggle still reports the pending view")
	assert.Equal(t, 1, remote.likeCalls, "no second remote call while pending")

	close(remote.release)
	first := <-done
	assert.Equal(t, StatusApplied, first.Status)
	assert.True(t, r.Membership("art-1").Liked)
	assert.Equal(t, PhaseSettled, r.ReactionPhase("art-1", KindLike))
}

func TestToggleLike_FailureRestoresPreState(t *testing.T) {
	remote := newFakeRemote()
	remote.failErr = errors.New("boom")
	r := NewReconciler(remote, nil)
	r.SeedList("list-1")
	r.SeedArtwork("art-1", Membership{Disliked: true, Lists: []string{"list-1"}})
	pre := r.Membership("art-1")

	out := r.ToggleLike(context.Background(), "art-1")

	require.Equal(t, StatusFailed, out.Status)
	require.Error(t, out.Err)
	assert.Equal(t, pre, r.Membership("art-1"), "view must match the pre-toggle state exactly")
	assert.Equal(t, PhaseError, r.ReactionPhase("art-1", KindLike))

	select {
	case n := <-r.Notifications():
		assert.Equal(t, LevelFailure, n.Level)
	default:
		t.Fatal("expected a failure notification")
	}
}

func TestToggleLike_ErrorPhaseAllowsRetry(t *testing.T) {
	remote := newFakeRemote()
	remote.failErr = errors.New("boom")
	r := NewReconciler(remote, nil)

	out := r.ToggleLike(context.Background(), "art-1")
	require.Equal(t, StatusFailed, out.Status)

	remote.failErr = nil
	out = r.ToggleLike(context.Background(), "art-1")
	require.Equal(t, StatusApplied, out.Status)
	assert.True(t, out.State.Liked)
	assert.Equal(t, 2, remote.likeCalls)
}

func TestToggleLike_PanicFoldsIntoFailure(t *testing.T) {
	remote := newFakeRemote()
	remote.panicNext = true
	r := NewReconciler(remote, nil)

	var out Outcome
	require.NotPanics(t, func() {
		out = r.ToggleLike(context.Background(), "art-1")
	})
	assert.Equal(t, StatusFailed, out.Status)
	require.Error(t, out.Err)
	assert.False(t, r.Membership("art-1").Liked, "view reverted after the panic")
}

func TestToggleListItem_AddThenRemove(t *testing.T) {
	remote := newFakeRemote()
	r := NewReconciler(remote, nil)

	out := r.ToggleListItem(context.Background(), "list-1", "art-1")
	require.Equal(t, StatusApplied, out.Status)
	assert.Equal(t, []string{"list-1"}, out.State.Lists)

	out = r.ToggleListItem(context.Background(), "list-1", "art-1")
	require.Equal(t, StatusApplied, out.Status)
	assert.Empty(t, out.State.Lists)
	assert.Equal(t, 2, remote.listCalls)
}

func TestToggleListItem_FailureReverts(t *testing.T) {
	remote := newFakeRemote()
	remote.failErr = errors.New("boom")
	r := NewReconciler(remote, nil)
	r.SeedList("list-1")
	r.SeedArtwork("art-1", Membership{Liked: true})

	out := r.ToggleListItem(context.Background(), "list-1", "art-1")

	require.Equal(t, StatusFailed, out.Status)
	assert.Empty(t, r.Membership("art-1").Lists)
	assert.True(t, r.Membership("art-1").Liked, "unrelated state untouched")
	assert.Equal(t, PhaseError, r.ListPhase("list-1", "art-1"))
}

func TestCreateList(t *testing.T) {
	remote := newFakeRemote()
	r := NewReconciler(remote, nil)

	listID, err := r.CreateList(context.Background(), "Favorites")
	require.NoError(t, err)
	assert.Equal(t, "list-1", listID)

	// The new list is immediately usable for membership toggles.
	out := r.ToggleListItem(context.Background(), listID, "art-1")
	require.Equal(t, StatusApplied, out.Status)
	assert.Equal(t, []string{listID}, out.State.Lists)
}

func TestCreateList_BlankTitleNeverReachesServer(t *testing.T) {
	remote := newFakeRemote()
	r := NewReconciler(remote, nil)

	_, err := r.CreateList(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, 0, remote.createCalls)
}

func TestCreateList_FailureLeavesNoList(t *testing.T) {
	remote := newFakeRemote()
	remote.failErr = errors.New("boom")
	r := NewReconciler(remote, nil)

	_, err := r.CreateList(context.Background(), "Favorites")
	require.Error(t, err)
	assert.Equal(t, 1, remote.createCalls)

	select {
	case n := <-r.Notifications():
		assert.Equal(t, LevelFailure, n.Level)
	default:
		t.Fatal("expected a failure notification")
	}
}

func TestHandleArtworkDeleted_Idempotent(t *testing.T) {
	remote := newFakeRemote()
	r := NewReconciler(remote, nil)
	r.SeedArtwork("art-1", Membership{Liked: true})
	r.SeedArtwork("art-2", Membership{Disliked: true})

	var fired int
	r.RegisterCard("art-1", func() { fired++ })

	r.HandleArtworkDeleted("art-1")
	r.HandleArtworkDeleted("art-1")

	assert.Equal(t, 1, fired, "double delivery must notify the card once")
	assert.Equal(t, Membership{}, r.Membership("art-1"))
	assert.True(t, r.Membership("art-2").Disliked, "other cards unaffected")

	// Toggles for a deleted artwork are dead on arrival.
	out := r.ToggleLike(context.Background(), "art-1")
	assert.Equal(t, StatusIgnored, out.Status)
	assert.Equal(t, 0, remote.likeCalls)
}

func TestHandleArtworkDeleted_UnknownArtwork(t *testing.T) {
	r := NewReconciler(newFakeRemote(), nil)
	assert.NotPanics(t, func() {
		r.HandleArtworkDeleted("never-seen")
	})
}

func TestLateCompletionAfterDeleteIsNoOp(t *testing.T) {
	remote := newFakeRemote()
	remote.entered = make(chan struct{})
	remote.release = make(chan struct{})
	r := NewReconciler(remote, nil)

	done := make(chan Outcome, 1)
	go func() {
		done <- r.ToggleLike(context.Background(), "art-1")
	}()

	select {
	case <-remote.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("toggle never reached the remote")
	}

	r.HandleArtworkDeleted("art-1")
	close(remote.release)

	out := <-done
	assert.Equal(t, StatusIgnored, out.Status)
	assert.Equal(t, Membership{}, r.Membership("art-1"), "late completion must not resurrect state")
}

func TestRegisterCard_Unregister(t *testing.T) {
	r := NewReconciler(newFakeRemote(), nil)
	var fired int
	unregister := r.RegisterCard("art-1", func() { fired++ })
	unregister()
	r.HandleArtworkDeleted("art-1")
	assert.Equal(t, 0, fired)
}
