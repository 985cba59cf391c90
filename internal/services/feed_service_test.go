package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFeedPaginationIsMonotonic(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.store.addUser("uid-alice", "Alice")

	// two posts share a timestamp so the id tie-break is exercised
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		if i == 4 {
			at = base.Add(3 * time.Minute)
		}
		f.store.addPostAt(alice, at)
	}

	var all []models.EnrichedPost
	for page := 1; page <= 3; page++ {
		res, err := f.feed.GetFeed(ctx, FeedQuery{Page: page, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, page < 3, res.HasMore, "page %d", page)
		all = append(all, res.Posts...)
	}

	require.Len(t, all, 7)
	seen := map[uint]bool{}
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		assert.False(t, cur.CreatedAt.After(prev.CreatedAt), "posts out of order at %d", i)
		if cur.CreatedAt.Equal(prev.CreatedAt) {
			assert.Less(t, cur.ID, prev.ID)
		}
	}
	for _, p := range all {
		assert.False(t, seen[p.ID], "post %d returned twice", p.ID)
		seen[p.ID] = true
	}
}

func TestGetFeedHasMoreOnExactMultiple(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("uid-alice", "Alice")
	for i := 0; i < 6; i++ {
		f.store.addPost(alice)
	}

	res, err := f.feed.GetFeed(context.Background(), FeedQuery{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, res.Posts, 3)
	assert.False(t, res.HasMore)
}

func TestGetFeedClampsPaging(t *testing.T) {
	f := newFixture()

	res, err := f.feed.GetFeed(context.Background(), FeedQuery{Page: -2, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, DefaultPageLimit, res.Limit)

	res, err = f.feed.GetFeed(context.Background(), FeedQuery{Limit: MaxPageLimit})
	require.NoError(t, err)
	assert.Equal(t, MaxPageLimit, res.Limit)
}

func TestGetFeedHugePageIsEmpty(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("uid-alice", "Alice")
	f.store.addPost(alice)

	res, err := f.feed.GetFeed(context.Background(), FeedQuery{Page: math.MaxInt, Limit: MaxPageLimit})
	require.NoError(t, err)
	assert.Equal(t, MaxPage, res.Page)
	assert.Empty(t, res.Posts)
	assert.False(t, res.HasMore)
}

func TestGetFeedEmptyPageSkipsEnrichment(t *testing.T) {
	f := newFixture()
	viewer := f.store.addUser("uid-v", "Viewer")

	res, err := f.feed.GetFeed(context.Background(), FeedQuery{Page: 1, Limit: 10, ViewerID: &viewer.ID})
	require.NoError(t, err)
	assert.NotNil(t, res.Posts)
	assert.Empty(t, res.Posts)
	assert.False(t, res.HasMore)

	assert.Zero(t, f.store.callCount("LikeCounts"))
	assert.Zero(t, f.store.callCount("CommentCounts"))
	assert.Zero(t, f.store.callCount("LikedPostIDs"))
	assert.Zero(t, f.store.callCount("RecentComments"))
}

func TestGetFeedAuthorFilter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.store.addUser("uid-alice", "Alice")
	bob := f.store.addUser("uid-bob", "Bob")
	f.store.addPost(alice)
	bobPost := f.store.addPost(bob)
	f.store.addPost(alice)

	res, err := f.feed.GetFeed(ctx, FeedQuery{Page: 1, Limit: 10, AuthorExternalID: "uid-bob"})
	require.NoError(t, err)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, bobPost.ID, res.Posts[0].ID)
	assert.Equal(t, "uid-bob", res.Posts[0].Author.ExternalID)

	res, err = f.feed.GetFeed(ctx, FeedQuery{Page: 1, Limit: 10, AuthorExternalID: "uid-nobody"})
	require.NoError(t, err)
	assert.Empty(t, res.Posts)
	assert.False(t, res.HasMore)
}

func TestGetFeedViewerLikes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.store.addUser("uid-alice", "Alice")
	bob := f.store.addUser("uid-bob", "Bob")
	p1 := f.store.addPost(alice)
	p2 := f.store.addPost(alice)
	f.store.addLike(bob, p1)

	res, err := f.feed.GetFeed(ctx, FeedQuery{Page: 1, Limit: 10, ViewerID: &bob.ID})
	require.NoError(t, err)
	liked := map[uint]bool{}
	for _, p := range res.Posts {
		liked[p.ID] = p.ViewerHasLiked
	}
	assert.True(t, liked[p1.ID])
	assert.False(t, liked[p2.ID])

	// anonymous readers never see a like flag and never hit the like lookup
	res, err = f.feed.GetFeed(ctx, FeedQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	for _, p := range res.Posts {
		assert.False(t, p.ViewerHasLiked)
	}
	assert.Equal(t, 1, f.store.callCount("LikedPostIDs"))
}

func TestGetFeedDegradesWhenSubqueriesFail(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("uid-alice", "Alice")
	bob := f.store.addUser("uid-bob", "Bob")
	post := f.store.addPost(alice)
	f.store.addLike(bob, post)
	f.store.addComment(bob, post, "nice")

	f.store.failLikeCounts = errStoreDown
	f.store.failRecent = errStoreDown
	f.store.failLikedIDs = errStoreDown

	res, err := f.feed.GetFeed(context.Background(), FeedQuery{Page: 1, Limit: 10, ViewerID: &bob.ID})
	require.NoError(t, err)
	require.Len(t, res.Posts, 1)
	got := res.Posts[0]
	assert.Equal(t, post.ID, got.ID)
	assert.Zero(t, got.LikesCount)
	assert.Zero(t, got.CommentsCount)
	assert.False(t, got.ViewerHasLiked)
	assert.Empty(t, got.Comments)

	components := map[string]bool{}
	for _, entry := range f.hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == "feed enrichment degraded" {
			components[entry.Data["component"].(string)] = true
		}
	}
	assert.Equal(t, map[string]bool{"aggregates": true, "viewer_likes": true, "comment_preview": true}, components)
}

func TestCommentOrderingAsymmetry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.store.addUser("uid-alice", "Alice")
	bob := f.store.addUser("uid-bob", "Bob")
	post := f.store.addPost(alice)

	var ids []uint
	for _, text := range []string{"c1", "c2", "c3", "c4", "c5"} {
		ids = append(ids, f.store.addComment(bob, post, text).ID)
	}

	res, err := f.feed.GetFeed(ctx, FeedQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Posts, 1)
	preview := res.Posts[0].Comments
	require.Len(t, preview, PreviewSize)
	assert.Equal(t, "c5", preview[0].Content)
	assert.Equal(t, "c4", preview[1].Content)
	assert.Equal(t, "uid-bob", preview[0].Author.ExternalID)
	assert.EqualValues(t, 5, res.Posts[0].CommentsCount)

	detail, err := f.feed.GetPost(ctx, post.ID, nil)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 5)
	for i, c := range detail.Comments {
		assert.Equal(t, ids[i], c.ID)
	}
}

func TestGetAggregates(t *testing.T) {
	f := newFixture()
	alice := f.store.addUser("uid-alice", "Alice")
	post := f.store.addPost(alice)
	quiet := f.store.addPost(alice)
	for i := 0; i < 3; i++ {
		liker := f.store.addUser("uid-liker-"+string(rune('a'+i)), "Liker")
		f.store.addLike(liker, post)
	}
	f.store.addComment(alice, post, "one")
	f.store.addComment(alice, post, "two")

	aggs, err := f.feed.GetAggregates(context.Background(), []uint{post.ID, quiet.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, models.PostAggregate{LikesCount: 3, CommentsCount: 2}, aggs[post.ID])
	assert.Equal(t, models.PostAggregate{}, aggs[quiet.ID])
	assert.Equal(t, models.PostAggregate{}, aggs[9999])

	empty, err := f.feed.GetAggregates(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetAggregatesReportsStoreFailure(t *testing.T) {
	f := newFixture()
	f.store.failCommentCounts = errStoreDown

	_, err := f.feed.GetAggregates(context.Background(), []uint{1})
	assert.Equal(t, KindStoreUnavailable, KindOf(err))
	assert.ErrorIs(t, err, errStoreDown)
}

func TestGetRecentCommentsIgnoresNonPositivePreview(t *testing.T) {
	f := newFixture()

	res, err := f.feed.GetRecentComments(context.Background(), []uint{1, 2}, 0)
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.Zero(t, f.store.callCount("RecentComments"))
}

func TestGetPostNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.feed.GetPost(context.Background(), 42, nil)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}
