package services

import (
	"context"
	"errors"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/anonto42/snapfeed/backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
	PreviewSize      = 2

	// MaxPage keeps (page-1)*limit far from int overflow
	MaxPage = 10000
)

// FeedQuery selects one page of the feed
type FeedQuery struct {
	Page             int
	Limit            int
	AuthorExternalID string
	ViewerID         *uint
}

// FeedPage is one page of enriched posts
type FeedPage struct {
	Posts   []models.EnrichedPost
	Page    int
	Limit   int
	HasMore bool
}

// FeedService assembles enriched posts from the post, like and comment relations
type FeedService struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	likes    repositories.LikeRepository
	comments repositories.CommentRepository
	log      logrus.FieldLogger
}

// NewFeedService creates a new FeedService
func NewFeedService(
	users repositories.UserRepository,
	posts repositories.PostRepository,
	likes repositories.LikeRepository,
	comments repositories.CommentRepository,
	log logrus.FieldLogger,
) *FeedService {
	return &FeedService{users: users, posts: posts, likes: likes, comments: comments, log: log}
}

// GetFeed returns one page of posts, newest first. An unknown author filter yields an empty page.
func (s *FeedService) GetFeed(ctx context.Context, q FeedQuery) (*FeedPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 || q.Limit > MaxPageLimit {
		q.Limit = DefaultPageLimit
	}
	page := &FeedPage{Posts: []models.EnrichedPost{}, Page: q.Page, Limit: q.Limit}

	var authorID *uint
	if q.AuthorExternalID != "" {
		author, err := s.users.GetUserByFirebaseUID(ctx, q.AuthorExternalID)
		if errors.Is(err, repositories.ErrNotFound) {
			return page, nil
		}
		if err != nil {
			return nil, storeUnavailable("resolve feed author", err)
		}
		authorID = &author.ID
	}

	// one extra row tells whether another page exists
	posts, err := s.posts.GetPostsPage(ctx, authorID, (q.Page-1)*q.Limit, q.Limit+1)
	if err != nil {
		return nil, storeUnavailable("load feed page", err)
	}
	if len(posts) > q.Limit {
		page.HasMore = true
		posts = posts[:q.Limit]
	}
	if len(posts) == 0 {
		return page, nil
	}

	page.Posts = s.enrich(ctx, posts, q.ViewerID, PreviewSize)
	return page, nil
}

// GetPost returns the detail view of a post with every comment, oldest first
func (s *FeedService) GetPost(ctx context.Context, postID uint, viewerID *uint) (*models.EnrichedPost, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound(ReasonPostNotFound, "post not found")
	}
	if err != nil {
		return nil, storeUnavailable("load post", err)
	}
	enriched := s.enrich(ctx, []models.Post{*post}, viewerID, 0)
	return &enriched[0], nil
}

// GetAggregates counts likes and comments per post. Missing ids mean zero counts.
func (s *FeedService) GetAggregates(ctx context.Context, postIDs []uint) (map[uint]models.PostAggregate, error) {
	result := make(map[uint]models.PostAggregate, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}
	likeCounts, err := s.likes.CountByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, storeUnavailable("count likes", err)
	}
	commentCounts, err := s.comments.CountByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, storeUnavailable("count comments", err)
	}
	for id, n := range likeCounts {
		agg := result[id]
		agg.LikesCount = n
		result[id] = agg
	}
	for id, n := range commentCounts {
		agg := result[id]
		agg.CommentsCount = n
		result[id] = agg
	}
	return result, nil
}

// GetLikedPostIDs returns which of postIDs the viewer has liked. No viewer means none.
func (s *FeedService) GetLikedPostIDs(ctx context.Context, viewerID *uint, postIDs []uint) (map[uint]bool, error) {
	if viewerID == nil || len(postIDs) == 0 {
		return map[uint]bool{}, nil
	}
	liked, err := s.likes.GetLikedPostIDs(ctx, *viewerID, postIDs)
	if err != nil {
		return nil, storeUnavailable("load viewer likes", err)
	}
	return liked, nil
}

// GetRecentComments returns up to previewSize comments per post, newest first
func (s *FeedService) GetRecentComments(ctx context.Context, postIDs []uint, previewSize int) (map[uint][]models.Comment, error) {
	result := make(map[uint][]models.Comment)
	if len(postIDs) == 0 || previewSize <= 0 {
		return result, nil
	}
	comments, err := s.comments.RecentByPostIDs(ctx, postIDs, previewSize)
	if err != nil {
		return nil, storeUnavailable("load comment previews", err)
	}
	for _, c := range comments {
		if len(result[c.PostID]) < previewSize {
			result[c.PostID] = append(result[c.PostID], c)
		}
	}
	return result, nil
}

// enrich fans out the secondary lookups for a base page and merges them by post id.
// previewSize 0 loads the full oldest-first comment list of a single post.
func (s *FeedService) enrich(ctx context.Context, posts []models.Post, viewerID *uint, previewSize int) []models.EnrichedPost {
	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	log := s.log.WithField("posts", len(postIDs))

	var (
		aggregates = map[uint]models.PostAggregate{}
		liked      = map[uint]bool{}
		comments   = map[uint][]models.Comment{}
	)

	// sub-query failures degrade to zero values instead of failing the read
	var g errgroup.Group
	g.Go(func() error {
		res, err := s.GetAggregates(ctx, postIDs)
		if err != nil {
			log.WithError(err).WithField("component", "aggregates").Warn("feed enrichment degraded")
			return nil
		}
		aggregates = res
		return nil
	})
	g.Go(func() error {
		res, err := s.GetLikedPostIDs(ctx, viewerID, postIDs)
		if err != nil {
			log.WithError(err).WithField("component", "viewer_likes").Warn("feed enrichment degraded")
			return nil
		}
		liked = res
		return nil
	})
	g.Go(func() error {
		if previewSize > 0 {
			res, err := s.GetRecentComments(ctx, postIDs, previewSize)
			if err != nil {
				log.WithError(err).WithField("component", "comment_preview").Warn("feed enrichment degraded")
				return nil
			}
			comments = res
			return nil
		}
		all, err := s.comments.ListByPostID(ctx, postIDs[0])
		if err != nil {
			log.WithError(err).WithField("component", "comments").Warn("feed enrichment degraded")
			return nil
		}
		comments = map[uint][]models.Comment{postIDs[0]: all}
		return nil
	})
	_ = g.Wait()

	enriched := make([]models.EnrichedPost, len(posts))
	for i := range posts {
		p := &posts[i]
		agg := aggregates[p.ID]
		views := make([]models.CommentView, 0, len(comments[p.ID]))
		for j := range comments[p.ID] {
			views = append(views, comments[p.ID][j].View())
		}
		enriched[i] = models.EnrichedPost{
			ID:             p.ID,
			MediaURL:       p.MediaURL,
			Caption:        p.Caption,
			CreatedAt:      p.CreatedAt,
			UpdatedAt:      p.UpdatedAt,
			Author:         p.Author.ToCompact(),
			LikesCount:     agg.LikesCount,
			CommentsCount:  agg.CommentsCount,
			ViewerHasLiked: liked[p.ID],
			Comments:       views,
		}
	}
	return enriched
}
