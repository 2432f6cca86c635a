package service

import (
	"context"
	"log/slog"
	"time"

	"glimpse/internal/middleware"
	"glimpse/internal/models"
	"glimpse/internal/observability"
	"glimpse/internal/repository"
)

// previewRootComments is how many root comments ride along with each
// feed item. The full thread is a separate request.
const previewRootComments = 2

// FeedService assembles pages of enriched posts. Enrichment runs as a
// fixed set of batched queries over the page, never per post.
type FeedService struct {
	postRepo     repository.PostRepository
	userRepo     repository.UserRepository
	commentRepo  repository.CommentRepository
	relationRepo repository.RelationRepository
}

// FeedInput selects one page of the feed. ViewerID of zero means an
// anonymous request; AuthorID restricts the page to one author's posts.
type FeedInput struct {
	ViewerID uint
	AuthorID *uint
	Limit    int
	Offset   int
}

func NewFeedService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	relationRepo repository.RelationRepository,
) *FeedService {
	return &FeedService{
		postRepo:     postRepo,
		userRepo:     userRepo,
		commentRepo:  commentRepo,
		relationRepo: relationRepo,
	}
}

// GetFeed returns one page of posts with authors, comment previews and
// viewer flags resolved. A missing author row degrades that post's User
// to nil instead of failing the page.
func (s *FeedService) GetFeed(ctx context.Context, in FeedInput) (*models.FeedPage, error) {
	span, ctx := observability.NewSpan(ctx, "feed.assemble")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.FeedAssemblyDuration.Observe(time.Since(start).Seconds())
	}()

	posts, total, err := s.postRepo.Page(ctx, in.AuthorID, in.Limit, in.Offset)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	if err := s.enrichPosts(ctx, posts, in.ViewerID); err != nil {
		span.SetError(err)
		return nil, err
	}

	return &models.FeedPage{
		Items:      posts,
		TotalCount: total,
		HasMore:    int64(in.Offset+in.Limit) < total,
	}, nil
}

// GetBookmarkedFeed pages over the viewer's saved posts with the same
// enrichment as the main feed.
func (s *FeedService) GetBookmarkedFeed(ctx context.Context, viewerID uint, limit, offset int) (*models.FeedPage, error) {
	span, ctx := observability.NewSpan(ctx, "feed.bookmarked")
	defer span.End()

	posts, total, err := s.postRepo.PageBookmarked(ctx, viewerID, limit, offset)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	if err := s.enrichPosts(ctx, posts, viewerID); err != nil {
		span.SetError(err)
		return nil, err
	}

	return &models.FeedPage{
		Items:      posts,
		TotalCount: total,
		HasMore:    int64(offset+limit) < total,
	}, nil
}

// GetPost returns a single post with its author, viewer flags and the
// full two-level comment thread.
func (s *FeedService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	thread := BuildThread(comments)

	authorIDs := []uint{post.UserID}
	for _, c := range comments {
		authorIDs = append(authorIDs, c.UserID)
	}
	users, err := s.userRepo.GetByIDs(ctx, dedupeIDs(authorIDs))
	if err != nil {
		return nil, err
	}

	post.User = users[post.UserID]
	if post.User == nil {
		observability.FeedPartialDegradations.WithLabelValues("post_author").Inc()
	}
	for _, root := range thread {
		root.User = users[root.UserID]
		for _, reply := range root.Replies {
			reply.User = users[reply.UserID]
		}
	}
	post.Comments = thread

	if viewerID != 0 {
		liked, err := s.relationRepo.TargetsFor(ctx, models.RelationLike, viewerID, []uint{id})
		if err != nil {
			return nil, err
		}
		post.Liked = len(liked) == 1

		bookmarked, err := s.relationRepo.TargetsFor(ctx, models.RelationBookmark, viewerID, []uint{id})
		if err != nil {
			return nil, err
		}
		post.Bookmarked = len(bookmarked) == 1
	}

	return post, nil
}

// enrichPosts resolves authors, comment previews and viewer flags for a
// page of posts in four batched queries. A failed batch degrades its
// field to an empty default instead of failing the page: previews go
// empty, authors go nil, viewer flags go false.
func (s *FeedService) enrichPosts(ctx context.Context, posts []*models.Post, viewerID uint) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	roots, err := s.commentRepo.RootsForPosts(ctx, postIDs)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "feed comment batch failed, serving empty previews",
			slog.String("error", err.Error()))
		observability.FeedPartialDegradations.WithLabelValues("comment_batch").Inc()
		roots = nil
	}

	previews := make(map[uint][]*models.Comment, len(posts))
	for _, c := range roots {
		if len(previews[c.PostID]) < previewRootComments {
			previews[c.PostID] = append(previews[c.PostID], c)
		}
	}

	authorIDs := make([]uint, 0, len(posts)+len(roots))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.UserID)
	}
	for _, cs := range previews {
		for _, c := range cs {
			authorIDs = append(authorIDs, c.UserID)
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, dedupeIDs(authorIDs))
	if err != nil {
		middleware.Logger.WarnContext(ctx, "feed author batch failed, serving null authors",
			slog.String("error", err.Error()))
		observability.FeedPartialDegradations.WithLabelValues("author_batch").Inc()
		users = map[uint]*models.User{}
	}

	var likedSet, bookmarkedSet map[uint]bool
	if viewerID != 0 {
		likedIDs, err := s.relationRepo.TargetsFor(ctx, models.RelationLike, viewerID, postIDs)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "feed liked-flag batch failed, serving unflagged",
				slog.String("error", err.Error()))
			observability.FeedPartialDegradations.WithLabelValues("viewer_flags").Inc()
		}
		likedSet = idSet(likedIDs)

		bookmarkedIDs, err := s.relationRepo.TargetsFor(ctx, models.RelationBookmark, viewerID, postIDs)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "feed bookmarked-flag batch failed, serving unflagged",
				slog.String("error", err.Error()))
			observability.FeedPartialDegradations.WithLabelValues("viewer_flags").Inc()
		}
		bookmarkedSet = idSet(bookmarkedIDs)
	}

	for _, p := range posts {
		p.User = users[p.UserID]
		if p.User == nil {
			observability.FeedPartialDegradations.WithLabelValues("post_author").Inc()
		}
		preview := previews[p.ID]
		if preview == nil {
			preview = []*models.Comment{}
		}
		for _, c := range preview {
			c.User = users[c.UserID]
			if c.User == nil {
				observability.FeedPartialDegradations.WithLabelValues("comment_author").Inc()
			}
		}
		p.Comments = preview
		p.Liked = likedSet[p.ID]
		p.Bookmarked = bookmarkedSet[p.ID]
	}
	return nil
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
