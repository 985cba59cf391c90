package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/anonto42/snapfeed/backend/internal/notifications"
	"github.com/anonto42/snapfeed/backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var errStoreDown = errors.New("connection refused")

// memStore is an in-memory stand-in for the relational store
type memStore struct {
	mu       sync.Mutex
	nextID   uint
	now      time.Time
	users    map[uint]*models.User
	posts    map[uint]*models.Post
	likes    []models.Like
	comments []models.Comment
	follows  []models.Follow
	calls    map[string]int

	// failure injection
	failLikeCounts    error
	failCommentCounts error
	failLikedIDs      error
	failRecent        error
	failCreatePost    error
	failCreateLike    error
}

func newMemStore() *memStore {
	return &memStore{
		now:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		users: map[uint]*models.User{},
		posts: map[uint]*models.Post{},
		calls: map[string]int{},
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *memStore) called(name string) {
	s.calls[name]++
}

func (s *memStore) callCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

// seeding helpers

func (s *memStore) addUser(uid, name string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: s.id(), FirebaseUID: uid, DisplayName: name, CreatedAt: s.tick()}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addPost(author *models.User) *models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.tick()
	p := &models.Post{ID: s.id(), AuthorID: author.ID, MediaURL: "https://cdn.test/p.png", MediaKey: "posts/k.png", CreatedAt: at, UpdatedAt: at}
	s.posts[p.ID] = p
	return p
}

func (s *memStore) addPostAt(author *models.User, at time.Time) *models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &models.Post{ID: s.id(), AuthorID: author.ID, MediaURL: "https://cdn.test/p.png", CreatedAt: at, UpdatedAt: at}
	s.posts[p.ID] = p
	return p
}

func (s *memStore) addComment(author *models.User, post *models.Post, content string) models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.tick()
	c := models.Comment{ID: s.id(), PostID: post.ID, AuthorID: author.ID, Content: content, CreatedAt: at, UpdatedAt: at}
	s.comments = append(s.comments, c)
	return c
}

func (s *memStore) addLike(user *models.User, post *models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes = append(s.likes, models.Like{ID: s.id(), PostID: post.ID, UserID: user.ID, CreatedAt: s.tick()})
}

func (s *memStore) withAuthor(c models.Comment) models.Comment {
	if u, ok := s.users[c.AuthorID]; ok {
		c.Author = *u
	}
	return c
}

// users

type memUsers struct{ *memStore }

func (r memUsers) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.FirebaseUID == user.FirebaseUID {
			return repositories.ErrDuplicate
		}
	}
	user.ID = r.id()
	user.CreatedAt = r.tick()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r memUsers) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetUserByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.FirebaseUID == uid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r memUsers) UpdateProfile(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[user.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.DisplayName = user.DisplayName
	u.Email = user.Email
	u.ImageURL = user.ImageURL
	return nil
}

func (r memUsers) SearchUsers(_ context.Context, query string, limit int) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.called("SearchUsers")
	var out []models.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.DisplayName), strings.ToLower(query)) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// posts

type memPosts struct{ *memStore }

func (r memPosts) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreatePost != nil {
		return r.failCreatePost
	}
	post.ID = r.id()
	post.CreatedAt = r.tick()
	post.UpdatedAt = post.CreatedAt
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r memPosts) GetPostByID(_ context.Context, id uint) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	if u, ok := r.users[p.AuthorID]; ok {
		cp.Author = *u
	}
	return &cp, nil
}

func (r memPosts) GetPostsPage(_ context.Context, authorID *uint, offset, limit int) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []models.Post
	for _, p := range r.posts {
		if authorID != nil && p.AuthorID != *authorID {
			continue
		}
		cp := *p
		if u, ok := r.users[p.AuthorID]; ok {
			cp.Author = *u
		}
		all = append(all, cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	if offset >= len(all) {
		return []models.Post{}, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r memPosts) UpdateCaption(_ context.Context, id uint, caption *string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	p.Caption = caption
	p.UpdatedAt = r.tick()
	cp := *p
	return &cp, nil
}

func (r memPosts) DeletePost(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.posts, id)
	likes := r.likes[:0]
	for _, l := range r.likes {
		if l.PostID != id {
			likes = append(likes, l)
		}
	}
	r.likes = likes
	comments := r.comments[:0]
	for _, c := range r.comments {
		if c.PostID != id {
			comments = append(comments, c)
		}
	}
	r.comments = comments
	return nil
}

func (r memPosts) CountByAuthor(_ context.Context, authorID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

// likes

type memLikes struct{ *memStore }

func (r memLikes) CreateLike(_ context.Context, like *models.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreateLike != nil {
		return r.failCreateLike
	}
	if _, ok := r.posts[like.PostID]; !ok {
		return repositories.ErrMissingReference
	}
	for _, l := range r.likes {
		if l.PostID == like.PostID && l.UserID == like.UserID {
			return repositories.ErrDuplicate
		}
	}
	like.ID = r.id()
	like.CreatedAt = r.tick()
	r.likes = append(r.likes, *like)
	return nil
}

func (r memLikes) DeleteLike(_ context.Context, postID, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.likes {
		if l.PostID == postID && l.UserID == userID {
			r.likes = append(r.likes[:i], r.likes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r memLikes) HasUserLikedPost(_ context.Context, postID, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.likes {
		if l.PostID == postID && l.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r memLikes) CountByPostIDs(_ context.Context, postIDs []uint) (map[uint]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.called("LikeCounts")
	if r.failLikeCounts != nil {
		return nil, r.failLikeCounts
	}
	want := idSet(postIDs)
	out := map[uint]int64{}
	for _, l := range r.likes {
		if want[l.PostID] {
			out[l.PostID]++
		}
	}
	return out, nil
}

func (r memLikes) GetLikedPostIDs(_ context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.called("LikedPostIDs")
	if r.failLikedIDs != nil {
		return nil, r.failLikedIDs
	}
	want := idSet(postIDs)
	out := map[uint]bool{}
	for _, l := range r.likes {
		if l.UserID == userID && want[l.PostID] {
			out[l.PostID] = true
		}
	}
	return out, nil
}

// comments

type memComments struct{ *memStore }

func (r memComments) CreateComment(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[comment.PostID]; !ok {
		return repositories.ErrMissingReference
	}
	comment.ID = r.id()
	comment.CreatedAt = r.tick()
	comment.UpdatedAt = comment.CreatedAt
	r.comments = append(r.comments, *comment)
	return nil
}

func (r memComments) GetCommentByID(_ context.Context, id uint) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.comments {
		if c.ID == id {
			cp := r.withAuthor(c)
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r memComments) DeleteComment(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.comments {
		if c.ID == id {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r memComments) ListByPostID(_ context.Context, postID uint) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Comment{}
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, r.withAuthor(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memComments) RecentByPostIDs(_ context.Context, postIDs []uint, perPost int) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.called("RecentComments")
	if r.failRecent != nil {
		return nil, r.failRecent
	}
	want := idSet(postIDs)
	var all []models.Comment
	for _, c := range r.comments {
		if want[c.PostID] {
			all = append(all, r.withAuthor(c))
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	seen := map[uint]int{}
	var out []models.Comment
	for _, c := range all {
		if seen[c.PostID] < perPost {
			seen[c.PostID]++
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memComments) CountByPostIDs(_ context.Context, postIDs []uint) (map[uint]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.called("CommentCounts")
	if r.failCommentCounts != nil {
		return nil, r.failCommentCounts
	}
	want := idSet(postIDs)
	out := map[uint]int64{}
	for _, c := range r.comments {
		if want[c.PostID] {
			out[c.PostID]++
		}
	}
	return out, nil
}

// follows

type memFollows struct{ *memStore }

func (r memFollows) CreateFollow(_ context.Context, follow *models.Follow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[follow.FollowingID]; !ok {
		return repositories.ErrMissingReference
	}
	for _, f := range r.follows {
		if f.FollowerID == follow.FollowerID && f.FollowingID == follow.FollowingID {
			return repositories.ErrDuplicate
		}
	}
	follow.ID = r.id()
	follow.CreatedAt = r.tick()
	r.follows = append(r.follows, *follow)
	return nil
}

func (r memFollows) DeleteFollow(_ context.Context, followerID, followingID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			r.follows = append(r.follows[:i], r.follows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r memFollows) IsFollowing(_ context.Context, followerID, followingID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (r memFollows) GetFollowersCount(_ context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, f := range r.follows {
		if f.FollowingID == userID {
			n++
		}
	}
	return n, nil
}

func (r memFollows) GetFollowingCount(_ context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, f := range r.follows {
		if f.FollowerID == userID {
			n++
		}
	}
	return n, nil
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// media

type memMedia struct {
	mu         sync.Mutex
	objects    map[string][]byte
	deleted    []string
	failUpload error
	failDelete error
}

func newMemMedia() *memMedia {
	return &memMedia{objects: map[string][]byte{}}
}

func (m *memMedia) Upload(_ context.Context, key, _ string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpload != nil {
		return "", m.failUpload
	}
	m.objects[key] = data
	return "https://media.test/" + key, nil
}

func (m *memMedia) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	if m.failDelete != nil {
		return m.failDelete
	}
	delete(m.objects, key)
	return nil
}

// events

type recordingPublisher struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (p *recordingPublisher) Publish(ev notifications.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) Events() []notifications.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notifications.Event(nil), p.events...)
}

// fixture bundles a store with every service built on it
type fixture struct {
	store      *memStore
	media      *memMedia
	events     *recordingPublisher
	hook       *test.Hook
	feed       *FeedService
	posts      *PostService
	engagement *EngagementService
	accounts   *AccountService
}

func newFixture() *fixture {
	store := newMemStore()
	media := newMemMedia()
	events := &recordingPublisher{}
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	users := memUsers{store}
	posts := memPosts{store}
	likes := memLikes{store}
	comments := memComments{store}
	follows := memFollows{store}

	return &fixture{
		store:      store,
		media:      media,
		events:     events,
		hook:       hook,
		feed:       NewFeedService(users, posts, likes, comments, log),
		posts:      NewPostService(posts, media, log),
		engagement: NewEngagementService(users, posts, likes, comments, follows, events, log),
		accounts:   NewAccountService(users, posts, follows, log),
	}
}
