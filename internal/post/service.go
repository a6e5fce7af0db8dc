package post

import (
	"context"

	"backend-trailhub/internal/apperr"
	"backend-trailhub/internal/store"
)

type Service struct {
	posts store.Repository[store.Post]
}

func NewService(s *store.Store) *Service {
	return &Service{posts: s.Posts}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (store.Post, error) {
	return s.posts.Create(ctx, req.toPost())
}

// List returns the community feed, newest first.
func (s *Service) List(ctx context.Context) ([]store.Post, error) {
	return s.posts.List(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]store.Post, error) {
	return s.posts.List(ctx, store.Where("userId", userID))
}

func (s *Service) Get(ctx context.Context, id string) (store.Post, error) {
	p, ok, err := s.posts.Get(ctx, id)
	if err != nil {
		return store.Post{}, err
	}
	if !ok {
		return store.Post{}, apperr.NotFound("Post")
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, patch store.Patch[store.Post]) (store.Post, error) {
	p, ok, err := s.posts.Update(ctx, id, patch)
	if !ok && err == nil {
		return store.Post{}, apperr.NotFound("Post")
	}
	return p, err
}

// Like adds one like. Concurrent likes are never lost.
func (s *Service) Like(ctx context.Context, id string) (store.Post, error) {
	return s.Update(ctx, id, store.PatchFunc[store.Post](func(p *store.Post) error {
		p.Likes++
		return nil
	}))
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.posts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Post")
	}
	return nil
}
