package service

import (
	"context"
	"fmt"
	"time"

	"github.com/socialsphere/socialsphere-app/internal/auth"
	"github.com/socialsphere/socialsphere-app/internal/color"
	"github.com/socialsphere/socialsphere-app/internal/domain"
	domainerrors "github.com/socialsphere/socialsphere-app/internal/errors"
	"github.com/socialsphere/socialsphere-app/internal/id"
	"github.com/socialsphere/socialsphere-app/internal/search"
	"github.com/socialsphere/socialsphere-app/internal/store"
)

// demoPosts are the fixture posts created alongside the demo account,
// newest last so the feed shows them in a natural order.
var demoPosts = []struct {
	content string
	age     time.Duration
}{
	{"Всем привет! Это моя первая запись в SocialSphere \U0001F44B #знакомство", 3 * time.Hour},
	{"Отличный день для прогулки по городу. Кто со мной? #выходные #прогулка", 2 * time.Hour},
	{"Изучаю новые технологии. Локальные приложения - это будущее! #технологии", 30 * time.Minute},
}

// seedDemoData creates the demo account and its fixture posts once.
// Subsequent calls are no-ops.
func (s *AuthService) seedDemoData(ctx context.Context) error {
	seeded, err := s.store.Seeded()
	if err != nil {
		return fmt.Errorf("check seed marker: %w", err)
	}
	if seeded {
		return nil
	}

	passwordHash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return fmt.Errorf("generate demo user ID: %w", err)
	}

	user := &domain.User{
		Username:     DemoUsername,
		Email:        DemoEmail,
		PasswordHash: passwordHash,
		DisplayName:  "Демо Пользователь",
		Bio:          "Это демонстрационный аккаунт SocialSphere",
		AvatarColor:  color.ForUser(userID),
		PostsCount:   len(demoPosts),
		LastActivity: time.Now(),
		Privacy:      domain.DefaultPrivacy(),
	}
	user.ID = userID
	user.InitTimestamps()

	if err := s.store.Users.Create(ctx, userID, user); err != nil {
		// A concurrent seeder or a partial earlier run got here first.
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return s.store.MarkSeeded()
		}
		return fmt.Errorf("create demo user: %w", err)
	}

	docs := []*search.Document{search.UserToDocument(user)}

	now := time.Now()
	for _, fixture := range demoPosts {
		postID, err := id.Generate("post")
		if err != nil {
			return fmt.Errorf("generate demo post ID: %w", err)
		}

		post := &domain.Post{
			AuthorID:   userID,
			AuthorName: user.Name(),
			Content:    fixture.content,
			Tags:       domain.ExtractTags(fixture.content),
			Privacy:    domain.PrivacyPublic,
		}
		post.ID = postID
		post.CreatedAt = now.Add(-fixture.age)
		post.UpdatedAt = post.CreatedAt

		if err := s.store.Posts.Create(ctx, postID, post); err != nil {
			return fmt.Errorf("create demo post: %w", err)
		}

		docs = append(docs, search.PostToDocument(post))
		for _, tag := range post.Tags {
			docs = append(docs, search.TagToDocument(tag))
		}
	}

	if err := s.searchIndex.IndexDocuments(docs); err != nil {
		s.logger.Warn("failed to index demo fixtures", "error", err)
	}

	if err := s.store.MarkSeeded(); err != nil {
		return fmt.Errorf("mark seeded: %w", err)
	}

	s.logger.Info("Demo data seeded", "user_id", userID, "posts", len(demoPosts))
	return nil
}
