// Package main provides a tool to seed the record store with sample
// social data.
//
// This reads existing users from the store (or creates test users) and
// generates posts, likes, friendships, and direct messages so the feed,
// search, and messaging views have realistic content to work with.
//
// Usage:
//
//	DATA_PATH=~/socialsphere go run ./cmd/seed
//	DATA_PATH=~/socialsphere go run ./cmd/seed --create-users  # Also create test users
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/socialsphere/socialsphere-app/internal/auth"
	"github.com/socialsphere/socialsphere-app/internal/color"
	"github.com/socialsphere/socialsphere-app/internal/domain"
	"github.com/socialsphere/socialsphere-app/internal/id"
	"github.com/socialsphere/socialsphere-app/internal/service"
	"github.com/socialsphere/socialsphere-app/internal/store"
)

var createUsers = flag.Bool("create-users", false, "Create test users before seeding content")

var samplePosts = []string{
	"Доброе утро! Начинаем день с кофе ☕ #утро",
	"Кто-нибудь пробовал новый парк на набережной? #прогулка #выходные",
	"Дочитал отличную книгу про распределённые системы #книги #технологии",
	"Сегодня весь день пишу код и слушаю джаз #работа",
	"Поделитесь рецептом идеального борща? #кулинария",
	"Закат сегодня просто невероятный #фото #природа",
	"Наконец-то починил велосипед, завтра на прогулку #велосипед",
	"Локальные приложения возвращаются, и это прекрасно #технологии",
}

var sampleMessages = []string{
	"Привет! Как дела?",
	"Видел твою последнюю запись, отличное фото!",
	"Пойдём завтра на прогулку?",
	"Спасибо за совет с книгой, уже читаю",
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/socialsphere")
	}

	recordsPath := filepath.Join(dataPath, "records")
	fmt.Printf("Opening record store at: %s\n", recordsPath)

	s, err := store.New(recordsPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if *createUsers {
		createTestUsers(ctx, s)
	}

	users := collectUsers(ctx, s)
	if len(users) == 0 {
		log.Fatal("No users found in store. Run with --create-users or register one first.")
	}
	fmt.Printf("Found %d users\n", len(users))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, user := range users {
		fmt.Printf("\nSeeding content for user: %s (%s)\n", user.Name(), user.ID)
		seedPosts(ctx, s, rng, user)
	}

	seedFriendships(ctx, s, users)
	seedMessages(ctx, s, rng, users)
	seedLikes(ctx, s, rng, users)

	fmt.Println("\nDone.")
}

func collectUsers(ctx context.Context, s *store.Store) []*domain.User {
	var users []*domain.User
	for user, err := range s.Users.List(ctx) {
		if err != nil {
			log.Fatalf("Failed to list users: %v", err)
		}
		users = append(users, user)
	}
	return users
}

func createTestUsers(ctx context.Context, s *store.Store) {
	fixtures := []struct {
		username    string
		displayName string
		bio         string
	}{
		{"anna_k", "Анна Ковалёва", "Фотограф и любитель прогулок"},
		{"maxim", "Максим Орлов", "Пишу про технологии"},
		{"lena_art", "Лена Соколова", "Рисую и готовлю"},
	}

	for _, f := range fixtures {
		if _, err := s.GetUserByUsername(ctx, f.username); err == nil {
			fmt.Printf("User %s already exists, skipping\n", f.username)
			continue
		}

		passwordHash, err := auth.HashPassword("password1")
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		userID, err := id.Generate("user")
		if err != nil {
			log.Fatalf("Failed to generate user ID: %v", err)
		}

		user := &domain.User{
			Username:     f.username,
			Email:        f.username + "@example.com",
			PasswordHash: passwordHash,
			DisplayName:  f.displayName,
			Bio:          f.bio,
			AvatarColor:  color.ForUser(userID),
			LastActivity: time.Now(),
			Privacy:      domain.DefaultPrivacy(),
		}
		user.ID = userID
		user.InitTimestamps()

		if err := s.Users.Create(ctx, userID, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", f.username, err)
		}
		fmt.Printf("Created test user: %s (%s)\n", f.displayName, userID)
	}
}

func seedPosts(ctx context.Context, s *store.Store, rng *rand.Rand, user *domain.User) {
	count := 2 + rng.Intn(3)
	now := time.Now()

	for i := 0; i < count; i++ {
		content := samplePosts[rng.Intn(len(samplePosts))]

		postID, err := id.Generate("post")
		if err != nil {
			log.Fatalf("Failed to generate post ID: %v", err)
		}

		post := &domain.Post{
			AuthorID:   user.ID,
			AuthorName: user.Name(),
			Content:    content,
			Tags:       domain.ExtractTags(content),
			Privacy:    domain.PrivacyPublic,
		}
		post.ID = postID
		// Spread posts over the past week so the feed has depth
		post.CreatedAt = now.Add(-time.Duration(rng.Intn(7*24)) * time.Hour)
		post.UpdatedAt = post.CreatedAt

		if err := s.Posts.Create(ctx, postID, post); err != nil {
			log.Printf("Failed to create post for %s: %v", user.ID, err)
			continue
		}
		user.PostsCount++
	}

	user.Touch()
	if err := s.Users.Update(ctx, user.ID, user); err != nil {
		log.Printf("Failed to update post count for %s: %v", user.ID, err)
	}
	fmt.Printf("  Created %d posts\n", count)
}

func seedFriendships(ctx context.Context, s *store.Store, users []*domain.User) {
	created := 0
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			if hasEdge(ctx, s, users[i].ID, users[j].ID) {
				continue
			}
			createEdge(ctx, s, users[i].ID, users[j].ID)
			createEdge(ctx, s, users[j].ID, users[i].ID)
			users[i].FriendsCount++
			users[j].FriendsCount++
			created++
		}
	}

	for _, user := range users {
		if err := s.Users.Update(ctx, user.ID, user); err != nil {
			log.Printf("Failed to update friend count for %s: %v", user.ID, err)
		}
	}
	fmt.Printf("\nCreated %d friendships\n", created)
}

func hasEdge(ctx context.Context, s *store.Store, userID, friendID string) bool {
	edges, err := s.FriendsOf(ctx, userID)
	if err != nil {
		return false
	}
	for _, edge := range edges {
		if edge.FriendID == friendID {
			return true
		}
	}
	return false
}

func createEdge(ctx context.Context, s *store.Store, userID, friendID string) {
	edgeID, err := id.Generate("friend")
	if err != nil {
		log.Fatalf("Failed to generate friend ID: %v", err)
	}

	edge := &domain.Friend{
		UserID:   userID,
		FriendID: friendID,
		Status:   domain.FriendAccepted,
	}
	edge.ID = edgeID
	edge.InitTimestamps()

	if err := s.Friends.Create(ctx, edgeID, edge); err != nil {
		log.Printf("Failed to create friendship edge: %v", err)
	}
}

func seedMessages(ctx context.Context, s *store.Store, rng *rand.Rand, users []*domain.User) {
	if len(users) < 2 {
		return
	}

	created := 0
	for i := 0; i < len(users)-1; i++ {
		sender, recipient := users[i], users[i+1]
		conversationID := service.ConversationID(sender.ID, recipient.ID)

		count := 1 + rng.Intn(3)
		for j := 0; j < count; j++ {
			messageID, err := id.Generate("msg")
			if err != nil {
				log.Fatalf("Failed to generate message ID: %v", err)
			}

			msg := &domain.Message{
				ConversationID: conversationID,
				SenderID:       sender.ID,
				Content:        sampleMessages[rng.Intn(len(sampleMessages))],
			}
			msg.ID = messageID
			msg.CreatedAt = time.Now().Add(-time.Duration(rng.Intn(48)) * time.Hour)
			msg.UpdatedAt = msg.CreatedAt

			if err := s.Messages.Create(ctx, messageID, msg); err != nil {
				log.Printf("Failed to create message: %v", err)
				continue
			}
			created++

			// Alternate direction so conversations read naturally
			sender, recipient = recipient, sender
		}
	}
	fmt.Printf("Created %d messages\n", created)
}

func seedLikes(ctx context.Context, s *store.Store, rng *rand.Rand, users []*domain.User) {
	posts, err := s.ListPostsNewestFirst(ctx)
	if err != nil {
		log.Printf("Failed to list posts: %v", err)
		return
	}

	liked := 0
	for _, post := range posts {
		for _, user := range users {
			if user.ID == post.AuthorID || rng.Intn(3) != 0 {
				continue
			}
			if post.ToggleLike(user.ID) {
				liked++
			}
		}
		post.Touch()
		if err := s.Posts.Update(ctx, post.ID, post); err != nil {
			log.Printf("Failed to update likes on %s: %v", post.ID, err)
		}
	}
	fmt.Printf("Created %d likes across %d posts\n", liked, len(posts))
}
