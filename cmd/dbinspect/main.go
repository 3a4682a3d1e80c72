package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/socialsphere/socialsphere-app/internal/domain"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/socialsphere")
	}
	dbPath := filepath.Join(dataPath, "records")

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Record Store Inspection ===")
	fmt.Println()

	inspectUsers(db)
	inspectPosts(db)

	fmt.Println("=== Summary ===")
	for _, prefix := range []string{"user:", "post:", "comment:", "notif:", "friend:", "msg:"} {
		fmt.Printf("%-10s %d\n", strings.TrimSuffix(prefix, ":"), countRecords(db, prefix))
	}
}

// recordKey reports whether key is a primary record key under prefix,
// as opposed to a secondary index entry.
func recordKey(key, prefix string) bool {
	return !strings.HasPrefix(strings.TrimPrefix(key, prefix), "idx:")
}

func countRecords(db *badger.DB, prefix string) int {
	count := 0
	_ = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			if recordKey(string(it.Item().Key()), prefix) {
				count++
			}
		}
		return nil
	})
	return count
}

func inspectUsers(db *badger.DB) {
	shown := 0
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("user:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte("user:")); it.ValidForPrefix([]byte("user:")); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if !recordKey(key, "user:") {
				continue
			}

			err := item.Value(func(val []byte) error {
				var user domain.User
				if err := json.Unmarshal(val, &user); err != nil {
					return err
				}

				if shown < 5 {
					fmt.Printf("User: %s (@%s)\n", user.Name(), user.Username)
					fmt.Printf("  ID: %s\n", user.ID)
					fmt.Printf("  Posts: %d, Friends: %d\n", user.PostsCount, user.FriendsCount)
					fmt.Printf("  Last activity: %s\n", user.LastActivity.Format("2006-01-02 15:04"))
					fmt.Println()
					shown++
				}
				return nil
			})
			if err != nil {
				log.Printf("Error reading user %s: %v", key, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating users: %v", err)
	}
}

func inspectPosts(db *badger.DB) {
	postCount := 0
	taggedCount := 0
	totalLikes := 0

	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("post:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte("post:")); it.ValidForPrefix([]byte("post:")); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if !recordKey(key, "post:") {
				continue
			}

			err := item.Value(func(val []byte) error {
				var post domain.Post
				if err := json.Unmarshal(val, &post); err != nil {
					return err
				}

				postCount++
				totalLikes += post.LikeCount()
				if len(post.Tags) > 0 {
					taggedCount++
				}

				// Show the first few posts in detail
				if postCount <= 3 {
					content := post.Content
					if len(content) > 80 {
						content = content[:80] + "..."
					}
					fmt.Printf("Post by %s: %s\n", post.AuthorName, content)
					fmt.Printf("  ID: %s\n", post.ID)
					fmt.Printf("  Tags: %v, Likes: %d\n", post.Tags, post.LikeCount())
					fmt.Println()
				}
				return nil
			})
			if err != nil {
				log.Printf("Error reading post %s: %v", key, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating posts: %v", err)
	}

	fmt.Printf("Posts with tags: %d of %d, total likes: %d\n\n", taggedCount, postCount, totalLikes)
}
