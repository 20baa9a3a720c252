// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// MaxDays spreads generated created_at timestamps over the past N days.
	MaxDays int
	// SkipBcrypt stores plaintext passwords for faster dev seeding.
	SkipBcrypt bool
	// DryRun generates entities without writing to the database.
	DryRun bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return fmt.Errorf("failed to create any users")
	}
	log.Printf("%d test users created", len(users))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		posts = append(posts, f.BuildPost(users[f.rand.Intn(len(users))]))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if !opts.DryRun {
		if err := seedInteractions(f, users, posts); err != nil {
			return fmt.Errorf("failed to seed interactions: %w", err)
		}
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// seedInteractions sprinkles comments, likes and favorites across the feed so
// computed counts are non-trivial.
func seedInteractions(f *Factory, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		for i := 0; i < f.rand.Intn(4); i++ {
			commenter := users[f.rand.Intn(len(users))]
			if _, err := f.CreateComment(commenter, post); err != nil {
				return err
			}
		}
		// Distinct likers only; the unique index rejects duplicates.
		likers := f.rand.Perm(len(users))
		for _, idx := range likers[:f.rand.Intn(min(len(users), 6))] {
			if err := f.CreateLike(users[idx], post); err != nil {
				return err
			}
		}
		if f.rand.Float32() < 0.1 {
			if err := f.CreateFavorite(users[f.rand.Intn(len(users))], post); err != nil {
				return err
			}
		}
	}
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, favorites, post_files, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
