/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package mongo

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fulmenhq/courseport/internal/tutor"
	"github.com/fulmenhq/courseport/pkg/logger"
)

// Uploader writes one course into the configured collections.
type Uploader struct {
	cfg    *Config
	client *mongo.Client
}

// NewUploader creates an uploader; Connect must be called before Upload.
func NewUploader(cfg *Config) *Uploader {
	return &Uploader{cfg: cfg}
}

// Connect dials and pings the server.
func (u *Uploader) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(u.cfg.URI))
	if err != nil {
		return fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("ping mongo: %w", err)
	}
	u.client = client
	logger.Info("connected to mongo", logger.String("database", u.cfg.Database))
	return nil
}

// Disconnect releases the client.
func (u *Uploader) Disconnect(ctx context.Context) error {
	if u.client == nil {
		return nil
	}
	return u.client.Disconnect(ctx)
}

// curriculumItem is the flattened per-content document.
type curriculumItem struct {
	ID       primitive.ObjectID `bson:"_id"`
	CourseID primitive.ObjectID `bson:"courseId"`
	TopicID  primitive.ObjectID `bson:"topicId"`
	Title    string             `bson:"title"`
	Slug     string             `bson:"slug"`
	Type     string             `bson:"type"`
	IsHidden bool               `bson:"isHidden"`
	Content  string             `bson:"content"`
}

type itemRef struct {
	ItemID   primitive.ObjectID `bson:"itemId"`
	ItemType string             `bson:"itemType"`
	Title    string             `bson:"title"`
	Slug     string             `bson:"slug"`
}

type topicDoc struct {
	ID      primitive.ObjectID `bson:"_id"`
	Title   string             `bson:"title"`
	Summary string             `bson:"summary"`
	Locked  bool               `bson:"locked"`
	Items   []itemRef          `bson:"items"`
}

// Upload inserts the curriculum items first, then the course document that
// references them. A failed item insert leaves no course document behind.
func (u *Uploader) Upload(ctx context.Context, course *tutor.Course) error {
	if u.client == nil {
		return fmt.Errorf("uploader is not connected")
	}

	courseID := primitive.NewObjectID()
	authorID := primitive.NewObjectID()

	var items []interface{}
	var structure []topicDoc

	for _, topic := range course.Topics {
		topicID := primitive.NewObjectID()
		doc := topicDoc{
			ID:      topicID,
			Title:   topic.TopicTitle,
			Summary: topic.TopicSummary,
		}

		add := func(title, itemType, content string) {
			if content == "" {
				content = "<p>No content provided.</p>"
			}
			item := curriculumItem{
				ID:       primitive.NewObjectID(),
				CourseID: courseID,
				TopicID:  topicID,
				Title:    title,
				Slug:     slugify(title),
				Type:     itemType,
				Content:  content,
			}
			items = append(items, item)
			doc.Items = append(doc.Items, itemRef{
				ItemID:   item.ID,
				ItemType: itemType,
				Title:    title,
				Slug:     item.Slug,
			})
		}

		for _, lesson := range topic.Lessons {
			add(lesson.PostTitle, "Lesson", lesson.PostContent)
		}
		for _, quiz := range topic.Quizzes {
			add(quiz.PostTitle, "Quiz", quiz.PostContent)
		}
		for _, assignment := range topic.Assignments {
			add(assignment.PostTitle, "Assignment", assignment.PostContent)
		}
		structure = append(structure, doc)
	}

	db := u.client.Database(u.cfg.Database)

	if len(items) > 0 {
		result, err := db.Collection(u.cfg.CurriculumCollection).InsertMany(ctx, items)
		if err != nil {
			return fmt.Errorf("insert curriculum items: %w", err)
		}
		logger.Info("curriculum items inserted", logger.Int("count", len(result.InsertedIDs)))
	}

	now := time.Now().UTC()
	courseDoc := bson.M{
		"_id":             courseID,
		"title":           course.PostTitle,
		"courseUrl":       slugify(course.PostTitle),
		"description":     course.PostContent,
		"featuredImage":   "https://placehold.co/600x400?text=Course+Image",
		"introVideo":      "",
		"authorId":        authorID,
		"authorName":      "Admin",
		"pricingModel":    "Free",
		"price":           0,
		"categories":      []string{"Imported"},
		"difficultyLevel": "All Levels",
		"curriculum":      structure,
		"isPublic":        true,
		"isDraft":         course.PostStatus == "draft",
		"createdAt":       now,
		"updatedAt":       now,
	}
	if _, err := db.Collection(u.cfg.CourseCollection).InsertOne(ctx, courseDoc); err != nil {
		return fmt.Errorf("insert course document: %w", err)
	}

	logger.Info("course uploaded",
		logger.String("course", course.PostTitle),
		logger.Int("curriculum_items", len(items)))
	return nil
}

var (
	slugSpaceRe  = regexp.MustCompile(`\s+`)
	slugStripRe  = regexp.MustCompile(`[^\w\-]+`)
	slugHyphenRe = regexp.MustCompile(`\-\-+`)
)

// slugify builds a URL-friendly slug with a random suffix to dodge
// duplicate titles.
func slugify(text string) string {
	if text == "" {
		return fmt.Sprintf("untitled-%d", time.Now().UnixMilli())
	}
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = slugSpaceRe.ReplaceAllString(slug, "-")
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugHyphenRe.ReplaceAllString(slug, "-")
	return fmt.Sprintf("%s-%d", slug, 100+rand.Intn(900))
}
