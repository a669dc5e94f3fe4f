/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/fulmenhq/courseport/internal/mongo"
	"github.com/fulmenhq/courseport/internal/tutor"
	"github.com/fulmenhq/courseport/pkg/exitcode"
	"github.com/fulmenhq/courseport/pkg/logger"
	"github.com/spf13/cobra"
)

// uploadCmd pushes a converted course into MongoDB.
var uploadCmd = &cobra.Command{
	Use:   "upload <tutor_course.json>",
	Short: "Upload a converted course to MongoDB",
	Long: `Upload reads a converted course document and inserts it into the
configured MongoDB database: one course document plus one curriculum item
per lesson, quiz and assignment.

Connection settings come from COURSEPORT_MONGO_* environment variables or
a config file:
   COURSEPORT_MONGO_URI                    mongodb:// or mongodb+srv:// URI (required)
   COURSEPORT_MONGO_DATABASE               database name (default tutor_lms)
   COURSEPORT_MONGO_COURSE_COLLECTION      course collection (default courses)
   COURSEPORT_MONGO_CURRICULUM_COLLECTION  item collection (default curriculum_items)`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().String("config", "", "Path to upload config file (yaml/json/toml)")
	uploadCmd.Flags().String("uri", "", "MongoDB connection URI (overrides config and environment)")
	uploadCmd.Flags().Duration("timeout", 30*time.Second, "Connection and upload timeout")
}

func runUpload(cmd *cobra.Command, args []string) error {
	courseFile := args[0]
	configFile, _ := cmd.Flags().GetString("config")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg, err := mongo.LoadConfig(configFile)
	if err != nil {
		logger.Error("cannot load upload config", logger.Err(err))
		os.Exit(exitcode.ConfigError)
	}
	if uri, _ := cmd.Flags().GetString("uri"); uri != "" {
		cfg.URI = uri
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid upload config", logger.Err(err))
		os.Exit(exitcode.ConfigError)
	}

	course, err := readCourseFile(courseFile)
	if err != nil {
		logger.Error("cannot read course document", logger.Err(err), logger.String("path", courseFile))
		os.Exit(exitcode.FileSystemError)
	}

	ctx, cancel := contextWithTimeout(cmd, timeout)
	defer cancel()

	uploader := mongo.NewUploader(cfg)
	if err := uploader.Connect(ctx); err != nil {
		logger.Error("mongo connection failed", logger.Err(err))
		os.Exit(exitcode.NetworkError)
	}
	defer func() { _ = uploader.Disconnect(ctx) }()

	if err := uploader.Upload(ctx, course); err != nil {
		logger.Error("upload failed", logger.Err(err))
		os.Exit(exitcode.NetworkError)
	}
	return nil
}

func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, d)
}

// readCourseFile reads the exported tutor_course.json envelope back into
// the course model.
func readCourseFile(path string) (*tutor.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Course struct {
			Title   string `json:"title"`
			Content string `json:"content"`
			Status  string `json:"status"`
		} `json:"course"`
		Topics []struct {
			Title   string `json:"title"`
			Summary string `json:"summary"`
			Order   int    `json:"order"`
			Lessons []struct {
				Title   string `json:"title"`
				Content string `json:"content"`
				Status  string `json:"status"`
				Order   int    `json:"order"`
			} `json:"lessons"`
			Quizzes []struct {
				Title   string `json:"title"`
				Content string `json:"content"`
				Status  string `json:"status"`
				Order   int    `json:"order"`
			} `json:"quizzes"`
			Assignments []struct {
				Title   string `json:"title"`
				Content string `json:"content"`
				Status  string `json:"status"`
				Order   int    `json:"order"`
			} `json:"assignments"`
		} `json:"topics"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}

	course := &tutor.Course{
		PostTitle:   envelope.Course.Title,
		PostContent: envelope.Course.Content,
		PostStatus:  envelope.Course.Status,
	}
	for _, t := range envelope.Topics {
		topic := tutor.Topic{
			TopicTitle:   t.Title,
			TopicSummary: t.Summary,
			TopicOrder:   t.Order,
		}
		for _, l := range t.Lessons {
			topic.Lessons = append(topic.Lessons, tutor.Lesson{
				PostTitle: l.Title, PostContent: l.Content, PostStatus: l.Status, MenuOrder: l.Order,
			})
		}
		for _, q := range t.Quizzes {
			topic.Quizzes = append(topic.Quizzes, tutor.Quiz{
				PostTitle: q.Title, PostContent: q.Content, PostStatus: q.Status, MenuOrder: q.Order,
			})
		}
		for _, a := range t.Assignments {
			topic.Assignments = append(topic.Assignments, tutor.Assignment{
				PostTitle: a.Title, PostContent: a.Content, PostStatus: a.Status, MenuOrder: a.Order,
			})
		}
		course.Topics = append(course.Topics, topic)
	}
	return course, nil
}
