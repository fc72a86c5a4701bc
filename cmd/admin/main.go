package main

import (
	"context"
	"errors"
	"fmt"
	"guardaazul/backend/internal/chatbot"
	"guardaazul/backend/internal/complaint"
	"guardaazul/backend/internal/config"
	"guardaazul/backend/internal/imagestore"
	"guardaazul/backend/internal/localization"
	"guardaazul/backend/internal/storage"
	"guardaazul/backend/internal/validation"
	"guardaazul/backend/internal/vision"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	svc       *complaint.Service
	describer *chatbot.Gemini
)

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Moderation tools for Guarda Azul complaints",
	Long: `admin works directly against the database. Verdicts are also published
to Redis when it is reachable so connected clients hear about them.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		svc, err = newService()
		return err
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List complaints waiting for manual review",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := svc.Pending(cmd.Context())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No complaints waiting for review.")
			return nil
		}
		for _, c := range list {
			fmt.Printf("#%d  %s  %s  (%.5f, %.5f)  %s\n",
				c.ID, c.CreatedAt.Format("2006-01-02 15:04"), c.Category, c.Latitude, c.Longitude, c.Description)
		}
		return nil
	},
}

var revalidateCmd = &cobra.Command{
	Use:   "revalidate <complaint_id>",
	Short: "Run AI validation again for a complaint parked for manual review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseComplaintID(args[0])
		if err != nil {
			return err
		}
		status, err := svc.Revalidate(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("Complaint %d is now %s.\n", id, status)
		return nil
	},
}

var describePrompt string

var describeCmd = &cobra.Command{
	Use:   "describe <complaint_id>",
	Short: "Ask Gemini for a description of a complaint's photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseComplaintID(args[0])
		if err != nil {
			return err
		}
		c, err := svc.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		if c.ImagePath == "" {
			return fmt.Errorf("complaint %d has no photo", id)
		}
		image, err := svc.Images.Read(c.ImagePath)
		if err != nil {
			return fmt.Errorf("read photo: %w", err)
		}
		desc, err := describer.Describe(cmd.Context(), image, describePrompt)
		if err != nil {
			return err
		}
		fmt.Println(desc)
		return nil
	},
}

var (
	reviewValid   bool
	reviewInvalid bool
)

var reviewCmd = &cobra.Command{
	Use:   "review <complaint_id> --valid|--invalid",
	Short: "Record a moderator decision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseComplaintID(args[0])
		if err != nil {
			return err
		}
		if err := svc.Review(cmd.Context(), id, reviewValid); err != nil {
			return err
		}
		verdict := "rejected"
		if reviewValid {
			verdict = "approved"
		}
		fmt.Printf("Complaint %d %s.\n", id, verdict)
		return nil
	},
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewValid, "valid", false, "approve the complaint")
	reviewCmd.Flags().BoolVar(&reviewInvalid, "invalid", false, "reject the complaint")
	reviewCmd.MarkFlagsMutuallyExclusive("valid", "invalid")
	reviewCmd.MarkFlagsOneRequired("valid", "invalid")

	describeCmd.Flags().StringVar(&describePrompt, "prompt", "", "custom instruction for the model")

	rootCmd.AddCommand(pendingCmd, revalidateCmd, reviewCmd, describeCmd)
}

func parseComplaintID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid complaint id %q", raw)
	}
	return uint(id), nil
}

func newService() (*complaint.Service, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARNING: Redis unavailable, verdicts will not be pushed: %v", err)
		rdb.Close()
		rdb = nil
	}

	l, err := localization.NewBundled()
	if err != nil {
		return nil, err
	}
	images, err := imagestore.New(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	pipeline := validation.NewPipeline(vision.NewClient(cfg.VisionAPIKey), validation.NewScorer(cfg.Validation))
	s := complaint.NewService(storage.NewStorageService(db, rdb), images, pipeline, l, cfg.Validation)
	s.StatusCacheTTL = cfg.StatusCacheTTL
	describer = chatbot.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
	return s, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			fmt.Fprintln(os.Stderr, "Complaint not found.")
		case errors.Is(err, complaint.ErrNotReviewable):
			fmt.Fprintln(os.Stderr, "Complaint already has a final verdict; only complaints in manual review can be reviewed.")
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
