package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/daybook/core/internal/adapters/icsfeed"
	"github.com/daybook/core/internal/adapters/notify"
	"github.com/daybook/core/internal/adapters/repository"
	"github.com/daybook/core/internal/adapters/storage/file"
	"github.com/daybook/core/internal/adapters/storage/sqlite"
	"github.com/daybook/core/internal/application/services"
	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/config"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/infrastructure/server"
	"github.com/daybook/core/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Daybook API server",
		Long:  "Start the Daybook API server, re-arming stored reminders whose fire time is still in the future",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Storage migration commands (sqlite backend)",
		Long:  "Manage the sqlite storage schema (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewEventCommand creates the event management command
func NewEventCommand() *cobra.Command {
	eventCmd := &cobra.Command{
		Use:   "event",
		Short: "Event management commands",
		Long:  "Create and manage calendar events directly against local storage",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new event",
		Run: func(cmd *cobra.Command, args []string) {
			title, _ := cmd.Flags().GetString("title")
			description, _ := cmd.Flags().GetString("description")
			date, _ := cmd.Flags().GetString("date")
			clock, _ := cmd.Flags().GetString("time")
			reminder, _ := cmd.Flags().GetInt("reminder")

			if title == "" || date == "" {
				log.Fatal("Title and date are required")
			}

			createEvent(title, description, date, clock, reminder)
		},
	}
	createCmd.Flags().String("title", "", "Event title (required)")
	createCmd.Flags().String("description", "", "Event description")
	createCmd.Flags().String("date", "", "Event date, YYYY-MM-DD (required)")
	createCmd.Flags().String("time", "", "Event time, HH:MM")
	createCmd.Flags().Int("reminder", 0, "Reminder offset in minutes before the event starts")
	eventCmd.AddCommand(createCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List events, optionally for a single date",
		Run: func(cmd *cobra.Command, args []string) {
			date, _ := cmd.Flags().GetString("date")
			listEvents(date)
		},
	}
	listCmd.Flags().String("date", "", "Only events on this date, YYYY-MM-DD")
	eventCmd.AddCommand(listCmd)

	upcomingCmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List upcoming events",
		Run: func(cmd *cobra.Command, args []string) {
			limit, _ := cmd.Flags().GetInt("limit")
			listUpcoming(limit)
		},
	}
	upcomingCmd.Flags().Int("limit", services.DefaultUpcomingLimit, "Maximum number of events")
	eventCmd.AddCommand(upcomingCmd)

	eventCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event by id",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			deleteEvent(args[0])
		},
	})

	return eventCmd
}

// NewExportCommand creates the ICS export command
func NewExportCommand() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export all events as an iCalendar file",
		Run: func(cmd *cobra.Command, args []string) {
			out, _ := cmd.Flags().GetString("output")
			exportCalendar(out)
		},
	}
	exportCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	return exportCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Daybook version",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				fmt.Println("Daybook (unknown version)")
				return
			}
			fmt.Printf("Daybook %s\n", cfg.App.Version)
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	kv, closeStore, err := openStore(cfg)
	if err != nil {
		appLogger.Fatalw("Failed to open storage", "error", err)
	}
	defer closeStore()

	gateway := buildGateway(cfg, appLogger)

	srv, err := server.New(cfg, kv, gateway, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize server", "error", err)
	}

	if err := srv.RearmReminders(context.Background()); err != nil {
		appLogger.Errorw("Failed to re-arm reminders", "error", err)
	}

	appLogger.Infow("Starting Daybook API server",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Backend,
		"environment", cfg.App.Environment,
	)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			appLogger.Errorw("Forced shutdown", "error", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLogger.Fatalw("Server failed to start", "error", err)
	}
}

func runMigration(direction string) {
	m, closeStore := newMigrator()
	defer closeStore()

	var err error
	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migration failed: %v", err)
	}

	if err == migrate.ErrNoChange {
		fmt.Println("No migrations to run")
	} else {
		fmt.Printf("Migration %s completed successfully\n", direction)
	}
}

func showMigrationVersion() {
	m, closeStore := newMigrator()
	defer closeStore()

	version, dirty, err := m.Version()
	if err == migrate.ErrNilVersion {
		fmt.Println("No migrations applied yet")
		return
	}
	if err != nil {
		log.Fatalf("Failed to read migration version: %v", err)
	}
	fmt.Printf("Version: %d, dirty: %t\n", version, dirty)
}

func newMigrator() (*migrate.Migrate, func()) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" {
		log.Fatal("Migrations apply to the sqlite backend only (set STORAGE_BACKEND=sqlite)")
	}

	store, err := sqlite.New(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	driver, err := migratesqlite.WithInstance(store.DB().DB, &migratesqlite.Config{})
	if err != nil {
		store.Close()
		log.Fatalf("Failed to create migration driver: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+cfg.Storage.MigrationsPath,
		"sqlite",
		driver,
	)
	if err != nil {
		store.Close()
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	return m, func() { store.Close() }
}

func createEvent(title, description, date, clock string, reminderMinutes int) {
	svc, cleanup := newLocalEventService()
	defer cleanup()

	req := ports.CreateEventRequest{
		Title: title,
		Date:  date,
	}
	if description != "" {
		req.Description = &description
	}
	if clock != "" {
		req.Time = &clock
	}
	if reminderMinutes > 0 {
		req.HasReminder = true
		req.ReminderMinutes = &reminderMinutes
	}

	event, err := svc.Create(context.Background(), req)
	if err != nil {
		log.Fatalf("Failed to create event: %v", err)
	}

	fmt.Printf("Created event %s (%s)\n", event.ID, event.Title)
	if event.HasReminder {
		fmt.Println("Reminder will be armed the next time the server starts")
	}
}

func listEvents(date string) {
	svc, cleanup := newLocalEventService()
	defer cleanup()

	ctx := context.Background()

	var events []entities.Event
	var err error
	if date != "" {
		events, err = svc.ListByDate(ctx, date)
	} else {
		events, err = svc.ListAll(ctx)
	}
	if err != nil {
		log.Fatalf("Failed to list events: %v", err)
	}
	printEvents(events)
}

func listUpcoming(limit int) {
	svc, cleanup := newLocalEventService()
	defer cleanup()

	events, err := svc.Upcoming(context.Background(), limit)
	if err != nil {
		log.Fatalf("Failed to list upcoming events: %v", err)
	}
	printEvents(events)
}

func deleteEvent(id string) {
	svc, cleanup := newLocalEventService()
	defer cleanup()

	removed, err := svc.Delete(context.Background(), id)
	if err != nil {
		log.Fatalf("Failed to delete event: %v", err)
	}
	if !removed {
		fmt.Println("No event with that id")
		return
	}
	fmt.Println("Event deleted")
}

func exportCalendar(out string) {
	svc, cleanup := newLocalEventService()
	defer cleanup()

	events, err := svc.ListAll(context.Background())
	if err != nil {
		log.Fatalf("Failed to list events: %v", err)
	}

	payload, err := icsfeed.BuildCalendar(events)
	if err != nil {
		log.Fatalf("Failed to build calendar: %v", err)
	}

	if out == "" {
		fmt.Print(string(payload))
		return
	}
	if err := os.WriteFile(out, payload, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", out, err)
	}
	fmt.Printf("Wrote %s\n", out)
}

func newLocalEventService() (*services.EventService, func()) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	kv, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}

	// CLI output goes to stdout; structured logs stay out of the way.
	repo := repository.NewEventRepository(kv, logger.NewNop())
	svc := services.NewEventService(repo, services.SystemClock{}, logger.NewNop())
	return svc, closeStore
}

func openStore(cfg *config.Config) (ports.KeyValueStore, func(), error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		store, err := sqlite.New(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		store, err := file.New(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

func buildGateway(cfg *config.Config, appLogger *logger.Logger) *notify.TimerGateway {
	var sender notify.Sender
	switch cfg.Notifications.Sender {
	case "email":
		sender = notify.NewResendSender(
			cfg.Notifications.ResendAPIKey,
			cfg.Notifications.EmailFrom,
			cfg.Notifications.EmailTo,
			appLogger,
		)
	default:
		sender = notify.NewLogSender(appLogger)
	}
	return notify.NewTimerGateway(sender, cfg.Notifications.Enabled, appLogger)
}

func printEvents(events []entities.Event) {
	if len(events) == 0 {
		fmt.Println("No events")
		return
	}
	for _, ev := range events {
		when := ev.Date
		if ev.Time != nil {
			when += " " + *ev.Time
		}
		line := fmt.Sprintf("%s  %s  %s", ev.ID, when, ev.Title)
		if ev.HasReminder && ev.ReminderMinutes != nil {
			line += fmt.Sprintf("  (reminder %dm before)", *ev.ReminderMinutes)
		}
		fmt.Println(line)
	}
}
