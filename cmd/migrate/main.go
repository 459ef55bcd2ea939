package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pulsetronic/backend/internal/domain/catalog"
	"github.com/pulsetronic/backend/internal/domain/identity"
	"github.com/pulsetronic/backend/internal/infrastructure/config"
	"github.com/pulsetronic/backend/internal/infrastructure/logger"
	"github.com/pulsetronic/backend/internal/infrastructure/migration"
	"github.com/pulsetronic/backend/internal/infrastructure/persistence"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const defaultMigrationsPath = "migrations"

func main() {
	// Parse flags
	var (
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	// Get command and arguments
	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Determine migrations path
	if migrationsPath == "" {
		if _, err := os.Stat(defaultMigrationsPath); err == nil {
			migrationsPath = defaultMigrationsPath
		} else {
			// Try relative to executable
			execPath, err := os.Executable()
			if err == nil {
				execDir := filepath.Dir(execPath)
				candidatePath := filepath.Join(execDir, "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidatePath); err == nil {
					migrationsPath = candidatePath
				}
			}
		}
		if migrationsPath == "" {
			migrationsPath = defaultMigrationsPath
		}
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("Failed to get absolute path", zap.Error(err))
	}
	migrationsPath = absPath

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", migrationsPath),
	)

	// Handle create command separately (doesn't need DB)
	if command == "create" {
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		name := args[1]
		description := ""
		if len(args) > 2 {
			description = args[2]
		}

		mf, err := migration.CreateMigration(migrationsPath, name, description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}

		log.Info("Migration created successfully",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return
	}

	// Handle list command (doesn't need DB connection)
	if command == "list" {
		migrations, err := migration.ListMigrations(migrationsPath)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}

		if len(migrations) == 0 {
			log.Info("No migrations found")
			return
		}

		log.Info("Available migrations", zap.Int("count", len(migrations)))
		for _, m := range migrations {
			fmt.Println("  -", m)
		}
		return
	}

	// Seed command uses GORM rather than the SQL migrator
	if command == "seed" {
		if err := seed(cfg, log); err != nil {
			log.Fatal("Seed failed", zap.Error(err))
		}
		log.Info("Seed completed successfully")
		return
	}

	// Commands that need database connection
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	// Execute command
	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}

	case "step":
		if len(args) < 2 {
			log.Fatal("Step count required. Usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		if err := m.Steps(n); err != nil {
			log.Fatal("Migration step failed", zap.Error(err))
		}

	case "goto":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.GoTo(uint(version)); err != nil {
			log.Fatal("Migration goto failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Current migration version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
		}

	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		log.Warn("Forcing migration version - use with caution!")
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}

	case "drop":
		log.Warn("This will DROP all database objects. Are you sure? (use -confirm flag)")
		confirm := false
		for _, arg := range args[1:] {
			if arg == "-confirm" || arg == "--confirm" {
				confirm = true
				break
			}
		}
		if !confirm {
			log.Fatal("Drop cancelled. Use 'migrate drop -confirm' to confirm.")
		}
		if err := m.Drop(); err != nil {
			log.Fatal("Drop failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// seed inserts the initial admin account and website catalog content.
// Running it twice is safe: existing rows are left alone.
func seed(cfg *config.Config, log *zap.Logger) error {
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	userRepo := persistence.NewGormUserRepository(db.DB)
	serviceRepo := persistence.NewGormServiceRepository(db.DB)
	faqRepo := persistence.NewGormFAQRepository(db.DB)

	// Admin account
	const adminEmail = "admin@pulsetronic.com.br"
	if _, err := userRepo.FindByEmail(ctx, adminEmail); err == nil {
		log.Info("Admin user already exists, skipping", zap.String("email", adminEmail))
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin, err := identity.NewUser("Administrador", adminEmail, string(hash), identity.UserRoleAdmin)
		if err != nil {
			return fmt.Errorf("build admin user: %w", err)
		}
		if err := userRepo.Save(ctx, admin); err != nil {
			return fmt.Errorf("save admin user: %w", err)
		}
		log.Info("Admin user created", zap.String("email", adminEmail))
		log.Warn("Default admin password in use, change it after first login")
	}

	// Service catalog
	services := []struct {
		title         string
		slug          string
		description   string
		category      catalog.ServiceCategory
		estimatedTime int
	}{
		{"Central Multimídia", "central-multimidia", "Instalação de centrais multimídia com espelhamento Android Auto e Apple CarPlay.", catalog.ServiceCategoryMultimedia, 120},
		{"Som Automotivo", "som-automotivo", "Projetos de som automotivo: alto-falantes, módulos amplificadores e subwoofers.", catalog.ServiceCategorySound, 180},
		{"Câmera de Ré", "camera-de-re", "Instalação de câmera de ré com integração à central multimídia.", catalog.ServiceCategoryCamera, 60},
		{"Alarme e Bloqueador", "alarme-e-bloqueador", "Alarmes automotivos e bloqueadores com acionamento por aplicativo.", catalog.ServiceCategorySecurity, 90},
	}
	for _, s := range services {
		if _, err := serviceRepo.FindBySlug(ctx, s.slug); err == nil {
			log.Info("Service already exists, skipping", zap.String("slug", s.slug))
			continue
		}
		svc, err := catalog.NewService(s.title, s.slug, s.description, s.category, s.estimatedTime)
		if err != nil {
			return fmt.Errorf("build service %q: %w", s.slug, err)
		}
		if err := serviceRepo.Save(ctx, svc); err != nil {
			return fmt.Errorf("save service %q: %w", s.slug, err)
		}
		log.Info("Service created", zap.String("slug", s.slug))
	}

	// FAQ entries
	faqs := []struct {
		question string
		answer   string
		order    int
	}{
		{"Quanto tempo dura a instalação de uma central multimídia?", "Em média duas horas, dependendo do modelo do veículo e dos acessórios integrados.", 1},
		{"A instalação tem garantia?", "Sim, todos os serviços têm garantia de 90 dias sobre a mão de obra, além da garantia do fabricante do equipamento.", 2},
		{"Preciso agendar horário?", "Recomendamos agendar pelo formulário de orçamento ou telefone para garantir atendimento sem espera.", 3},
	}
	existing, err := faqRepo.FindAll(ctx, false)
	if err != nil {
		return fmt.Errorf("list FAQs: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, f := range existing {
		known[f.Question] = true
	}
	for _, f := range faqs {
		if known[f.question] {
			log.Info("FAQ already exists, skipping", zap.Int("order", f.order))
			continue
		}
		faq, err := catalog.NewFAQ(f.question, f.answer, f.order)
		if err != nil {
			return fmt.Errorf("build FAQ %d: %w", f.order, err)
		}
		if err := faqRepo.Save(ctx, faq); err != nil {
			return fmt.Errorf("save FAQ %d: %w", f.order, err)
		}
		log.Info("FAQ created", zap.Int("order", f.order))
	}

	return nil
}

func printUsage() {
	fmt.Println(`Pulse Tronic Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  drop -confirm         Drop all database objects (DANGEROUS)
  create <name> [desc]  Create a new migration file pair
  list                  List available migrations
  seed                  Insert the admin account and website catalog content

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  PULSE_DATABASE_HOST, PULSE_DATABASE_PORT, PULSE_DATABASE_USER,
  PULSE_DATABASE_PASSWORD, PULSE_DATABASE_DBNAME, PULSE_DATABASE_SSLMODE

Examples:
  # Apply all pending migrations
  migrate up

  # Roll back the last migration
  migrate step -1

  # Create a new migration
  migrate create add_quotes_table "Create quotes table"

  # Seed the admin account and catalog
  migrate seed`)
}
